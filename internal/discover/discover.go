// Package discover enumerates candidate files under a directory tree by
// extension class. Discovery only yields paths; nothing is opened here.
package discover

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// MediaTypes maps supported audio extensions (lowercase, no dot) to the
// MIME type emitted on the feed enclosure. Initialized once, never mutated.
var MediaTypes = map[string]string{
	"aac": "audio/aac",
	"mp3": "audio/mpeg",
	"ogg": "audio/ogg",
	"wma": "audio/x-ms-wma",
	"wav": "audio/vnd.wave",
	"mp4": "audio/mp4",
}

// ImageExtensions lists recognized artwork extensions.
var ImageExtensions = []string{"jpg", "jpeg", "png"}

var (
	infoNames    = []string{"readme", "info", "about"}
	infoSuffixes = []string{"", ".txt", ".md", ".info", ".rst"}
)

// MediaMasks returns one glob mask per supported audio extension, in a
// stable order.
func MediaMasks() []string {
	exts := make([]string, 0, len(MediaTypes))
	for ext := range MediaTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	masks := make([]string, len(exts))
	for i, ext := range exts {
		masks[i] = "*." + ext
	}
	return masks
}

// ImageMasks returns the glob masks for artwork files.
func ImageMasks() []string {
	masks := make([]string, len(ImageExtensions))
	for i, ext := range ImageExtensions {
		masks[i] = "*." + ext
	}
	return masks
}

// InfoMasks returns the name patterns treated as description documents:
// readme/info/about with and without the usual text extensions.
func InfoMasks() []string {
	masks := make([]string, 0, len(infoNames)*len(infoSuffixes))
	for _, name := range infoNames {
		for _, suffix := range infoSuffixes {
			masks = append(masks, name+suffix)
		}
	}
	return masks
}

// MIMEForPath returns the MIME type inferred from the file extension, or
// "" when the extension is not a known media type.
func MIMEForPath(p string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
	return MediaTypes[ext]
}

// InsensitivePattern rewrites a glob mask so it matches case-insensitively
// on any filesystem: every letter becomes a bracketed alternation of its
// lower and upper case form, all other characters pass through unchanged.
func InsensitivePattern(mask string) string {
	var b strings.Builder
	b.Grow(len(mask) * 4)
	for _, r := range mask {
		lower := unicode.ToLower(r)
		upper := unicode.ToUpper(r)
		if unicode.IsLetter(r) && lower != upper {
			b.WriteByte('[')
			b.WriteRune(lower)
			b.WriteRune(upper)
			b.WriteByte(']')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Glob walks root and returns the files whose base name matches one of the
// masks, descending into subdirectories when recursive is set. Unless
// caseSensitive is set, masks are expanded with InsensitivePattern first.
// Unreadable entries below the root are skipped; only a walk failure at the
// root itself is an error.
func Glob(root string, masks []string, recursive, caseSensitive bool) ([]string, error) {
	if !caseSensitive {
		expanded := make([]string, len(masks))
		for i, mask := range masks {
			expanded[i] = InsensitivePattern(mask)
		}
		masks = expanded
	}

	var found []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if !recursive && p != root {
				return filepath.SkipDir
			}
			return nil
		}

		name := filepath.Base(p)
		for _, mask := range masks {
			ok, err := path.Match(mask, name)
			if err != nil {
				return err
			}
			if ok {
				found = append(found, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
