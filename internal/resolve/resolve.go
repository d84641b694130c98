// Package resolve merges discovered files, cascade settings, and explicit
// overrides into the final feed view. Precedence for every field, highest
// first: override, cascade settings, inferred value, hard-coded fallback.
package resolve

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"abooker/internal/discover"
	"abooker/internal/models"
	"abooker/internal/natsort"
	"abooker/internal/settings"
	"abooker/internal/textenc"
)

// Options carries the book location and the explicit per-field overrides.
// Empty override fields defer to the settings cascade.
type Options struct {
	BookDir     string
	BaseURL     string
	Title       string
	Author      string
	Description string
	Image       string
	Lang        string
	Link        string
	NoSettings  bool
}

// Result is one finished resolution run: the feed view plus the settings
// levels to write back.
type Result struct {
	Feed       *models.ResolvedFeed
	BaseURL    string // trailing slash stripped, "" when unset
	BookDir    string
	LibraryDir string
	Library    *settings.Settings
	Book       *settings.Settings
}

// Resolve runs the metadata pipeline for one book directory. The only
// fatal failure is an inaccessible book directory; every per-file problem
// degrades to an absent field and a log line.
func Resolve(opts Options, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	bookDir, err := filepath.Abs(opts.BookDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(bookDir)
	if err != nil {
		return nil, fmt.Errorf("book directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("book directory: %s is not a directory", bookDir)
	}
	libraryDir := filepath.Dir(bookDir)

	merged := &settings.Settings{}
	if !opts.NoSettings {
		merged = settings.Merge(settings.Cascade(bookDir, libraryDir)...)
	}

	baseURL := first(opts.BaseURL, settings.Value(merged.URL))
	base := strings.TrimRight(baseURL, "/")

	feed := &models.ResolvedFeed{
		Title:    first(opts.Title, settings.Value(merged.Title), filepath.Base(bookDir)),
		Author:   first(opts.Author, settings.Value(merged.Author)),
		Language: first(opts.Lang, settings.Value(merged.Lang)),
		Link:     first(opts.Link, settings.Value(merged.Link)),
	}

	feed.Description = resolveDescription(bookDir, opts.Description, merged, logger)
	feed.Image = resolveImage(bookDir, libraryDir, base, opts.Image, logger)

	media, err := discoverSorted(bookDir, discover.MediaMasks(), logger)
	if err != nil {
		return nil, err
	}
	for _, path := range media {
		file := buildMediaFile(path, libraryDir)
		episode := models.Episode{
			Title:           file.Title,
			Filename:        filepath.Base(file.Path),
			URL:             JoinURL(base, file.RelPath),
			MIMEType:        file.MIMEType,
			DurationSeconds: file.DurationSeconds,
		}
		feed.Episodes = append(feed.Episodes, episode)
		logger.Printf("%s:: %s", file.RelPath, episode.URL)
	}

	result := &Result{
		Feed:       feed,
		BaseURL:    base,
		BookDir:    bookDir,
		LibraryDir: libraryDir,
	}
	result.Library, result.Book = persistLevels(opts, merged, libraryDir, bookDir, baseURL)
	return result, nil
}

// SaveSettings writes the updated cascade levels back to disk. Settings
// are a convenience cache, so failures are logged and swallowed.
func (r *Result) SaveSettings(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := settings.Save(r.LibraryDir, r.Library); err != nil {
		logger.Printf("save library settings: %v", err)
	}
	if err := settings.Save(r.BookDir, r.Book); err != nil {
		logger.Printf("save book settings: %v", err)
	}
}

// JoinURL combines the base URL with a percent-encoded library-relative
// path. Without a base URL the result degrades to a root-relative path.
func JoinURL(base, rel string) string {
	escaped := (&url.URL{Path: filepath.ToSlash(rel)}).EscapedPath()
	if base == "" {
		return "/" + strings.TrimPrefix(escaped, "/")
	}
	return base + "/" + strings.TrimPrefix(escaped, "/")
}

func buildMediaFile(path, libraryDir string) models.MediaFile {
	rel, err := filepath.Rel(libraryDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return models.MediaFile{
		Path:            path,
		RelPath:         filepath.ToSlash(rel),
		MIMEType:        discover.MIMEForPath(path),
		Title:           probeTitle(path),
		DurationSeconds: probeDuration(path),
	}
}

// resolveDescription walks the fallback chain: explicit value, settings
// "description", legacy "about" alias, then the first info document under
// the book directory that decodes. A candidate that cannot be read or
// decoded is skipped with a diagnostic.
func resolveDescription(bookDir, override string, merged *settings.Settings, logger *log.Logger) string {
	if value := first(override, settings.Value(merged.Description), settings.Value(merged.About)); value != "" {
		return value
	}

	candidates, err := discoverSorted(bookDir, discover.InfoMasks(), logger)
	if err != nil {
		logger.Printf("discover info files: %v", err)
		return ""
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Printf("description candidate %s: %v", path, err)
			continue
		}
		text, err := textenc.Decode(data)
		if err != nil {
			logger.Printf("description candidate %s: %v", path, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}

// resolveImage picks the override or the first discovered artwork file and
// makes it absolute against the base URL unless it already carries a URL
// scheme.
func resolveImage(bookDir, libraryDir, base, override string, logger *log.Logger) string {
	value := override
	if value == "" {
		images, err := discoverSorted(bookDir, discover.ImageMasks(), logger)
		if err != nil {
			logger.Printf("discover images: %v", err)
			return ""
		}
		if len(images) == 0 {
			return ""
		}
		rel, err := filepath.Rel(libraryDir, images[0])
		if err != nil {
			rel = filepath.Base(images[0])
		}
		value = filepath.ToSlash(rel)
	}

	if isAbsoluteURL(value) {
		return value
	}
	return JoinURL(base, value)
}

// discoverSorted globs under root and orders the hits by the natural key
// of their root-relative path, so multi-candidate choices are
// deterministic regardless of filesystem enumeration order.
func discoverSorted(root string, masks []string, logger *log.Logger) ([]string, error) {
	paths, err := discover.Glob(root, masks, true, false)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]natsort.Key, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = filepath.Base(p)
		}
		key, err := natsort.PathKey(filepath.ToSlash(rel))
		if err != nil {
			logger.Printf("order key for %s: %v", p, err)
			key = natsort.Key{natsort.SegmentKey(rel)}
		}
		keys[p] = key
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return natsort.Compare(keys[paths[i]], keys[paths[j]]) < 0
	})
	return paths, nil
}

// persistLevels derives the settings documents to write back: url and lang
// at the library level, title/author/description/link at the book level.
// Inferred values (directory-name titles, info-file descriptions) are not
// persisted, only explicit or previously persisted ones. With NoSettings
// set nothing is read from disk; the levels carry overrides only.
func persistLevels(opts Options, merged *settings.Settings, libraryDir, bookDir, baseURL string) (*settings.Settings, *settings.Settings) {
	var library, book *settings.Settings
	if !opts.NoSettings {
		library = settings.Load(libraryDir)
		book = settings.Load(bookDir)
	}
	if library == nil {
		library = &settings.Settings{}
	}
	if baseURL != "" {
		library.URL = settings.Opt(baseURL)
	}
	if lang := first(opts.Lang, settings.Value(merged.Lang)); lang != "" {
		library.Lang = settings.Opt(lang)
	}

	if book == nil {
		book = &settings.Settings{}
	}
	if title := first(opts.Title, settings.Value(merged.Title)); title != "" {
		book.Title = settings.Opt(title)
	}
	if author := first(opts.Author, settings.Value(merged.Author)); author != "" {
		book.Author = settings.Opt(author)
	}
	if description := first(opts.Description, settings.Value(merged.Description)); description != "" {
		book.Description = settings.Opt(description)
	}
	if link := first(opts.Link, settings.Value(merged.Link)); link != "" {
		book.Link = settings.Opt(link)
	}

	return library, book
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isAbsoluteURL(value string) bool {
	u, err := url.Parse(value)
	return err == nil && u.Scheme != "" && u.Host != ""
}
