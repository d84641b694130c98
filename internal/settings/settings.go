// Package settings handles the cascading .abooker configuration files.
// Settings are an optional overlay: a missing, unreadable, or malformed
// file means "no overrides at this level", never an error.
package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Filename is the settings document looked up in each directory level.
const Filename = ".abooker"

// Settings is one level of the cascade. Library-level files (parent of the
// book directory) typically carry url and lang; book-level files carry
// title, author, and description. A nil field means "not set here".
type Settings struct {
	URL         *string `yaml:"url,omitempty"`
	Lang        *string `yaml:"lang,omitempty"`
	Title       *string `yaml:"title,omitempty"`
	Author      *string `yaml:"author,omitempty"`
	Description *string `yaml:"description,omitempty"`
	About       *string `yaml:"about,omitempty"`
	Link        *string `yaml:"link,omitempty"`
}

// Opt wraps a non-empty string for an optional settings field.
func Opt(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// Value unwraps an optional field, yielding "" when it is absent.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}

// Load reads the settings document in dir. Any failure yields nil.
func Load(dir string) *Settings {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		return nil
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil
	}
	return &s
}

// Save writes the settings document into dir as block-style YAML with
// two-space indentation. The error is returned for diagnostics only;
// callers treat a failed save as losing a convenience cache, not as a
// reason to abort.
func Save(dir string, s *Settings) error {
	path := filepath.Join(dir, Filename)

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Merge layers levels ordered outermost first: a later level's present
// fields overwrite the accumulated result, absent fields never do. Nil
// levels are skipped.
func Merge(levels ...*Settings) *Settings {
	merged := &Settings{}
	for _, level := range levels {
		if level == nil {
			continue
		}
		overlay(&merged.URL, level.URL)
		overlay(&merged.Lang, level.Lang)
		overlay(&merged.Title, level.Title)
		overlay(&merged.Author, level.Author)
		overlay(&merged.Description, level.Description)
		overlay(&merged.About, level.About)
		overlay(&merged.Link, level.Link)
	}
	return merged
}

func overlay(dst **string, src *string) {
	if src != nil {
		value := *src
		*dst = &value
	}
}

// Cascade collects the settings documents from start up through its
// ancestors to root inclusive, returned outermost (most distant ancestor)
// first so that merging makes the nearest directory win. The walk keeps a
// visited set of directory identities so cyclic mounts terminate, and
// stops at root or at the filesystem top.
func Cascade(start, root string) []*Settings {
	rootID := dirIdentity(root)
	visited := make(map[string]struct{})

	var chain []string // innermost first
	dir := start
	for {
		id := dirIdentity(dir)
		if _, seen := visited[id]; seen {
			break
		}
		visited[id] = struct{}{}
		chain = append(chain, dir)

		if id == rootID {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	levels := make([]*Settings, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if s := Load(chain[i]); s != nil {
			levels = append(levels, s)
		}
	}
	return levels
}

// dirIdentity resolves a directory to a stable identity for loop
// detection, tolerating unresolvable paths.
func dirIdentity(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Clean(dir)
}
