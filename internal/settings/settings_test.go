package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()

	original := &Settings{
		URL:    Opt("http://host/lib"),
		Lang:   Opt("en"),
		Title:  Opt("Wonderland"),
		Author: Opt("Lewis Carroll"),
	}
	if err := Save(dir, original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Load(dir)
	if loaded == nil {
		t.Fatalf("expected settings to load")
	}

	if Value(loaded.URL) != "http://host/lib" ||
		Value(loaded.Lang) != "en" ||
		Value(loaded.Title) != "Wonderland" ||
		Value(loaded.Author) != "Lewis Carroll" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if loaded.Description != nil || loaded.About != nil || loaded.Link != nil {
		t.Fatalf("expected absent fields to stay absent: %+v", loaded)
	}
}

func TestLoadIsSoftOnMissingAndMalformedFiles(t *testing.T) {
	if Load(t.TempDir()) != nil {
		t.Fatalf("expected nil for missing settings file")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(":\n\t- not yaml"), 0o644); err != nil {
		t.Fatalf("write malformed file: %v", err)
	}
	if Load(dir) != nil {
		t.Fatalf("expected nil for malformed settings file")
	}
}

func TestMergeNearestLevelWins(t *testing.T) {
	outer := &Settings{URL: Opt("http://outer"), Lang: Opt("en"), Title: Opt("Outer")}
	inner := &Settings{Title: Opt("Inner"), Author: Opt("Someone")}

	merged := Merge(outer, nil, inner)

	if Value(merged.Title) != "Inner" {
		t.Fatalf("expected inner title to win, got %q", Value(merged.Title))
	}
	if Value(merged.URL) != "http://outer" || Value(merged.Lang) != "en" {
		t.Fatalf("expected outer values to survive: %+v", merged)
	}
	if Value(merged.Author) != "Someone" {
		t.Fatalf("expected inner-only field to be present")
	}
}

func TestMergeAbsentKeysNeverOverwrite(t *testing.T) {
	outer := &Settings{Description: Opt("kept")}
	inner := &Settings{}

	merged := Merge(outer, inner)
	if Value(merged.Description) != "kept" {
		t.Fatalf("expected absent inner field to keep outer value")
	}
}

func TestCascadeOrdersOutermostFirst(t *testing.T) {
	library := t.TempDir()
	book := filepath.Join(library, "Alice")
	if err := os.MkdirAll(book, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := Save(library, &Settings{URL: Opt("http://lib"), Title: Opt("library title")}); err != nil {
		t.Fatalf("save library: %v", err)
	}
	if err := Save(book, &Settings{Title: Opt("book title")}); err != nil {
		t.Fatalf("save book: %v", err)
	}

	levels := Cascade(book, library)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}

	merged := Merge(levels...)
	if Value(merged.Title) != "book title" {
		t.Fatalf("expected nearest level to win, got %q", Value(merged.Title))
	}
	if Value(merged.URL) != "http://lib" {
		t.Fatalf("expected library url to survive, got %q", Value(merged.URL))
	}
}

func TestCascadeStopsAtRoot(t *testing.T) {
	top := t.TempDir()
	library := filepath.Join(top, "lib")
	book := filepath.Join(library, "Alice")
	if err := os.MkdirAll(book, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// A level above the configured root must not leak into the cascade.
	if err := Save(top, &Settings{Title: Opt("above root")}); err != nil {
		t.Fatalf("save top: %v", err)
	}
	if err := Save(book, &Settings{Author: Opt("book author")}); err != nil {
		t.Fatalf("save book: %v", err)
	}

	merged := Merge(Cascade(book, library)...)
	if merged.Title != nil {
		t.Fatalf("expected cascade to stop at root, got title %q", Value(merged.Title))
	}
	if Value(merged.Author) != "book author" {
		t.Fatalf("expected book level to load")
	}
}

func TestSaveOmitsAbsentFields(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &Settings{URL: Opt("http://host")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		t.Fatalf("read settings file: %v", err)
	}

	content := string(data)
	if content != "url: http://host\n" {
		t.Fatalf("expected a single url line, got %q", content)
	}
}
