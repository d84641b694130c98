package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"abooker/internal/feed"
	"abooker/internal/resolve"
)

// runBuild executes one full pipeline pass: resolve metadata, write the
// feed document, persist settings, and report the public feed URL.
func runBuild(dir string, opts *buildOptions) error {
	logger := buildLogger(opts)

	result, err := resolve.Resolve(resolve.Options{
		BookDir:     dir,
		BaseURL:     opts.url,
		Title:       opts.title,
		Author:      opts.author,
		Description: opts.description,
		Image:       opts.image,
		Lang:        opts.lang,
		Link:        opts.link,
		NoSettings:  opts.noSettings,
	}, logger)
	if err != nil {
		return err
	}

	if opts.rssName != "" {
		outPath := filepath.Join(result.BookDir, opts.rssName)
		if err := feed.WriteFile(result.Feed, outPath); err != nil {
			return fmt.Errorf("write feed: %w", err)
		}

		rel, err := filepath.Rel(result.LibraryDir, outPath)
		if err != nil {
			rel = opts.rssName
		}
		fmt.Println(resolve.JoinURL(result.BaseURL, filepath.ToSlash(rel)))
	}

	if !opts.noSettings && !opts.noSave {
		result.SaveSettings(logger)
	}

	return nil
}

func buildLogger(opts *buildOptions) *log.Logger {
	if opts.verbose {
		return log.New(os.Stderr, "abooker ", log.LstdFlags|log.Lmsgprefix)
	}
	return log.New(io.Discard, "", 0)
}
