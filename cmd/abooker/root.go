// Package main hosts the abooker CLI: a batch tool that builds a
// podcast-style RSS feed from a directory tree of audio files, deriving
// metadata from the directory structure and cascading .abooker settings.
package main

import (
	"github.com/spf13/cobra"
)

type buildOptions struct {
	url         string
	rssName     string
	title       string
	author      string
	description string
	image       string
	lang        string
	link        string
	noSettings  bool
	noSave      bool
	verbose     bool
}

func newRootCommand() *cobra.Command {
	opts := &buildOptions{}

	rootCmd := &cobra.Command{
		Use:           "abooker [dir]",
		Short:         "Build a podcast RSS feed from a directory of audio files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(targetDir(args), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.url, "url", "u", "", "Base URL of the library root")
	flags.StringVar(&opts.rssName, "rss", "playlist.rss", "Output feed filename (empty to skip writing)")
	flags.StringVar(&opts.title, "title", "", "Feed title override")
	flags.StringVar(&opts.author, "author", "", "Feed author override")
	flags.StringVar(&opts.description, "description", "", "Feed description override")
	flags.StringVar(&opts.image, "image", "", "Feed artwork override (path or absolute URL)")
	flags.StringVar(&opts.lang, "lang", "", "Feed language override")
	flags.StringVar(&opts.link, "link", "", "Feed link override")
	flags.BoolVar(&opts.noSettings, "no-settings", false, "Skip reading and writing .abooker settings files")
	flags.BoolVar(&opts.noSave, "no-save", false, "Read settings but do not persist them")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress for every processed file")

	rootCmd.AddCommand(newWatchCommand(opts))

	return rootCmd
}

func targetDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
