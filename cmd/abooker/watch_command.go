package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"abooker/internal/settings"
	"abooker/internal/watch"
)

func newWatchCommand(opts *buildOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rebuild the feed whenever the book directory changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := targetDir(args)

			if err := runBuild(dir, opts); err != nil {
				return err
			}

			// Rebuild failures in watch mode are reported even without
			// verbose; a silent stale feed would be worse.
			logger := log.New(os.Stderr, "abooker ", log.LstdFlags|log.Lmsgprefix)

			watcher, err := watch.New(
				dir,
				[]string{opts.rssName, settings.Filename},
				debounce,
				func() error { return runBuild(dir, opts) },
				logger,
			)
			if err != nil {
				return err
			}
			defer func() {
				if err := watcher.Close(); err != nil {
					logger.Printf("error closing watcher: %v", err)
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Printf("watching %s", dir)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Delay before rebuilding after a change")

	return cmd
}
