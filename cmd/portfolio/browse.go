package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/logging/console"
	"github.com/goliatone/go-portfolio/internal/tui"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the gallery in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			var extra []di.Option
			// Console logs on stdout would corrupt the alternate screen.
			if cfg.Logging.File == "" {
				extra = append(extra, di.WithLoggerProvider(console.NewProvider(console.Options{Writer: io.Discard})))
			}
			module, _, err := opts.module(extra...)
			if err != nil {
				return err
			}
			defer module.Close()

			ctx := cmd.Context()
			container := module.Container()
			source, name := container.Source()
			modelOpts := []tui.Option{
				tui.WithContext(ctx),
				tui.WithSourceName(name),
				tui.WithLogger(logging.TUILogger(container.LoggerProvider())),
				tui.WithImageFetcher(container.Warmer()),
				tui.WithViewOptions(container.ViewOptions()...),
			}

			if watch || cfg.Source.Watch {
				watcher, err := module.NewWatcher()
				if err != nil {
					return err
				}
				defer watcher.Close()
				refresh := make(chan struct{}, 1)
				if err := watcher.Start(ctx, func() {
					select {
					case refresh <- struct{}{}:
					default:
					}
				}); err != nil {
					return err
				}
				modelOpts = append(modelOpts, tui.WithRefresh(refresh))
			}

			return tui.Run(ctx, tui.New(source, modelOpts...))
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when markdown files change")
	return cmd
}
