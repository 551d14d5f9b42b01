package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-portfolio"
	"github.com/goliatone/go-portfolio/internal/di"
)

type rootOptions struct {
	configPath string
	source     string
	dir        string
	feedURL    string
	pageSize   int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Filterable image gallery with a keyboard driven lightbox",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&opts.source, "source", "", "Item source: memory, feed, markdown or database")
	flags.StringVar(&opts.dir, "dir", "", "Markdown directory for the markdown source")
	flags.StringVar(&opts.feedURL, "feed", "", "Feed URL for the feed source")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Items per gallery page")

	cmd.AddCommand(
		newServeCmd(opts),
		newBrowseCmd(opts),
		newCategoriesCmd(opts),
		newImportCmd(opts),
		newWarmCmd(opts),
	)
	return cmd
}

// config loads the config file and applies the flag overrides.
func (o *rootOptions) config() (portfolio.Config, error) {
	cfg, err := portfolio.LoadConfig(o.configPath)
	if err != nil {
		return portfolio.Config{}, err
	}
	if o.source != "" {
		cfg.Source.Kind = o.source
	}
	if o.dir != "" {
		cfg.Source.MarkdownDir = o.dir
	}
	if o.feedURL != "" {
		cfg.Source.FeedURL = o.feedURL
	}
	if o.pageSize > 0 {
		cfg.Gallery.PageSize = o.pageSize
	}
	return cfg, cfg.Validate()
}

func (o *rootOptions) module(extra ...di.Option) (*portfolio.Module, portfolio.Config, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, cfg, err
	}
	module, err := portfolio.New(cfg, extra...)
	if err != nil {
		return nil, cfg, fmt.Errorf("initialise portfolio: %w", err)
	}
	return module, cfg, nil
}
