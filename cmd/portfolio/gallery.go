package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gallerycmd "github.com/goliatone/go-portfolio/internal/commands/gallery"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the gallery filters with their item counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, _, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			view := module.NewView()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, filter := range view.Categories() {
				if err := view.SelectFilter(filter); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%d\n", filter, view.Snapshot().FilteredCount)
			}
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		drafts bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a markdown directory into the item database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, cfg, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			dir := cfg.Source.MarkdownDir
			if len(args) == 1 {
				dir = args[0]
			}
			var report gallerycmd.ImportReport
			handler, err := module.ImportHandler(cmd.Context(), func(r gallerycmd.ImportReport) { report = r })
			if err != nil {
				return err
			}
			if err := handler.Execute(cmd.Context(), gallerycmd.ImportItemsCommand{
				Dir:           dir,
				IncludeDrafts: drafts,
				DryRun:        dryRun,
			}); err != nil {
				return fmt.Errorf("execute import command: %w", err)
			}

			verb := "imported"
			if report.DryRun {
				verb = "would import"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d items from %s: %s\n", verb, len(report.Slugs), report.Dir, strings.Join(report.Slugs, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include documents marked as drafts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the documents without writing them")
	return cmd
}

func newWarmCmd(opts *rootOptions) *cobra.Command {
	var msg gallerycmd.WarmGalleryCommand
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch the lightbox renditions of the gallery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, _, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			var report gallerycmd.WarmReport
			handler := module.WarmHandler(func(r gallerycmd.WarmReport) { report = r })
			if err := handler.Execute(cmd.Context(), msg); err != nil {
				return fmt.Errorf("execute warm command: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requested, %d warmed, %d failed, %d unavailable\n",
				report.Filter, report.Requested, report.Warmed, report.Failed, report.Unavailable)
			return nil
		},
	}
	cmd.Flags().StringVar(&msg.Filter, "filter", "", "Category to warm (defaults to All)")
	cmd.Flags().IntVar(&msg.Page, "page", 0, "Page to warm; 0 warms every page")
	cmd.Flags().IntVar(&msg.Width, "width", 0, "Rendition width (defaults to gallery.lightbox_width)")
	return cmd
}
