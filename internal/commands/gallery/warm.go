package gallerycmd

import (
	"context"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/media"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const warmGalleryMessageType = "portfolio.gallery.warm"

const defaultWarmParallelism = 4

// WarmGalleryCommand fetches the lightbox renditions of one gallery page so
// the first visitor hits a warm asset cache. Page 0 warms every page.
type WarmGalleryCommand struct {
	Filter string `json:"filter,omitempty"`
	Page   int    `json:"page,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Type implements command.Message.
func (WarmGalleryCommand) Type() string { return warmGalleryMessageType }

// Validate implements command.Message.
func (m WarmGalleryCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Page, validation.Min(0)),
		validation.Field(&m.Width, validation.Min(0), validation.Max(media.MaxWidth)),
	)
}

// WarmReport summarises a warm run.
type WarmReport struct {
	Filter      string
	Pages       []int
	Requested   int
	Warmed      int
	Unavailable int
	Failed      int
}

// URLWarmer fetches a URL synchronously.
type URLWarmer interface {
	Warm(ctx context.Context, url string) error
}

// WarmDeps wires the warm handler.
type WarmDeps struct {
	Source      gallery.ItemSource
	Resolver    interfaces.ImageResolver
	Warmer      URLWarmer
	PageSize    int
	Index       gallery.CategoryIndex
	Format      interfaces.ImageFormat
	Parallelism int
	Logger      interfaces.Logger
	// Report receives the summary of every successful run.
	Report func(WarmReport)
	// Cron schedules a full warm of the All filter when its expression is set.
	Cron command.HandlerConfig
}

// WarmGalleryHandler executes WarmGalleryCommand.
type WarmGalleryHandler struct {
	inner *commands.Handler[WarmGalleryCommand]
	cron  command.HandlerConfig
}

// NewWarmGalleryHandler builds the handler.
func NewWarmGalleryHandler(deps WarmDeps, opts ...commands.HandlerOption[WarmGalleryCommand]) *WarmGalleryHandler {
	logger := logging.EnsureLogger(deps.Logger)
	parallelism := deps.Parallelism
	if parallelism <= 0 {
		parallelism = defaultWarmParallelism
	}

	exec := func(ctx context.Context, msg WarmGalleryCommand) error {
		if deps.Source == nil || deps.Resolver == nil || deps.Warmer == nil {
			return ErrWarmDependenciesMissing
		}
		view := gallery.NewView(deps.Source,
			gallery.WithPageSize(deps.PageSize),
			gallery.WithCategoryIndex(deps.Index),
			gallery.WithViewLogger(logger),
		)
		if err := view.Load(ctx); err != nil {
			return err
		}
		if filter := strings.TrimSpace(msg.Filter); filter != "" {
			if err := view.SelectFilter(filter); err != nil {
				return err
			}
		}

		report := WarmReport{Filter: view.ActiveFilter()}
		var targets []gallery.Item
		if msg.Page > 0 {
			page := view.GoToPage(msg.Page)
			report.Pages = []int{page}
			targets = view.Page().Items
		} else {
			total := view.Page().Total
			for page := 1; page <= total; page++ {
				report.Pages = append(report.Pages, page)
			}
			targets = view.Filtered()
		}

		opts := interfaces.ImageOptions{Width: msg.Width, Format: deps.Format}
		var warmed, failed atomic.Int64
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(parallelism)
		for _, item := range targets {
			report.Requested++
			url, err := deps.Resolver.Resolve(item.Image, opts)
			if err != nil {
				report.Unavailable++
				logging.WithGalleryContext(logger, report.Filter, "").Debug("gallery.warm.unavailable", "item", item.ID)
				continue
			}
			group.Go(func() error {
				if err := deps.Warmer.Warm(groupCtx, url); err != nil {
					failed.Add(1)
					logger.Warn("gallery.warm.failed", "url", url, "error", err)
					return nil
				}
				warmed.Add(1)
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Warmed = int(warmed.Load())
		report.Failed = int(failed.Load())

		logging.WithFields(logger, map[string]any{
			"filter":      report.Filter,
			"pages":       len(report.Pages),
			"warmed":      report.Warmed,
			"failed":      report.Failed,
			"unavailable": report.Unavailable,
		}).Info("gallery.warm.completed")
		if deps.Report != nil {
			deps.Report(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[WarmGalleryCommand]{
		commands.WithLogger[WarmGalleryCommand](logger),
		commands.WithOperation[WarmGalleryCommand]("gallery.warm"),
	}
	return &WarmGalleryHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
		cron:  deps.Cron,
	}
}

// Execute satisfies command.Commander[WarmGalleryCommand].
func (h *WarmGalleryHandler) Execute(ctx context.Context, msg WarmGalleryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand by warming every page of the
// All filter.
func (h *WarmGalleryHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), WarmGalleryCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *WarmGalleryHandler) CronOptions() command.HandlerConfig {
	return h.cron
}

// Scheduled reports whether a cron expression was configured.
func (h *WarmGalleryHandler) Scheduled() bool {
	return strings.TrimSpace(h.cron.Expression) != ""
}
