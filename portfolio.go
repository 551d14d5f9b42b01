// Package portfolio is a filterable, paginated image gallery with a keyboard
// driven lightbox. Items come from an in-memory list, a JSON feed, a markdown
// directory or a SQL database; the Module wires the configured source to the
// gallery view, the media pipeline and the JSON API.
package portfolio

import (
	"context"
	"net/http"

	gallerycmd "github.com/goliatone/go-portfolio/internal/commands/gallery"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/gallery"
	porthttp "github.com/goliatone/go-portfolio/internal/http"
	"github.com/goliatone/go-portfolio/internal/items"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/media"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Item is a single portfolio entry.
type Item = gallery.Item

// ItemSource supplies the item list.
type ItemSource = gallery.ItemSource

// ItemSourceFunc adapts a function to ItemSource.
type ItemSourceFunc = gallery.ItemSourceFunc

// View is the gallery state machine: filter, page and lightbox.
type View = gallery.View

// ViewOption configures a View.
type ViewOption = gallery.ViewOption

// RenderState is a snapshot of a View.
type RenderState = gallery.RenderState

// LightboxState is a snapshot of the lightbox.
type LightboxState = gallery.LightboxState

// CategoryIndex derives the selectable filters.
type CategoryIndex = gallery.CategoryIndex

// FetchError reports a failed item retrieval.
type FetchError = gallery.FetchError

// ImageRef points at an asset of the media pipeline.
type ImageRef = interfaces.ImageRef

// ImageOptions selects an image rendition.
type ImageOptions = interfaces.ImageOptions

// Record is the stored form of an item.
type Record = items.Record

// AllFilter is the pseudo category that selects every item.
const AllFilter = gallery.AllFilter

// Lightbox key names.
const (
	KeyEscape     = gallery.KeyEscape
	KeyArrowLeft  = gallery.KeyArrowLeft
	KeyArrowRight = gallery.KeyArrowRight
)

var (
	ErrUnknownFilter     = gallery.ErrUnknownFilter
	ErrSourceUnavailable = gallery.ErrSourceUnavailable
	ErrImageUnavailable  = media.ErrImageUnavailable
)

// Module represents the top level portfolio runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a portfolio module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Source returns the configured item source.
func (m *Module) Source() ItemSource {
	source, _ := m.container.Source()
	return source
}

// NewView builds a gallery view over the configured source. Call Load on
// the result before interacting with it.
func (m *Module) NewView(opts ...ViewOption) *View {
	return m.container.NewView(opts...)
}

// Resolver returns the asset URL resolver.
func (m *Module) Resolver() interfaces.ImageResolver {
	return m.container.Resolver()
}

// Preloader returns the image preloader.
func (m *Module) Preloader() *media.Warmer {
	return m.container.Warmer()
}

// Renditions returns the handler serving resized images from the asset dir.
func (m *Module) Renditions() *media.RenditionHandler {
	return m.container.Renditions()
}

// Repository opens the item database.
func (m *Module) Repository(ctx context.Context) (*items.BunRepository, error) {
	return m.container.Repository(ctx)
}

// NewWatcher watches the markdown directory for changes.
func (m *Module) NewWatcher() (*items.Watcher, error) {
	return m.container.NewWatcher()
}

// GalleryAPI builds the JSON API with the renditions mounted under the
// configured asset prefix.
func (m *Module) GalleryAPI() *porthttp.GalleryAPI {
	cfg := m.container.Config
	source, name := m.container.Source()
	return porthttp.NewGalleryAPI(source,
		porthttp.WithBasePath(cfg.HTTP.APIPrefix),
		porthttp.WithSourceName(name),
		porthttp.WithViewOptions(m.container.ViewOptions()...),
		porthttp.WithThumbnails(m.container.Resolver(), m.container.ThumbnailImageOptions()),
		porthttp.WithAssets(cfg.HTTP.AssetPrefix, m.container.Renditions()),
		porthttp.WithLogger(logging.HTTPLogger(m.container.LoggerProvider())),
	)
}

// HTTPHandler returns a mux serving the gallery API and the renditions.
func (m *Module) HTTPHandler() http.Handler {
	return m.GalleryAPI().Handler()
}

// WarmHandler builds the handler that prefetches lightbox renditions.
func (m *Module) WarmHandler(report func(gallerycmd.WarmReport)) *gallerycmd.WarmGalleryHandler {
	cfg := m.container.Config
	source, _ := m.container.Source()
	return gallerycmd.NewWarmGalleryHandler(gallerycmd.WarmDeps{
		Source:      source,
		Resolver:    m.container.Resolver(),
		Warmer:      m.container.Warmer(),
		PageSize:    cfg.Gallery.PageSize,
		Index:       m.container.CategoryIndex(),
		Format:      m.container.LightboxImageOptions().Format,
		Parallelism: cfg.Media.PreloadConcurrency,
		Logger:      logging.CommandLogger(m.container.LoggerProvider()),
		Report:      report,
	})
}

// ImportHandler builds the handler that loads a markdown directory into the
// item database.
func (m *Module) ImportHandler(ctx context.Context, report func(gallerycmd.ImportReport)) (*gallerycmd.ImportItemsHandler, error) {
	repo, err := m.container.Repository(ctx)
	if err != nil {
		return nil, err
	}
	return gallerycmd.NewImportItemsHandler(gallerycmd.ImportDeps{
		Store:  repo,
		Logger: logging.CommandLogger(m.container.LoggerProvider()),
		Report: report,
	}), nil
}

// Close releases the resources held by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
