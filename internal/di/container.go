// Package di wires the portfolio runtime from a runtimeconfig.Config: the
// logger provider, the item source, the media pipeline and the gallery view
// options shared by the HTTP API, the terminal browser and the commands.
package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/items"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/logging/console"
	"github.com/goliatone/go-portfolio/internal/logging/gologger"
	"github.com/goliatone/go-portfolio/internal/media"
	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Container holds the configured portfolio services.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	closers        []func() error

	source     gallery.ItemSource
	sourceName string
	markdown   *items.MarkdownSource

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	repository    *items.BunRepository

	httpClient *http.Client
	resolver   *media.Resolver
	warmer     *media.Warmer
	renditions *media.RenditionHandler
	index      gallery.CategoryIndex
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithItemSource replaces the configured source. name labels fetch errors.
func WithItemSource(source gallery.ItemSource, name string) Option {
	return func(c *Container) {
		if source != nil {
			c.source = source
			c.sourceName = name
		}
	}
}

// WithBunDB supplies the database used by the database source and imports.
// The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache built from Storage.CacheTTL.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithHTTPClient sets the client used by the feed source and the warmer.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewContainer validates cfg and wires every service it describes.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config:     cfg,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLogging,
		c.configureCategoryIndex,
		c.configureMedia,
		c.configureCacheDefaults,
		c.configureSource,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.logger("portfolio").Info("container.configured",
		"source", c.sourceName,
		"page_size", cfg.Gallery.PageSize,
		"category_policy", cfg.Gallery.CategoryPolicy,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		writer, closer, err := console.Writer(console.FileOptions{
			Path:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("di: open log file: %w", err)
		}
		c.closers = append(c.closers, closer)
		opts := console.Options{Writer: writer}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCategoryIndex() error {
	cfg := c.Config.Gallery
	if strings.EqualFold(strings.TrimSpace(cfg.CategoryPolicy), runtimeconfig.CategoryPolicyFixed) {
		c.index = gallery.FixedIndex{Labels: cfg.Categories}
		return nil
	}
	c.index = gallery.DynamicIndex{Order: gallery.CategoryOrder(strings.ToLower(strings.TrimSpace(cfg.CategoryOrder)))}
	return nil
}

func (c *Container) configureMedia() error {
	cfg := c.Config
	format := interfaces.ImageFormat(strings.ToLower(strings.TrimSpace(cfg.Gallery.ImageFormat)))
	resolver, err := media.NewResolver(media.ResolverOptions{
		BaseURL:       cfg.Media.BaseURL,
		AssetPrefix:   cfg.HTTP.AssetPrefix,
		DefaultWidth:  cfg.Gallery.LightboxWidth,
		DefaultFormat: format,
	})
	if err != nil {
		return fmt.Errorf("di: media resolver: %w", err)
	}
	c.resolver = resolver

	mediaLogger := logging.MediaLogger(c.loggerProvider)
	c.warmer = media.NewWarmer(
		media.WithHTTPClient(c.httpClient),
		media.WithConcurrency(cfg.Media.PreloadConcurrency),
		media.WithFetchTimeout(cfg.Media.PreloadTimeout),
		media.WithWarmerLogger(mediaLogger),
	)
	c.renditions = media.NewRenditionHandler(cfg.Media.AssetDir,
		media.WithDefaultFormat(format),
		media.WithMaxAge(cfg.Media.CacheMaxAge),
		media.WithRenditionLogger(mediaLogger),
	)
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if c.cacheService != nil && c.keySerializer != nil {
		return nil
	}
	ttl := c.Config.Storage.CacheTTL
	if ttl <= 0 {
		return nil
	}
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = ttl
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return fmt.Errorf("di: repository cache: %w", err)
	}
	c.cacheService = service
	c.keySerializer = repocache.NewDefaultKeySerializer()
	return nil
}

func (c *Container) configureSource() error {
	if c.source != nil {
		return nil
	}
	cfg := c.Config.Source
	itemsLogger := logging.ItemsLogger(c.loggerProvider)
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	switch kind {
	case runtimeconfig.SourceFeed:
		c.source = items.NewFeedSource(items.FeedOptions{
			URL:     cfg.FeedURL,
			Timeout: cfg.FeedTimeout,
			Client:  c.httpClient,
			Headers: cfg.FeedHeaders,
			Logger:  itemsLogger,
		})
	case runtimeconfig.SourceMarkdown:
		c.markdown = items.NewMarkdownSource(items.MarkdownOptions{
			Dir:           cfg.MarkdownDir,
			IncludeDrafts: cfg.IncludeDrafts,
			Logger:        itemsLogger,
		})
		c.source = c.markdown
	case runtimeconfig.SourceDatabase:
		repo, err := c.Repository(context.Background())
		if err != nil {
			return err
		}
		c.source = repo
	default:
		kind = runtimeconfig.SourceMemory
		c.source = items.NewMemorySource(nil)
	}
	c.sourceName = kind
	return nil
}

// Repository returns the item repository, opening and migrating the
// configured database on first use.
func (c *Container) Repository(ctx context.Context) (*items.BunRepository, error) {
	if c.repository != nil {
		return c.repository, nil
	}
	if c.bunDB == nil {
		db, err := items.OpenDB(c.Config.Storage.Driver, c.Config.Storage.DSN)
		if err != nil {
			return nil, err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := items.Migrate(ctx, c.bunDB); err != nil {
		return nil, err
	}
	c.repository = items.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.logger("items").Debug("repository.ready",
		"driver", c.Config.Storage.Driver,
		"cached", c.cacheService != nil,
	)
	return c.repository, nil
}

// NewWatcher returns a markdown watcher for the configured directory. It
// fails unless the container serves the markdown source.
func (c *Container) NewWatcher() (*items.Watcher, error) {
	if c.markdown == nil {
		return nil, runtimeconfig.ErrWatchRequiresMarkdown
	}
	return items.NewWatcher(items.WatcherOptions{
		Dir:    c.markdown.Dir(),
		Logger: logging.ItemsLogger(c.loggerProvider),
	})
}

// ViewOptions returns the gallery options implied by the configuration.
func (c *Container) ViewOptions() []gallery.ViewOption {
	return []gallery.ViewOption{
		gallery.WithPageSize(c.Config.Gallery.PageSize),
		gallery.WithCategoryIndex(c.index),
		gallery.WithSourceName(c.sourceName),
		gallery.WithViewLogger(logging.GalleryLogger(c.loggerProvider)),
		gallery.WithLightboxOptions(
			gallery.WithResolver(c.resolver),
			gallery.WithPreloader(c.warmer),
			gallery.WithImageOptions(c.LightboxImageOptions()),
			gallery.WithLightboxLogger(logging.LightboxLogger(c.loggerProvider)),
		),
	}
}

// NewView builds a gallery view over the configured source.
func (c *Container) NewView(extra ...gallery.ViewOption) *gallery.View {
	return gallery.NewView(c.source, append(c.ViewOptions(), extra...)...)
}

// LightboxImageOptions is the rendition requested for full size images.
func (c *Container) LightboxImageOptions() interfaces.ImageOptions {
	return interfaces.ImageOptions{Width: c.Config.Gallery.LightboxWidth, Format: c.imageFormat()}
}

// ThumbnailImageOptions is the rendition requested for grid cells.
func (c *Container) ThumbnailImageOptions() interfaces.ImageOptions {
	return interfaces.ImageOptions{Width: c.Config.Gallery.ThumbnailWidth, Format: c.imageFormat()}
}

func (c *Container) imageFormat() interfaces.ImageFormat {
	return interfaces.ImageFormat(strings.ToLower(strings.TrimSpace(c.Config.Gallery.ImageFormat)))
}

// Close releases the database opened by the container and the log file.
func (c *Container) Close() error {
	var firstErr error
	if c.warmer != nil {
		c.warmer.Wait()
	}
	if c.ownsDB && c.bunDB != nil {
		if err := c.bunDB.Close(); err != nil {
			firstErr = err
		}
		c.bunDB = nil
		c.repository = nil
	}
	for _, closer := range c.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

func (c *Container) logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// LoggerProvider returns the configured provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Source returns the item source and its name.
func (c *Container) Source() (gallery.ItemSource, string) { return c.source, c.sourceName }

// CategoryIndex returns the configured category index.
func (c *Container) CategoryIndex() gallery.CategoryIndex { return c.index }

// Resolver returns the asset URL resolver.
func (c *Container) Resolver() *media.Resolver { return c.resolver }

// Warmer returns the image preloader.
func (c *Container) Warmer() *media.Warmer { return c.warmer }

// Renditions returns the asset rendition handler.
func (c *Container) Renditions() *media.RenditionHandler { return c.renditions }

// Markdown returns the markdown source, or nil when another source is used.
func (c *Container) Markdown() *items.MarkdownSource { return c.markdown }
