// Package media exposes the portfolio asset pipeline: the deterministic URL
// resolver, the image preloader and the rendition handler.
package media

import (
	"io/fs"
	"net/http"
	"time"

	internalmedia "github.com/goliatone/go-portfolio/internal/media"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Re-exported errors from the internal media package.
var (
	ErrImageUnavailable = internalmedia.ErrImageUnavailable
	ErrRouteUnavailable = internalmedia.ErrRouteUnavailable
)

// Re-exported types from the internal media package.
type (
	Resolver         = internalmedia.Resolver
	ResolverOptions  = internalmedia.ResolverOptions
	Warmer           = internalmedia.Warmer
	WarmerOption     = internalmedia.WarmerOption
	RenditionHandler = internalmedia.RenditionHandler
	RenditionOption  = internalmedia.RenditionOption
)

// MaxWidth caps the requested rendition width.
const MaxWidth = internalmedia.MaxWidth

// NewResolver builds a go-urlkit backed image resolver.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	return internalmedia.NewResolver(opts)
}

// NewWarmer builds a bounded image preloader.
func NewWarmer(opts ...WarmerOption) *Warmer {
	return internalmedia.NewWarmer(opts...)
}

// WithHTTPClient sets the client used to fetch images.
func WithHTTPClient(client *http.Client) WarmerOption {
	return internalmedia.WithHTTPClient(client)
}

// WithConcurrency bounds in-flight preloads.
func WithConcurrency(n int) WarmerOption {
	return internalmedia.WithConcurrency(n)
}

// WithFetchTimeout bounds a single fetch.
func WithFetchTimeout(timeout time.Duration) WarmerOption {
	return internalmedia.WithFetchTimeout(timeout)
}

// NewRenditionHandler serves resized renditions of the images in dir.
func NewRenditionHandler(dir string, opts ...RenditionOption) *RenditionHandler {
	return internalmedia.NewRenditionHandler(dir, opts...)
}

// NewRenditionHandlerFS serves resized renditions of the images in assets.
func NewRenditionHandlerFS(assets fs.FS, opts ...RenditionOption) *RenditionHandler {
	return internalmedia.NewRenditionHandlerFS(assets, opts...)
}

// WithDefaultFormat sets the encoding used when a request names none.
func WithDefaultFormat(format interfaces.ImageFormat) RenditionOption {
	return internalmedia.WithDefaultFormat(format)
}

// WithMaxAge sets the Cache-Control max-age of rendition responses.
func WithMaxAge(seconds int) RenditionOption {
	return internalmedia.WithMaxAge(seconds)
}

// Fingerprint returns the cache busting token embedded in asset URLs.
func Fingerprint(assetID string, width int, format interfaces.ImageFormat) string {
	return internalmedia.Fingerprint(assetID, width, format)
}
