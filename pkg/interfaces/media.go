package interfaces

import "context"

// ImageFormat names an output encoding understood by the asset pipeline.
type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "jpg"
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatGIF  ImageFormat = "gif"
)

// ImageRef is an opaque pointer to an asset managed by the CMS asset pipeline.
// Only the asset ID is required; Alt is carried along for rendering.
type ImageRef struct {
	AssetID string `json:"asset_id"           yaml:"asset_id"`
	Alt     string `json:"alt,omitempty"      yaml:"alt,omitempty"`
	Width   int    `json:"width,omitempty"    yaml:"width,omitempty"`
	Height  int    `json:"height,omitempty"   yaml:"height,omitempty"`
}

// ImageOptions controls the rendition requested from the resolver.
type ImageOptions struct {
	Width  int
	Format ImageFormat
}

// ImageResolver turns an image reference into a loadable URL. Implementations
// must be deterministic for identical inputs so preloaded URLs hit the cache.
type ImageResolver interface {
	Resolve(ref *ImageRef, opts ImageOptions) (string, error)
}

// Preloader warms image URLs ahead of use. Calls must return immediately;
// failures are swallowed by the implementation.
type Preloader interface {
	Preload(ctx context.Context, url string)
}
