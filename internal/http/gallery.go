package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/openapi"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// GalleryAPI serves gallery render states as JSON. Each request builds its own
// gallery.View over the configured source, so no state is shared between
// requests.
type GalleryAPI struct {
	basePath    string
	source      gallery.ItemSource
	sourceName  string
	viewOpts    []gallery.ViewOption
	thumbnails  interfaces.ImageResolver
	thumbOpts   interfaces.ImageOptions
	logger      interfaces.Logger
	assets      AssetRegistrar
	assetPrefix string
}

const apiVersion = "1.0.0"

// AssetRegistrar mounts an asset server under a prefix.
type AssetRegistrar interface {
	Register(mux *http.ServeMux, prefix string)
}

// GalleryOption mutates the GalleryAPI configuration.
type GalleryOption func(*GalleryAPI)

// GalleryResponse is the body of GET {base}/gallery.
type GalleryResponse struct {
	gallery.RenderState
	// Thumbnails holds one URL per page item; blank when the image is unavailable.
	Thumbnails []string `json:"thumbnails"`
}

// CategoriesResponse is the body of GET {base}/gallery/categories.
type CategoriesResponse struct {
	Status     gallery.Status `json:"status"`
	Error      string         `json:"error,omitempty"`
	Categories []string       `json:"categories"`
}

// NewGalleryAPI constructs a GalleryAPI mounted under "/api" by default.
func NewGalleryAPI(source gallery.ItemSource, opts ...GalleryOption) *GalleryAPI {
	api := &GalleryAPI{
		basePath: "/api",
		source:   source,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the API prefix.
func WithBasePath(path string) GalleryOption {
	return func(api *GalleryAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithSourceName labels fetch errors.
func WithSourceName(name string) GalleryOption {
	return func(api *GalleryAPI) {
		api.sourceName = name
	}
}

// WithViewOptions forwards options to every per-request view.
func WithViewOptions(opts ...gallery.ViewOption) GalleryOption {
	return func(api *GalleryAPI) {
		api.viewOpts = append(api.viewOpts, opts...)
	}
}

// WithThumbnails resolves grid thumbnails with resolver and opts.
func WithThumbnails(resolver interfaces.ImageResolver, opts interfaces.ImageOptions) GalleryOption {
	return func(api *GalleryAPI) {
		api.thumbnails = resolver
		api.thumbOpts = opts
	}
}

// WithAssets mounts assets under prefix on the same mux.
func WithAssets(prefix string, assets AssetRegistrar) GalleryOption {
	return func(api *GalleryAPI) {
		api.assetPrefix = prefix
		api.assets = assets
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) GalleryOption {
	return func(api *GalleryAPI) {
		api.logger = logging.EnsureLogger(logger)
	}
}

// Register mounts the gallery routes on mux.
func (api *GalleryAPI) Register(mux *http.ServeMux) {
	if api == nil || mux == nil {
		return
	}
	root := joinPath(api.basePath, "gallery")
	mux.HandleFunc("GET "+root, api.handleGallery)
	mux.HandleFunc("GET "+root+"/categories", api.handleCategories)
	mux.HandleFunc("GET "+joinPath(api.basePath, "openapi.json"), api.handleOpenAPI)
	if api.assets != nil {
		api.assets.Register(mux, joinPath(api.assetPrefix, ""))
	}
}

// Handler returns a mux with the gallery routes registered.
func (api *GalleryAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux)
	return mux
}

func (api *GalleryAPI) handleGallery(w http.ResponseWriter, r *http.Request) {
	if api.source == nil {
		writeError(w, gallery.ErrSourceUnavailable)
		return
	}
	query := r.URL.Query()
	page, err := parseIntQuery("page", query.Get("page"), 1)
	if err != nil {
		writeError(w, err)
		return
	}
	itemParam := strings.TrimSpace(query.Get("item"))
	item, err := parseIntQuery("item", itemParam, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	view := api.newView()
	if err := view.Load(r.Context()); err != nil {
		api.logger.Warn("http.gallery.fetch_failed", "error", err)
		writeJSON(w, http.StatusOK, api.response(view.Snapshot()))
		return
	}
	if filter := strings.TrimSpace(query.Get("filter")); filter != "" {
		if err := view.SelectFilter(filter); err != nil {
			writeError(w, err)
			return
		}
	}
	view.GoToPage(page)
	if itemParam != "" {
		view.OpenAt(item)
	}
	writeJSON(w, http.StatusOK, api.response(view.Snapshot()))
}

func (api *GalleryAPI) handleCategories(w http.ResponseWriter, r *http.Request) {
	if api.source == nil {
		writeError(w, gallery.ErrSourceUnavailable)
		return
	}
	view := api.newView()
	resp := CategoriesResponse{Status: gallery.StatusReady}
	if err := view.Load(r.Context()); err != nil {
		resp.Status = gallery.StatusFailed
		resp.Error = err.Error()
	}
	resp.Categories = view.Categories()
	writeJSON(w, http.StatusOK, resp)
}

func (api *GalleryAPI) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	base := strings.TrimSuffix(joinPath(api.basePath, ""), "/")
	writeJSON(w, http.StatusOK, openapi.GalleryDocument(base, apiVersion))
}

func (api *GalleryAPI) newView() *gallery.View {
	opts := append([]gallery.ViewOption{
		gallery.WithSourceName(api.sourceName),
		gallery.WithViewLogger(api.logger),
	}, api.viewOpts...)
	return gallery.NewView(api.source, opts...)
}

func (api *GalleryAPI) response(state gallery.RenderState) GalleryResponse {
	resp := GalleryResponse{RenderState: state, Thumbnails: make([]string, len(state.Items))}
	if api.thumbnails == nil {
		return resp
	}
	for i, item := range state.Items {
		url, err := api.thumbnails.Resolve(item.Image, api.thumbOpts)
		if err != nil {
			continue
		}
		resp.Thumbnails[i] = url
	}
	return resp
}
