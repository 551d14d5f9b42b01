package media

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// RenditionHandler serves resized copies of the source images found in an
// asset filesystem. Asset IDs map to file names; when the ID carries no
// extension the handler tries the known source extensions.
type RenditionHandler struct {
	assets        fs.FS
	defaultFormat interfaces.ImageFormat
	maxAge        int
	logger        interfaces.Logger
}

// RenditionOption configures a RenditionHandler.
type RenditionOption func(*RenditionHandler)

// WithDefaultFormat sets the output format used when fm is absent.
func WithDefaultFormat(format interfaces.ImageFormat) RenditionOption {
	return func(h *RenditionHandler) {
		if SupportedFormat(format) {
			h.defaultFormat = format
		}
	}
}

// WithMaxAge sets the Cache-Control max-age in seconds.
func WithMaxAge(seconds int) RenditionOption {
	return func(h *RenditionHandler) {
		if seconds >= 0 {
			h.maxAge = seconds
		}
	}
}

// WithRenditionLogger sets the logger.
func WithRenditionLogger(logger interfaces.Logger) RenditionOption {
	return func(h *RenditionHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

var sourceExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// NewRenditionHandler serves renditions from dir.
func NewRenditionHandler(dir string, opts ...RenditionOption) *RenditionHandler {
	return NewRenditionHandlerFS(os.DirFS(dir), opts...)
}

// NewRenditionHandlerFS serves renditions from assets.
func NewRenditionHandlerFS(assets fs.FS, opts ...RenditionOption) *RenditionHandler {
	h := &RenditionHandler{
		assets:        assets,
		defaultFormat: interfaces.ImageFormatJPEG,
		maxAge:        86400,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Register mounts the handler on GET {prefix}/{ref...}.
func (h *RenditionHandler) Register(mux *http.ServeMux, prefix string) {
	if mux == nil {
		return
	}
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		prefix = ""
	}
	mux.HandleFunc("GET "+prefix+"/{ref...}", h.ServeHTTP)
}

func (h *RenditionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assetID, err := NormalizeAssetID(r.PathValue("ref"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	width := 0
	if raw := strings.TrimSpace(query.Get(QueryWidth)); raw != "" {
		width, err = strconv.Atoi(raw)
		if err != nil || width < 0 {
			http.Error(w, "media: invalid width", http.StatusBadRequest)
			return
		}
		width = min(width, MaxWidth)
	}
	format := h.defaultFormat
	if raw := strings.TrimSpace(query.Get(QueryFormat)); raw != "" {
		format = interfaces.ImageFormat(strings.ToLower(raw))
		if !SupportedFormat(format) {
			http.Error(w, "media: unsupported format", http.StatusBadRequest)
			return
		}
	}

	img, err := h.open(assetID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.logger.Warn("rendition.decode_failed", "asset_id", assetID, "error", err)
		http.Error(w, "media: asset unreadable", http.StatusUnprocessableEntity)
		return
	}

	// Never upscale past the source width.
	if width > 0 && width < img.Bounds().Dx() {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, encoderFormat(format)); err != nil {
		h.logger.Error("rendition.encode_failed", "asset_id", assetID, "error", err)
		http.Error(w, "media: encode failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(h.maxAge))
	w.Header().Set("ETag", `"`+Fingerprint(assetID, width, format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *RenditionHandler) open(assetID string) (image.Image, error) {
	candidates := []string{assetID}
	if path.Ext(assetID) == "" {
		candidates = candidates[:0]
		for _, ext := range sourceExtensions {
			candidates = append(candidates, assetID+ext)
		}
	}
	for _, name := range candidates {
		file, err := h.assets.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		img, err := imaging.Decode(file, imaging.AutoOrientation(true))
		_ = file.Close()
		return img, err
	}
	return nil, fs.ErrNotExist
}

func encoderFormat(format interfaces.ImageFormat) imaging.Format {
	switch format {
	case interfaces.ImageFormatPNG:
		return imaging.PNG
	case interfaces.ImageFormatGIF:
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}

func contentType(format interfaces.ImageFormat) string {
	switch format {
	case interfaces.ImageFormatPNG:
		return "image/png"
	case interfaces.ImageFormatGIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
