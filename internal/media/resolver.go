package media

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

var (
	// ErrImageUnavailable reports an absent or malformed image reference. The
	// lightbox renders it as an "unavailable" placeholder.
	ErrImageUnavailable = errors.New("media: image unavailable")
	// ErrRouteUnavailable reports a resolver built without a usable asset route.
	ErrRouteUnavailable = errors.New("media: asset route unavailable")
)

const (
	DefaultGroup    = "assets"
	DefaultRoute    = "asset"
	DefaultRefParam = "ref"
	DefaultPath     = "/assets/:ref"
)

// Query keys appended to every asset URL.
const (
	QueryWidth       = "w"
	QueryFormat      = "fm"
	QueryFingerprint = "v"
)

// MaxWidth caps the requested rendition width.
const MaxWidth = 4096

var assetIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(/[A-Za-z0-9][A-Za-z0-9._-]*)*$`)

// ResolverOptions configures the go-urlkit backed resolver. A nil Manager
// builds one from BaseURL with a single route under AssetPrefix.
type ResolverOptions struct {
	Manager       *urlkit.RouteManager
	BaseURL       string
	AssetPrefix   string
	Group         string
	Route         string
	RefParam      string
	DefaultWidth  int
	DefaultFormat interfaces.ImageFormat
}

// Resolver implements interfaces.ImageResolver. URLs carry a fingerprint of
// the reference and rendition so identical inputs always yield identical URLs.
type Resolver struct {
	group         *urlkit.Group
	route         string
	refParam      string
	defaultWidth  int
	defaultFormat interfaces.ImageFormat
}

var _ interfaces.ImageResolver = (*Resolver)(nil)

// NewResolver builds a resolver. It fails when the configured group or route
// cannot be found in the route manager.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	group := strings.TrimSpace(opts.Group)
	if group == "" {
		group = DefaultGroup
	}
	route := strings.TrimSpace(opts.Route)
	if route == "" {
		route = DefaultRoute
	}
	param := strings.TrimSpace(opts.RefParam)
	if param == "" {
		param = DefaultRefParam
	}

	manager := opts.Manager
	if manager == nil {
		manager = NewRouteManagerWithPrefix(opts.BaseURL, opts.AssetPrefix)
	}
	g, err := lookupGroup(manager, group)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		group:         g,
		route:         route,
		refParam:      param,
		defaultWidth:  opts.DefaultWidth,
		defaultFormat: opts.DefaultFormat,
	}
	if _, err := r.builder(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRouteManager returns a route manager with the asset group mounted at
// baseURL. A blank baseURL yields root-relative URLs.
func NewRouteManager(baseURL string) *urlkit.RouteManager {
	return NewRouteManagerWithPrefix(baseURL, "")
}

// NewRouteManagerWithPrefix mounts the asset route under prefix instead of
// /assets.
func NewRouteManagerWithPrefix(baseURL, prefix string) *urlkit.RouteManager {
	path := DefaultPath
	if trimmed := strings.Trim(strings.TrimSpace(prefix), "/"); trimmed != "" {
		path = "/" + trimmed + "/:" + DefaultRefParam
	}
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    DefaultGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					DefaultRoute: path,
				},
			},
		},
	})
}

// Resolve returns the URL for ref at the requested rendition.
func (r *Resolver) Resolve(ref *interfaces.ImageRef, opts interfaces.ImageOptions) (string, error) {
	if ref == nil {
		return "", fmt.Errorf("%w: reference missing", ErrImageUnavailable)
	}
	assetID, err := NormalizeAssetID(ref.AssetID)
	if err != nil {
		return "", err
	}

	width := opts.Width
	if width <= 0 {
		width = r.defaultWidth
	}
	width = min(width, MaxWidth)
	format := opts.Format
	if format == "" {
		format = r.defaultFormat
	}
	if format != "" && !SupportedFormat(format) {
		return "", fmt.Errorf("%w: unsupported format %q", ErrImageUnavailable, format)
	}

	builder, err := r.builder()
	if err != nil {
		return "", err
	}
	builder.WithParam(r.refParam, assetID)
	if width > 0 {
		builder.WithQuery(QueryWidth, strconv.Itoa(width))
	}
	if format != "" {
		builder.WithQuery(QueryFormat, string(format))
	}
	builder.WithQuery(QueryFingerprint, Fingerprint(assetID, width, format))
	return builder.Build()
}

// NormalizeAssetID trims id and rejects values that cannot name an asset file.
func NormalizeAssetID(id string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(id), "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: asset id missing", ErrImageUnavailable)
	}
	if !assetIDPattern.MatchString(trimmed) || strings.Contains(trimmed, "..") {
		return "", fmt.Errorf("%w: malformed asset id %q", ErrImageUnavailable, id)
	}
	return trimmed, nil
}

// SupportedFormat reports whether format can be produced by the rendition
// handler.
func SupportedFormat(format interfaces.ImageFormat) bool {
	switch format {
	case interfaces.ImageFormatJPEG, interfaces.ImageFormatPNG, interfaces.ImageFormatGIF:
		return true
	default:
		return false
	}
}

// Fingerprint is a short xxhash of the rendition identity.
func Fingerprint(assetID string, width int, format interfaces.ImageFormat) string {
	sum := xxhash.Sum64String(assetID + "|" + strconv.Itoa(width) + "|" + string(format))
	return strconv.FormatUint(sum, 16)
}

func (r *Resolver) builder() (builder *urlkit.Builder, err error) {
	if r == nil || r.group == nil {
		return nil, ErrRouteUnavailable
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("%w: route %q: %v", ErrRouteUnavailable, r.route, rec)
		}
	}()
	builder = r.group.Builder(r.route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, ErrRouteUnavailable
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("%w: group %q not found", ErrRouteUnavailable, name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		return nil, fmt.Errorf("%w: group %q not found", ErrRouteUnavailable, name)
	}
	return group, nil
}
