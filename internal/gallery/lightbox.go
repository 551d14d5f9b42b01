package gallery

import (
	"context"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// LightboxState is the render contract for the modal viewer.
type LightboxState struct {
	Open        bool   `json:"open"`
	Index       int    `json:"index"`
	Count       int    `json:"count"`
	Item        *Item  `json:"item,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Unavailable bool   `json:"unavailable,omitempty"`
	Loaded      bool   `json:"loaded"`
	HasNext     bool   `json:"has_next"`
	HasPrev     bool   `json:"has_prev"`
}

// LightboxOption configures a Lightbox.
type LightboxOption func(*Lightbox)

// WithResolver sets the resolver used for the displayed and preloaded images.
func WithResolver(resolver interfaces.ImageResolver) LightboxOption {
	return func(l *Lightbox) {
		l.resolver = resolver
	}
}

// WithPreloader sets the sink for adjacent image URLs.
func WithPreloader(preloader interfaces.Preloader) LightboxOption {
	return func(l *Lightbox) {
		l.preloader = preloader
	}
}

// WithImageOptions sets the rendition requested for lightbox images.
func WithImageOptions(opts interfaces.ImageOptions) LightboxOption {
	return func(l *Lightbox) {
		l.imageOpts = opts
	}
}

// WithScrollLock shares a scroll lock with the lightbox.
func WithScrollLock(lock *ScrollLock) LightboxOption {
	return func(l *Lightbox) {
		if lock != nil {
			l.scroll = lock
		}
	}
}

// WithKeyRegistrar sets where the keyboard handler is registered while open.
func WithKeyRegistrar(keys KeyRegistrar) LightboxOption {
	return func(l *Lightbox) {
		l.keys = keys
	}
}

// WithPreloadContext sets the context handed to the preloader.
func WithPreloadContext(ctx context.Context) LightboxOption {
	return func(l *Lightbox) {
		if ctx != nil {
			l.ctx = ctx
		}
	}
}

// WithLightboxLogger sets the logger.
func WithLightboxLogger(logger interfaces.Logger) LightboxOption {
	return func(l *Lightbox) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Lightbox is the closed/open(index) state machine over an ordered sequence.
type Lightbox struct {
	items []Item

	open        bool
	index       int
	imageURL    string
	unavailable bool
	loaded      bool

	resolver  interfaces.ImageResolver
	preloader interfaces.Preloader
	imageOpts interfaces.ImageOptions
	scroll    *ScrollLock
	guard     *ScrollGuard
	keys      KeyRegistrar
	release   func()
	ctx       context.Context
	logger    interfaces.Logger
}

// NewLightbox returns a closed lightbox over a copy of items.
func NewLightbox(items []Item, opts ...LightboxOption) *Lightbox {
	l := &Lightbox{
		items:  cloneItems(items),
		scroll: NewScrollLock(nil, nil),
		ctx:    context.Background(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Open shows the item at start, clamped into range. It returns false and
// stays closed when the sequence is empty.
func (l *Lightbox) Open(start int) bool {
	if len(l.items) == 0 {
		return false
	}
	if !l.open {
		l.open = true
		l.acquire()
		l.logger.Debug("lightbox.open", "index", start, "count", len(l.items))
	}
	l.show(clampIndex(start, len(l.items)))
	return true
}

// Close hides the lightbox and releases the scroll lock and key handler.
func (l *Lightbox) Close() bool {
	if !l.open {
		return false
	}
	l.open = false
	l.loaded = false
	l.imageURL = ""
	l.unavailable = false
	l.releaseResources()
	l.logger.Debug("lightbox.close", "index", l.index)
	return true
}

// Next moves forward, wrapping to the first item.
func (l *Lightbox) Next() bool {
	if !l.open || len(l.items) <= 1 {
		return false
	}
	l.show((l.index + 1) % len(l.items))
	return true
}

// Prev moves back, wrapping to the last item.
func (l *Lightbox) Prev() bool {
	if !l.open || len(l.items) <= 1 {
		return false
	}
	l.show((l.index - 1 + len(l.items)) % len(l.items))
	return true
}

// HandleKey applies the lightbox key bindings. Keys are ignored while closed.
func (l *Lightbox) HandleKey(key string) bool {
	if !l.open {
		return false
	}
	switch key {
	case KeyEscape:
		l.Close()
	case KeyArrowRight:
		l.Next()
	case KeyArrowLeft:
		l.Prev()
	default:
		return false
	}
	return true
}

// Replace swaps the underlying sequence. An open lightbox keeps its index when
// still valid, snaps to the last item otherwise, and closes on an empty list.
func (l *Lightbox) Replace(items []Item) {
	l.items = cloneItems(items)
	if !l.open {
		l.index = 0
		return
	}
	if len(l.items) == 0 {
		l.Close()
		return
	}
	l.show(clampIndex(l.index, len(l.items)))
}

// MarkLoaded flags the current image as loaded. Completions for any other
// URL are ignored.
func (l *Lightbox) MarkLoaded(url string) bool {
	if !l.open || l.unavailable || url == "" || url != l.imageURL {
		return false
	}
	l.loaded = true
	return true
}

// IsOpen reports whether the lightbox is showing an item.
func (l *Lightbox) IsOpen() bool { return l.open }

// Index returns the current index and whether the lightbox is open.
func (l *Lightbox) Index() (int, bool) {
	return l.index, l.open
}

// Len returns the length of the underlying sequence.
func (l *Lightbox) Len() int { return len(l.items) }

// Snapshot returns the render state.
func (l *Lightbox) Snapshot() LightboxState {
	state := LightboxState{
		Open:  l.open,
		Count: len(l.items),
	}
	if !l.open {
		return state
	}
	item := l.items[l.index]
	state.Index = l.index
	state.Item = &item
	state.ImageURL = l.imageURL
	state.Unavailable = l.unavailable
	state.Loaded = l.loaded
	state.HasNext = len(l.items) > 1
	state.HasPrev = len(l.items) > 1
	return state
}

func (l *Lightbox) show(index int) {
	url, ok := l.resolve(l.items[index])
	if index != l.index || url != l.imageURL || !ok != l.unavailable {
		l.loaded = false
	}
	l.index = index
	l.imageURL = url
	l.unavailable = !ok
	l.preloadAdjacent()
}

func (l *Lightbox) resolve(item Item) (string, bool) {
	if l.resolver == nil || !item.HasImage() {
		return "", false
	}
	url, err := l.resolver.Resolve(item.Image, l.imageOpts)
	if err != nil || url == "" {
		l.logger.Debug("lightbox.image_unavailable", "item", item.ID, "error", err)
		return "", false
	}
	return url, true
}

func (l *Lightbox) preloadAdjacent() {
	count := len(l.items)
	if l.preloader == nil || count <= 1 {
		return
	}
	next := (l.index + 1) % count
	prev := (l.index - 1 + count) % count
	l.preload(next)
	if prev != next {
		l.preload(prev)
	}
}

func (l *Lightbox) preload(index int) {
	if url, ok := l.resolve(l.items[index]); ok {
		l.preloader.Preload(l.ctx, url)
	}
}

func (l *Lightbox) acquire() {
	l.guard = l.scroll.Acquire()
	if l.keys != nil {
		l.release = l.keys.Register(l.HandleKey)
	}
}

func (l *Lightbox) releaseResources() {
	if l.guard != nil {
		l.guard.Release()
		l.guard = nil
	}
	if l.release != nil {
		l.release()
		l.release = nil
	}
}

func clampIndex(index, count int) int {
	switch {
	case count <= 0:
		return 0
	case index < 0:
		return 0
	case index >= count:
		return count - 1
	default:
		return index
	}
}

func cloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
