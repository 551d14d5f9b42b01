// Package tui is a terminal browser for the portfolio gallery built on
// bubbletea. The grid, filters and lightbox are driven by a gallery.View; the
// lightbox key bindings are only live while it is open.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// ImageFetcher loads an image URL. The model marks the lightbox image loaded
// once the fetch for the URL on screen succeeds.
type ImageFetcher interface {
	Warm(ctx context.Context, url string) error
}

// Option configures a Model.
type Option func(*Model)

// WithViewOptions forwards options to the underlying gallery view.
func WithViewOptions(opts ...gallery.ViewOption) Option {
	return func(m *Model) {
		m.viewOpts = append(m.viewOpts, opts...)
	}
}

// WithRefresh refetches the items every time ch receives.
func WithRefresh(ch <-chan struct{}) Option {
	return func(m *Model) {
		m.refresh = ch
	}
}

// WithImageFetcher sets the fetcher used to load lightbox images.
func WithImageFetcher(fetcher ImageFetcher) Option {
	return func(m *Model) {
		m.fetcher = fetcher
	}
}

// WithContext bounds item and image fetches.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Model) {
		m.logger = logging.EnsureLogger(logger)
	}
}

// WithSourceName labels fetch errors.
func WithSourceName(name string) Option {
	return func(m *Model) {
		m.sourceName = name
	}
}

type itemsLoadedMsg struct {
	items []gallery.Item
	err   error
}

type refreshMsg struct{}

type imageLoadedMsg struct {
	url string
	err error
}

// Model is the bubbletea model of the gallery browser.
type Model struct {
	ctx        context.Context
	source     gallery.ItemSource
	sourceName string
	view       *gallery.View
	viewOpts   []gallery.ViewOption
	dispatcher *gallery.KeyDispatcher
	scroll     *gallery.ScrollLock
	gridFrozen bool
	fetcher    ImageFetcher
	refresh    <-chan struct{}
	logger     interfaces.Logger

	keys   keyMap
	help   help.Model
	styles styles
	cursor int
	width  int
}

var _ tea.Model = (*Model)(nil)

// New builds a model over source. Items are fetched by the command returned
// from Init.
func New(source gallery.ItemSource, opts ...Option) *Model {
	m := &Model{
		ctx:        context.Background(),
		source:     source,
		dispatcher: gallery.NewKeyDispatcher(),
		logger:     logging.NoOp(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		styles:     defaultStyles(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	// The grid stops reacting to navigation while the lightbox holds the lock.
	m.scroll = gallery.NewScrollLock(
		func() { m.gridFrozen = true },
		func() { m.gridFrozen = false },
	)
	viewOpts := []gallery.ViewOption{
		gallery.WithSourceName(m.sourceName),
		gallery.WithViewLogger(m.logger),
	}
	viewOpts = append(viewOpts, m.viewOpts...)
	viewOpts = append(viewOpts, gallery.WithLightboxOptions(
		gallery.WithKeyRegistrar(m.dispatcher),
		gallery.WithScrollLock(m.scroll),
		gallery.WithPreloadContext(m.ctx),
	))
	m.view = gallery.NewView(source, viewOpts...)
	return m
}

// Init starts the item fetch and the refresh listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.waitForRefresh())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case itemsLoadedMsg:
		if err := m.view.Complete(msg.items, msg.err); err != nil {
			m.logger.Warn("tui.fetch_failed", "error", err)
		}
		m.clampCursor()
		return m, m.loadImageCmd()
	case refreshMsg:
		m.logger.Debug("tui.refresh")
		return m, tea.Batch(m.fetchCmd(), m.waitForRefresh())
	case imageLoadedMsg:
		if msg.err != nil {
			m.logger.Debug("tui.image_failed", "url", msg.url, "error", msg.err)
			return m, nil
		}
		m.view.Lightbox().MarkLoaded(msg.url)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.view.CloseLightbox()
		return m, tea.Quit
	}
	if lightboxKey, ok := m.keys.lightboxKey(msg); ok && m.dispatcher.Dispatch(lightboxKey) {
		return m, m.loadImageCmd()
	}
	if m.gridFrozen {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextFilter):
		m.cycleFilter(1)
	case key.Matches(msg, m.keys.PrevFilter):
		m.cycleFilter(-1)
	case key.Matches(msg, m.keys.NextPage):
		if m.view.NextPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.view.PrevPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Page().Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.view.Activate(m.cursor) {
			return m, m.loadImageCmd()
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.fetchCmd()
	}
	return m, nil
}

func (m *Model) cycleFilter(step int) {
	filters := m.view.Categories()
	if len(filters) < 2 {
		return
	}
	current := 0
	for i, filter := range filters {
		if filter == m.view.ActiveFilter() {
			current = i
			break
		}
	}
	next := (current + step + len(filters)) % len(filters)
	if err := m.view.SelectFilter(filters[next]); err != nil {
		m.logger.Debug("tui.filter_rejected", "filter", filters[next], "error", err)
		return
	}
	m.cursor = 0
}

func (m *Model) clampCursor() {
	count := len(m.view.Page().Items)
	if m.cursor >= count {
		m.cursor = max(count-1, 0)
	}
}

func (m *Model) fetchCmd() tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		if source == nil {
			return itemsLoadedMsg{err: gallery.ErrSourceUnavailable}
		}
		items, err := source.FetchItems(ctx)
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m *Model) waitForRefresh() tea.Cmd {
	ch := m.refresh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

// loadImageCmd fetches the image on screen, if any is still loading.
func (m *Model) loadImageCmd() tea.Cmd {
	state := m.view.Lightbox().Snapshot()
	if !state.Open || state.Unavailable || state.Loaded || state.ImageURL == "" {
		return nil
	}
	url := state.ImageURL
	fetcher, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		if fetcher == nil {
			return imageLoadedMsg{url: url}
		}
		return imageLoadedMsg{url: url, err: fetcher.Warm(ctx, url)}
	}
}

// Snapshot returns the current gallery render state.
func (m *Model) Snapshot() gallery.RenderState { return m.view.Snapshot() }

// Cursor returns the selected cell of the current page.
func (m *Model) Cursor() int { return m.cursor }

// Run starts an interactive program for model and blocks until it exits.
func Run(ctx context.Context, model *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(model, opts...).Run()
	return err
}
