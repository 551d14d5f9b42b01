package gallery

import (
	"context"
	"fmt"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Status tracks the item fetch lifecycle of a view.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// RenderState is everything a renderer needs for one frame.
type RenderState struct {
	Status        Status        `json:"status"`
	Error         string        `json:"error,omitempty"`
	Err           error         `json:"-"`
	ActiveFilter  string        `json:"active_filter"`
	Filters       []string      `json:"filters"`
	Items         []Item        `json:"items"`
	Page          int           `json:"page"`
	TotalPages    int           `json:"total_pages"`
	PageStart     int           `json:"page_start"`
	PageSize      int           `json:"page_size"`
	FilteredCount int           `json:"filtered_count"`
	Lightbox      LightboxState `json:"lightbox"`
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithCategoryIndex selects the category policy. Defaults to DynamicIndex.
func WithCategoryIndex(index CategoryIndex) ViewOption {
	return func(v *View) {
		if index != nil {
			v.index = index
		}
	}
}

// WithPageSize sets the grid page size.
func WithPageSize(size int) ViewOption {
	return func(v *View) {
		v.pageSize = size
	}
}

// WithLightboxOptions forwards options to the view's lightbox.
func WithLightboxOptions(opts ...LightboxOption) ViewOption {
	return func(v *View) {
		v.lightboxOpts = append(v.lightboxOpts, opts...)
	}
}

// WithViewLogger sets the logger.
func WithViewLogger(logger interfaces.Logger) ViewOption {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithSourceName labels fetch errors with the source they came from.
func WithSourceName(name string) ViewOption {
	return func(v *View) {
		v.sourceName = name
	}
}

// View wires category discovery, filtering, pagination and the lightbox over
// one item list.
type View struct {
	source     ItemSource
	sourceName string
	index      CategoryIndex
	pageSize   int
	paginator  *Paginator
	lightbox   *Lightbox
	logger     interfaces.Logger

	lightboxOpts []LightboxOption

	status     Status
	err        error
	items      []Item
	categories []string
	active     string
	filtered   []Item
}

// NewView builds a pending view over source.
func NewView(source ItemSource, opts ...ViewOption) *View {
	v := &View{
		source:   source,
		index:    DynamicIndex{Order: OrderFirstSeen},
		pageSize: DefaultPageSize,
		logger:   logging.NoOp(),
		status:   StatusPending,
		active:   AllFilter,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	v.paginator = NewPaginator(v.pageSize)
	v.lightbox = NewLightbox(nil, append([]LightboxOption{WithLightboxLogger(v.logger)}, v.lightboxOpts...)...)
	v.categories = []string{AllFilter}
	return v
}

// Load fetches the items once. On failure the view holds an empty list and
// the returned *FetchError.
func (v *View) Load(ctx context.Context) error {
	if v.source == nil {
		return v.fail(ErrSourceUnavailable)
	}
	return v.Complete(v.source.FetchItems(ctx))
}

// Complete records the outcome of a fetch performed elsewhere, for example by
// a terminal program that fetches off its update loop.
func (v *View) Complete(items []Item, err error) error {
	if err != nil {
		return v.fail(err)
	}
	v.SetItems(items)
	v.logger.Debug("gallery.loaded", "items", len(v.items), "categories", len(v.categories)-1)
	return nil
}

// SetItems replaces the item list, for example after a refetch. The active
// filter survives when it is still available; the page and lightbox index are
// clamped to the new bounds.
func (v *View) SetItems(items []Item) {
	v.items = SortByPriority(items)
	v.categories = v.index.Categories(v.items)
	if canonical, ok := Lookup(v.categories, v.active); ok {
		v.active = canonical
	} else {
		v.active = AllFilter
		v.paginator.Reset()
	}
	v.filtered = Filter(v.items, v.active)
	v.paginator.Sync(len(v.filtered))
	v.lightbox.Replace(v.filtered)
	v.status = StatusReady
	v.err = nil
}

// SelectFilter activates filter. Selecting a different filter resets the page
// to 1 and closes the lightbox.
func (v *View) SelectFilter(filter string) error {
	if v.status == StatusPending {
		return ErrViewPending
	}
	canonical, ok := Lookup(v.categories, filter)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
	if canonical == v.active {
		return nil
	}
	v.active = canonical
	v.filtered = Filter(v.items, v.active)
	v.paginator.Reset()
	v.lightbox.Close()
	v.lightbox.Replace(v.filtered)
	v.logger.Debug("gallery.filter", "filter", canonical, "matches", len(v.filtered))
	return nil
}

// NextPage advances one page; false on the last page.
func (v *View) NextPage() bool { return v.paginator.Next(len(v.filtered)) }

// PrevPage steps back one page; false on the first page.
func (v *View) PrevPage() bool { return v.paginator.Prev() }

// GoToPage jumps to page, clamped, and returns the resulting page number.
func (v *View) GoToPage(page int) int { return v.paginator.GoTo(page, len(v.filtered)) }

// Page returns the current page of the filtered sequence.
func (v *View) Page() Page { return v.paginator.Page(v.filtered) }

// Activate opens the lightbox on the grid cell of the current page.
func (v *View) Activate(cell int) bool {
	index, err := v.Page().AbsoluteIndex(cell)
	if err != nil {
		return false
	}
	return v.lightbox.Open(index)
}

// OpenAt opens the lightbox at an index of the filtered sequence.
func (v *View) OpenAt(index int) bool {
	return v.lightbox.Open(index)
}

// CloseLightbox closes the lightbox.
func (v *View) CloseLightbox() bool { return v.lightbox.Close() }

// HandleKey forwards a key to the lightbox.
func (v *View) HandleKey(key string) bool { return v.lightbox.HandleKey(key) }

// Lightbox exposes the view's lightbox controller.
func (v *View) Lightbox() *Lightbox { return v.lightbox }

// Status returns the fetch status.
func (v *View) Status() Status { return v.status }

// Err returns the last fetch error, if any.
func (v *View) Err() error { return v.err }

// ActiveFilter returns the canonical active filter.
func (v *View) ActiveFilter() string { return v.active }

// Categories returns the selectable filters.
func (v *View) Categories() []string {
	out := make([]string, len(v.categories))
	copy(out, v.categories)
	return out
}

// Filtered returns a copy of the filtered sequence.
func (v *View) Filtered() []Item { return cloneItems(v.filtered) }

// Snapshot builds the render state for the current frame.
func (v *View) Snapshot() RenderState {
	state := RenderState{
		Status:       v.status,
		ActiveFilter: v.active,
		Page:         1,
		TotalPages:   1,
		PageSize:     v.paginator.Size(),
		Items:        []Item{},
	}
	if v.status == StatusPending {
		return state
	}
	if v.err != nil {
		state.Err = v.err
		state.Error = v.err.Error()
	}
	page := v.Page()
	state.Filters = v.Categories()
	state.Items = page.Items
	state.Page = page.Current
	state.TotalPages = page.Total
	state.PageStart = page.Start
	state.FilteredCount = len(v.filtered)
	state.Lightbox = v.lightbox.Snapshot()
	return state
}

func (v *View) fail(err error) error {
	fetchErr := NewFetchError(v.sourceName, err)
	v.items = nil
	v.categories = []string{AllFilter}
	v.active = AllFilter
	v.filtered = []Item{}
	v.paginator.Reset()
	v.lightbox.Replace(nil)
	v.status = StatusFailed
	v.err = fetchErr
	v.logger.Warn("gallery.fetch_failed", "source", v.sourceName, "error", err)
	return fetchErr
}
