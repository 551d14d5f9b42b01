package gallery

// DefaultPageSize is the number of grid cells per page.
const DefaultPageSize = 9

// Page is one slice of a filtered sequence.
type Page struct {
	Items   []Item `json:"items"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	// Start is the index of Items[0] within the filtered sequence.
	Start int `json:"start"`
	Size  int `json:"size"`
}

// AbsoluteIndex maps a grid cell on the page to its index in the filtered
// sequence.
func (p Page) AbsoluteIndex(cell int) (int, error) {
	if cell < 0 || cell >= len(p.Items) {
		return -1, ErrIndexOutOfRange
	}
	return p.Start + cell, nil
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Current < p.Total }

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Current > 1 }

// TotalPages returns max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// ClampPage snaps page into [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}

// Paginate slices items into the requested page, clamping page first.
func Paginate(items []Item, page, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	total := TotalPages(len(items), size)
	current := ClampPage(page, total)
	start := min((current-1)*size, len(items))
	end := min(start+size, len(items))

	pageItems := make([]Item, end-start)
	copy(pageItems, items[start:end])

	return Page{
		Items:   pageItems,
		Current: current,
		Total:   total,
		Start:   start,
		Size:    size,
	}
}

// Paginator tracks the current page of a sequence whose length may change.
type Paginator struct {
	size    int
	current int
}

// NewPaginator returns a paginator positioned on page 1.
func NewPaginator(size int) *Paginator {
	if size < 1 {
		size = DefaultPageSize
	}
	return &Paginator{size: size, current: 1}
}

func (p *Paginator) Size() int    { return p.size }
func (p *Paginator) Current() int { return p.current }

// Sync clamps the current page for a sequence of count items.
func (p *Paginator) Sync(count int) int {
	p.current = ClampPage(p.current, TotalPages(count, p.size))
	return p.current
}

// GoTo moves to page, clamped into range.
func (p *Paginator) GoTo(page, count int) int {
	p.current = ClampPage(page, TotalPages(count, p.size))
	return p.current
}

// Next advances one page. It is a no-op on the last page.
func (p *Paginator) Next(count int) bool {
	total := TotalPages(count, p.size)
	if p.current >= total {
		p.current = total
		return false
	}
	p.current++
	return true
}

// Prev steps back one page. It is a no-op on the first page.
func (p *Paginator) Prev() bool {
	if p.current <= 1 {
		p.current = 1
		return false
	}
	p.current--
	return true
}

// Reset returns to page 1.
func (p *Paginator) Reset() {
	p.current = 1
}

// Page syncs against items and returns the current slice.
func (p *Paginator) Page(items []Item) Page {
	p.Sync(len(items))
	return Paginate(items, p.current, p.size)
}
