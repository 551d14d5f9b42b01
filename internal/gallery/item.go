// Package gallery holds the portfolio gallery state: category discovery,
// filtering, pagination and the lightbox viewer. Every type here is owned by
// a single consumer (one HTTP request, one terminal program) and is not safe
// for concurrent use.
package gallery

import (
	"cmp"
	"context"
	"slices"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Item is a single portfolio entry as delivered by the CMS.
type Item struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	Image         *interfaces.ImageRef `json:"image,omitempty"`
	Category      string               `json:"category,omitempty"`
	CategorySlugs []string             `json:"category_slugs,omitempty"`
	Priority      int                  `json:"priority"`
}

// HasImage reports whether the item carries a non-empty image reference.
func (i Item) HasImage() bool {
	return i.Image != nil && i.Image.AssetID != ""
}

// ItemSource fetches the complete item list. Filtering and pagination happen
// client side so no parameters are passed.
type ItemSource interface {
	FetchItems(ctx context.Context) ([]Item, error)
}

// ItemSourceFunc adapts a function into an ItemSource.
type ItemSourceFunc func(ctx context.Context) ([]Item, error)

func (fn ItemSourceFunc) FetchItems(ctx context.Context) ([]Item, error) {
	return fn(ctx)
}

// SortByPriority returns a copy of items ordered by ascending priority. Items
// sharing a priority keep their input order.
func SortByPriority(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return sorted
}
