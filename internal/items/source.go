// Package items provides the item sources a gallery view can load from: a
// static list, a CMS JSON feed, a directory of markdown files and a SQL
// table.
package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-portfolio/internal/gallery"
)

var (
	// ErrFeedStatus reports a non-2xx response from the CMS feed.
	ErrFeedStatus = errors.New("items: unexpected feed status")
	// ErrFeedInvalid reports a feed document rejected by the item schema.
	ErrFeedInvalid = errors.New("items: feed document invalid")
	// ErrSlugRequired reports a markdown item without a usable slug.
	ErrSlugRequired = errors.New("items: slug required")
	// ErrDuplicateSlug reports two markdown files resolving to the same slug.
	ErrDuplicateSlug = errors.New("items: duplicate slug")
	// ErrTitleRequired reports an item without a title.
	ErrTitleRequired = errors.New("items: title required")
)

// NotFoundError is returned when a stored item does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// MemorySource serves a fixed item list.
type MemorySource struct {
	items []gallery.Item
}

var _ gallery.ItemSource = (*MemorySource)(nil)

// NewMemorySource copies items into a new source.
func NewMemorySource(items []gallery.Item) *MemorySource {
	cloned := make([]gallery.Item, len(items))
	copy(cloned, items)
	return &MemorySource{items: cloned}
}

func (m *MemorySource) FetchItems(ctx context.Context) ([]gallery.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return gallery.SortByPriority(m.items), nil
}

// Slugify normalizes a category label or title into a slug. It falls back to
// the hyphenated lowercase form when go-slug rejects the input.
func Slugify(value string) string {
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		return normalized
	}
	return gallery.SlugForm(value)
}

// CategorySlugs slugifies labels, dropping blanks and duplicates.
func CategorySlugs(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		s := Slugify(label)
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
