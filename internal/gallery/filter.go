package gallery

import (
	"slices"
	"strings"

	"github.com/goliatone/go-slug"
)

// Filter returns the items matching filter in their original relative order.
// The result is always a new slice.
func Filter(items []Item, filter string) []Item {
	out := make([]Item, 0, len(items))
	if IsAll(filter) {
		return append(out, items...)
	}
	m := newMatcher(filter)
	for _, item := range items {
		if m.matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether item is selected by filter.
func Matches(item Item, filter string) bool {
	if IsAll(filter) {
		return true
	}
	return newMatcher(filter).matches(item)
}

// SlugForm lowercases and trims value and replaces spaces with hyphens.
func SlugForm(value string) string {
	return strings.ReplaceAll(normalizeLabel(value), " ", "-")
}

type matcher struct {
	label string
	slugs []string
}

func newMatcher(filter string) matcher {
	m := matcher{
		label: normalizeLabel(filter),
		slugs: []string{SlugForm(filter)},
	}
	// go-slug also strips punctuation ("Signs & Banners" -> "signs-banners").
	if normalized, err := slug.Normalize(filter); err == nil && normalized != "" && !slices.Contains(m.slugs, normalized) {
		m.slugs = append(m.slugs, normalized)
	}
	return m
}

func (m matcher) matches(item Item) bool {
	if category := normalizeLabel(item.Category); category != "" && category == m.label {
		return true
	}
	for _, candidate := range item.CategorySlugs {
		if slices.Contains(m.slugs, normalizeLabel(candidate)) {
			return true
		}
	}
	return false
}
