package gallery

import (
	"slices"
	"strings"
)

// AllFilter is the pseudo category that disables filtering.
const AllFilter = "All"

// CategoryOrder selects how dynamically discovered categories are ordered.
type CategoryOrder string

const (
	OrderFirstSeen    CategoryOrder = "first_seen"
	OrderAlphabetical CategoryOrder = "alphabetical"
)

// CategoryIndex derives the selectable filters for an item list. The result
// always starts with AllFilter.
type CategoryIndex interface {
	Categories(items []Item) []string
}

// DynamicIndex discovers categories from the items themselves.
type DynamicIndex struct {
	Order CategoryOrder
}

// Categories returns AllFilter followed by the distinct item categories.
// Labels are compared case-insensitively; the first spelling seen wins.
func (d DynamicIndex) Categories(items []Item) []string {
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Category)
	}
	labels = uniqueLabels(labels)
	if d.Order == OrderAlphabetical {
		slices.SortStableFunc(labels, func(a, b string) int {
			return strings.Compare(normalizeLabel(a), normalizeLabel(b))
		})
	}
	return append([]string{AllFilter}, labels...)
}

// FixedIndex publishes a build-time list of categories regardless of data.
type FixedIndex struct {
	Labels []string
}

func (f FixedIndex) Categories([]Item) []string {
	return append([]string{AllFilter}, uniqueLabels(f.Labels)...)
}

// IsAll reports whether filter selects every item.
func IsAll(filter string) bool {
	normalized := normalizeLabel(filter)
	return normalized == "" || normalized == normalizeLabel(AllFilter)
}

// Lookup returns the canonical spelling of filter within categories.
func Lookup(categories []string, filter string) (string, bool) {
	if IsAll(filter) {
		return AllFilter, true
	}
	target := normalizeLabel(filter)
	for _, category := range categories {
		if normalizeLabel(category) == target {
			return category, true
		}
	}
	// URL style filters name a label by its slug form.
	target = SlugForm(filter)
	for _, category := range categories {
		if SlugForm(category) == target {
			return category, true
		}
	}
	return "", false
}

// Contains reports whether filter is selectable within categories.
func Contains(categories []string, filter string) bool {
	_, ok := Lookup(categories, filter)
	return ok
}

func uniqueLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		trimmed := strings.TrimSpace(label)
		// "All" is reserved for the pseudo category.
		if IsAll(trimmed) {
			continue
		}
		key := normalizeLabel(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func normalizeLabel(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
