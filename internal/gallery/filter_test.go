package gallery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestFilterScenario(t *testing.T) {
	got := Filter(scenarioItems(), "Banners")
	if diff := cmp.Diff([]string{"item1", "item3"}, ids(got)); diff != "" {
		t.Fatalf("filtered ids mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterAllReturnsEveryItemInOrder(t *testing.T) {
	items := scenarioItems()
	got := Filter(items, AllFilter)
	if diff := cmp.Diff(ids(items), ids(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	got[0].Title = "changed"
	if items[0].Title == "changed" {
		t.Fatal("expected Filter to return a new slice")
	}
}

func TestFilterNormalizesCaseAndWhitespace(t *testing.T) {
	got := Filter(scenarioItems(), "  bAnNeRs ")
	if diff := cmp.Diff([]string{"item1", "item3"}, ids(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterMatchesCategorySlugs(t *testing.T) {
	items := []Item{
		{ID: "a", CategorySlugs: []string{"large-format"}},
		{ID: "b", Category: "Large Format"},
		{ID: "c", CategorySlugs: []string{"stickers"}},
	}
	got := Filter(items, "Large Format")
	if diff := cmp.Diff([]string{"a", "b"}, ids(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterNoMatchesIsEmptyNotNil(t *testing.T) {
	got := Filter(scenarioItems(), "Mugs")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestFilterIsSubsetOfInput(t *testing.T) {
	items := scenarioItems()
	for _, filter := range []string{"All", "Banners", "Apparel", "Mugs"} {
		for _, item := range Filter(items, filter) {
			if !Matches(item, filter) {
				t.Fatalf("item %s returned for %q but does not match", item.ID, filter)
			}
		}
	}
}

func TestSlugForm(t *testing.T) {
	if got := SlugForm("  Vehicle Wraps "); got != "vehicle-wraps" {
		t.Fatalf("expected vehicle-wraps, got %q", got)
	}
}

func TestSortByPriorityIsStable(t *testing.T) {
	items := []Item{
		{ID: "c", Priority: 3},
		{ID: "a1", Priority: 1},
		{ID: "b", Priority: 2},
		{ID: "a2", Priority: 1},
	}
	got := SortByPriority(items)
	if diff := cmp.Diff([]string{"a1", "a2", "b", "c"}, ids(got)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if items[0].ID != "c" {
		t.Fatal("expected input to stay untouched")
	}
}
