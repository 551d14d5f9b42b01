package gallery

import (
	"errors"
	"fmt"
	"testing"
)

func numbered(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("item-%02d", i), Priority: i}
	}
	return items
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, size, want int
	}{
		{0, 9, 1},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{20, 9, 3},
		{5, 0, 1},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.count, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.count, tc.size, got, tc.want)
		}
	}
}

func TestPaginatorClampsWhenSubsetShrinks(t *testing.T) {
	p := NewPaginator(9)
	if total := TotalPages(20, p.Size()); total != 3 {
		t.Fatalf("expected 3 pages, got %d", total)
	}
	if got := p.GoTo(5, 20); got != 3 {
		t.Fatalf("expected GoTo(5) to clamp to 3, got %d", got)
	}
	if got := p.Sync(2); got != 1 {
		t.Fatalf("expected page 1 after shrinking to 2 items, got %d", got)
	}
}

func TestPaginatorNextPrevDoNotWrap(t *testing.T) {
	p := NewPaginator(9)
	if p.Prev() {
		t.Fatal("expected Prev on first page to be a no-op")
	}
	if !p.Next(20) || !p.Next(20) {
		t.Fatal("expected two successful Next calls")
	}
	if p.Next(20) {
		t.Fatal("expected Next on last page to be a no-op")
	}
	if p.Current() != 3 {
		t.Fatalf("expected page 3, got %d", p.Current())
	}
	p.Reset()
	if p.Current() != 1 {
		t.Fatalf("expected reset to page 1, got %d", p.Current())
	}
}

func TestPaginateLastPage(t *testing.T) {
	page := Paginate(numbered(20), 3, 9)
	if page.Current != 3 || page.Total != 3 {
		t.Fatalf("unexpected page %d/%d", page.Current, page.Total)
	}
	if len(page.Items) != 2 || page.Start != 18 {
		t.Fatalf("expected 2 items starting at 18, got %d at %d", len(page.Items), page.Start)
	}
	if page.HasNext() || !page.HasPrev() {
		t.Fatal("unexpected next/prev flags on last page")
	}
}

func TestPaginateEmptySequence(t *testing.T) {
	page := Paginate(nil, 4, 9)
	if page.Current != 1 || page.Total != 1 || len(page.Items) != 0 {
		t.Fatalf("unexpected empty page %+v", page)
	}
}

func TestPageAbsoluteIndex(t *testing.T) {
	page := Paginate(numbered(20), 2, 9)
	index, err := page.AbsoluteIndex(4)
	if err != nil || index != 13 {
		t.Fatalf("expected index 13, got %d (%v)", index, err)
	}
	if _, err := page.AbsoluteIndex(9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestPaginatorInvariantHolds(t *testing.T) {
	p := NewPaginator(4)
	for count := 0; count <= 13; count++ {
		for _, target := range []int{-3, 0, 1, 2, 3, 4, 99} {
			current := p.GoTo(target, count)
			total := TotalPages(count, 4)
			if current < 1 || current > total {
				t.Fatalf("count=%d target=%d: page %d outside [1,%d]", count, target, current, total)
			}
		}
	}
}
