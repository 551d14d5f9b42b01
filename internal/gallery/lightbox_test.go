package gallery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type stubResolver struct {
	calls int
}

func (s *stubResolver) Resolve(ref *interfaces.ImageRef, opts interfaces.ImageOptions) (string, error) {
	s.calls++
	if ref == nil || ref.AssetID == "" {
		return "", errors.New("missing ref")
	}
	if ref.AssetID == "broken" {
		return "", errors.New("malformed ref")
	}
	return fmt.Sprintf("/assets/%s?w=%d", ref.AssetID, opts.Width), nil
}

type recordingPreloader struct {
	urls []string
}

func (r *recordingPreloader) Preload(_ context.Context, url string) {
	r.urls = append(r.urls, url)
}

func imageItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:       fmt.Sprintf("item-%d", i),
			Title:    fmt.Sprintf("Item %d", i),
			Image:    &interfaces.ImageRef{AssetID: fmt.Sprintf("img-%d", i)},
			Priority: i,
		}
	}
	return items
}

func TestLightboxOpenEmptyStaysClosed(t *testing.T) {
	lock := NewScrollLock(nil, nil)
	lb := NewLightbox(nil, WithScrollLock(lock))
	if lb.Open(0) {
		t.Fatal("expected Open on empty sequence to fail")
	}
	if lb.IsOpen() || lock.Locked() {
		t.Fatal("expected lightbox closed and scroll unlocked")
	}
	if state := lb.Snapshot(); state.Open || state.Item != nil {
		t.Fatalf("unexpected snapshot %+v", state)
	}
}

func TestLightboxOpenClampsStartIndex(t *testing.T) {
	lb := NewLightbox(imageItems(3))
	lb.Open(7)
	if index, open := lb.Index(); !open || index != 2 {
		t.Fatalf("expected open at 2, got %d (%v)", index, open)
	}
	lb.Close()
	lb.Open(-4)
	if index, _ := lb.Index(); index != 0 {
		t.Fatalf("expected open at 0, got %d", index)
	}
}

func TestLightboxWrapAround(t *testing.T) {
	lb := NewLightbox(imageItems(3))
	lb.Open(2)
	lb.Next()
	if index, _ := lb.Index(); index != 0 {
		t.Fatalf("expected next from 2 to wrap to 0, got %d", index)
	}
	lb.Prev()
	if index, _ := lb.Index(); index != 2 {
		t.Fatalf("expected prev from 0 to wrap to 2, got %d", index)
	}
}

func TestLightboxNextPrevClosure(t *testing.T) {
	for count := 1; count <= 7; count++ {
		for start := 0; start < count; start++ {
			lb := NewLightbox(imageItems(count))
			lb.Open(start)
			for range count {
				lb.Next()
			}
			if index, _ := lb.Index(); index != start {
				t.Fatalf("count=%d start=%d: next x%d landed on %d", count, start, count, index)
			}
			for range count {
				lb.Prev()
			}
			if index, _ := lb.Index(); index != start {
				t.Fatalf("count=%d start=%d: prev x%d landed on %d", count, start, count, index)
			}
		}
	}
}

func TestLightboxSingleItemNavigationIsNoop(t *testing.T) {
	lb := NewLightbox(imageItems(1))
	lb.Open(0)
	if lb.Next() || lb.Prev() {
		t.Fatal("expected next/prev to be no-ops with one item")
	}
	state := lb.Snapshot()
	if state.HasNext || state.HasPrev {
		t.Fatalf("expected navigation disabled, got %+v", state)
	}
}

func TestLightboxKeysIgnoredWhileClosed(t *testing.T) {
	lb := NewLightbox(imageItems(3))
	before := lb.Snapshot()
	for _, key := range []string{KeyEscape, KeyArrowRight, KeyArrowLeft} {
		if lb.HandleKey(key) {
			t.Fatalf("expected %s to be ignored while closed", key)
		}
	}
	if diff := cmp.Diff(before, lb.Snapshot()); diff != "" {
		t.Fatalf("state changed while closed (-before +after):\n%s", diff)
	}
}

func TestLightboxKeyBindings(t *testing.T) {
	lb := NewLightbox(imageItems(3))
	lb.Open(0)

	lb.HandleKey(KeyArrowRight)
	if index, _ := lb.Index(); index != 1 {
		t.Fatalf("expected ArrowRight to move to 1, got %d", index)
	}
	lb.HandleKey(KeyArrowLeft)
	lb.HandleKey(KeyArrowLeft)
	if index, _ := lb.Index(); index != 2 {
		t.Fatalf("expected ArrowLeft twice to wrap to 2, got %d", index)
	}
	if lb.HandleKey("Enter") {
		t.Fatal("expected unbound key to be unhandled")
	}
	if !lb.HandleKey(KeyEscape) || lb.IsOpen() {
		t.Fatal("expected Escape to close")
	}
}

func TestLightboxKeyHandlerScopedToOpenState(t *testing.T) {
	keys := NewKeyDispatcher()
	lb := NewLightbox(imageItems(3), WithKeyRegistrar(keys))

	if keys.Dispatch(KeyArrowRight) {
		t.Fatal("expected no handler before open")
	}
	for range 3 {
		lb.Open(0)
		if keys.Len() != 1 {
			t.Fatalf("expected one registered handler while open, got %d", keys.Len())
		}
		if !keys.Dispatch(KeyArrowRight) {
			t.Fatal("expected dispatcher to route to lightbox")
		}
		if !keys.Dispatch(KeyEscape) {
			t.Fatal("expected Escape to be handled")
		}
		if keys.Len() != 0 {
			t.Fatalf("expected handler released on close, got %d", keys.Len())
		}
	}
}

func TestLightboxScrollLockReleasedOnceAcrossExitPaths(t *testing.T) {
	suspended, restored := 0, 0
	lock := NewScrollLock(func() { suspended++ }, func() { restored++ })
	lb := NewLightbox(imageItems(3), WithScrollLock(lock))

	lb.Open(1)
	lb.HandleKey(KeyEscape)
	lb.Close()
	lb.HandleKey(KeyEscape)

	lb.Open(0)
	lb.Replace(nil)
	lb.Close()

	if suspended != 2 || restored != 2 {
		t.Fatalf("expected 2 suspend/restore pairs, got %d/%d", suspended, restored)
	}
	if lock.Locked() {
		t.Fatal("expected scroll unlocked")
	}
}

func TestLightboxScrollLockSharedWithOtherHolder(t *testing.T) {
	restored := 0
	lock := NewScrollLock(nil, func() { restored++ })
	other := lock.Acquire()

	lb := NewLightbox(imageItems(2), WithScrollLock(lock))
	lb.Open(0)
	lb.Close()
	if restored != 0 || !lock.Locked() {
		t.Fatal("expected lock to stay held by the other guard")
	}
	other.Release()
	other.Release()
	if restored != 1 || lock.Locked() {
		t.Fatalf("expected single restore, got %d", restored)
	}
}

func TestLightboxPreloadsAdjacentImages(t *testing.T) {
	preloader := &recordingPreloader{}
	lb := NewLightbox(imageItems(4),
		WithResolver(&stubResolver{}),
		WithPreloader(preloader),
		WithImageOptions(interfaces.ImageOptions{Width: 1200}),
	)

	lb.Open(0)
	want := []string{"/assets/img-1?w=1200", "/assets/img-3?w=1200"}
	if diff := cmp.Diff(want, preloader.urls); diff != "" {
		t.Fatalf("preload mismatch (-want +got):\n%s", diff)
	}

	preloader.urls = nil
	lb.Next()
	want = []string{"/assets/img-2?w=1200", "/assets/img-0?w=1200"}
	if diff := cmp.Diff(want, preloader.urls); diff != "" {
		t.Fatalf("preload mismatch (-want +got):\n%s", diff)
	}
}

func TestLightboxPreloadsOnceWhenNeighboursCoincide(t *testing.T) {
	preloader := &recordingPreloader{}
	lb := NewLightbox(imageItems(2), WithResolver(&stubResolver{}), WithPreloader(preloader))
	lb.Open(0)
	if len(preloader.urls) != 1 {
		t.Fatalf("expected a single preload for two items, got %v", preloader.urls)
	}
}

func TestLightboxLoadedFlagResetsOnNavigation(t *testing.T) {
	lb := NewLightbox(imageItems(3), WithResolver(&stubResolver{}))
	lb.Open(0)
	first := lb.Snapshot()
	if first.Loaded {
		t.Fatal("expected loaded=false right after open")
	}
	if !lb.MarkLoaded(first.ImageURL) || !lb.Snapshot().Loaded {
		t.Fatal("expected MarkLoaded to set the flag")
	}

	lb.Next()
	if lb.Snapshot().Loaded {
		t.Fatal("expected loaded flag reset after navigation")
	}
	if lb.MarkLoaded(first.ImageURL) {
		t.Fatal("expected stale completion to be ignored")
	}
	if lb.Snapshot().Loaded {
		t.Fatal("stale completion must not flip the flag")
	}
}

func TestLightboxUnavailableImage(t *testing.T) {
	items := imageItems(3)
	items[1].Image = nil
	items[2].Image = &interfaces.ImageRef{AssetID: "broken"}
	lb := NewLightbox(items, WithResolver(&stubResolver{}))

	lb.Open(1)
	state := lb.Snapshot()
	if !state.Unavailable || state.ImageURL != "" {
		t.Fatalf("expected unavailable state for missing image, got %+v", state)
	}
	if lb.MarkLoaded("") {
		t.Fatal("expected MarkLoaded to be rejected for unavailable image")
	}

	lb.Next()
	if state := lb.Snapshot(); !state.Unavailable {
		t.Fatalf("expected unavailable state for malformed ref, got %+v", state)
	}

	lb.Next()
	if state := lb.Snapshot(); state.Unavailable || state.ImageURL == "" {
		t.Fatalf("expected resolvable image, got %+v", state)
	}
}

func TestLightboxReplaceClampsAndForceCloses(t *testing.T) {
	restored := 0
	lock := NewScrollLock(nil, func() { restored++ })
	lb := NewLightbox(imageItems(5), WithScrollLock(lock))
	lb.Open(4)

	lb.Replace(imageItems(2))
	if index, open := lb.Index(); !open || index != 1 {
		t.Fatalf("expected clamp to 1, got %d (%v)", index, open)
	}

	lb.Replace(imageItems(4))
	if index, _ := lb.Index(); index != 1 {
		t.Fatalf("expected index preserved at 1, got %d", index)
	}

	lb.Replace(nil)
	if lb.IsOpen() {
		t.Fatal("expected empty replacement to force close")
	}
	if restored != 1 {
		t.Fatalf("expected scroll restored once, got %d", restored)
	}
}

func TestLightboxCloseWhenClosedIsNoop(t *testing.T) {
	lb := NewLightbox(imageItems(2))
	if lb.Close() {
		t.Fatal("expected Close on closed lightbox to report false")
	}
}
