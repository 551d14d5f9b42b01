package items_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-portfolio/internal/items"
)

func TestWatcherNotifiesOnMarkdownChange(t *testing.T) {
	dir := t.TempDir()
	watcher, err := items.NewWatcher(items.WatcherOptions{Dir: dir, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = watcher.Close() })

	changed := make(chan struct{}, 4)
	if err := watcher.Start(context.Background(), func() { changed <- struct{}{} }); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "banner.md"), []byte("---\ntitle: Banner\n---\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	watcher, err := items.NewWatcher(items.WatcherOptions{Dir: filepath.Join(t.TempDir(), "missing")})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer watcher.Close()
	if err := watcher.Start(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
