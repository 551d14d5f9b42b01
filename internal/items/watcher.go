package items

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const defaultWatchDebounce = 250 * time.Millisecond

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Dir      string
	Debounce time.Duration
	Logger   interfaces.Logger
}

// Watcher reports changes to markdown files in a directory. Bursts of events
// (editors writing temp files, renames) collapse into one notification after
// the debounce window.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   interfaces.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewWatcher creates a watcher over opts.Dir. Call Start to begin watching.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("items: create watcher: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return &Watcher{
		dir:      opts.Dir,
		debounce: debounce,
		logger:   logging.WithSourceContext(logging.EnsureLogger(opts.Logger), markdownSourceName, opts.Dir, "watch"),
		watcher:  fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the directory and calls onChange after each settled burst of
// markdown changes. It returns once the watch is registered; events are
// handled until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context, onChange func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("items: watch %s: %w", w.dir, err)
	}
	w.running = true
	go w.run(ctx, onChange)
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	err := w.watcher.Close()
	if running {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context, onChange func()) {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.logger.Trace("items.watch.event", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("items.watch.error", "error", err)
		case <-timer.C:
			w.logger.Debug("items.watch.changed")
			if onChange != nil {
				onChange()
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
