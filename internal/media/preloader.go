package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	defaultPreloadConcurrency = 4
	defaultPreloadTimeout     = 10 * time.Second
)

// WarmerOption configures a Warmer.
type WarmerOption func(*Warmer)

// WithHTTPClient overrides the client used to fetch images.
func WithHTTPClient(client *http.Client) WarmerOption {
	return func(w *Warmer) {
		if client != nil {
			w.client = client
		}
	}
}

// WithConcurrency bounds the number of in-flight fetches. Requests beyond the
// bound are dropped.
func WithConcurrency(n int) WarmerOption {
	return func(w *Warmer) {
		if n > 0 {
			w.limit = int64(n)
		}
	}
}

// WithFetchTimeout bounds a single fetch.
func WithFetchTimeout(timeout time.Duration) WarmerOption {
	return func(w *Warmer) {
		if timeout > 0 {
			w.timeout = timeout
		}
	}
}

// WithWarmerLogger sets the logger.
func WithWarmerLogger(logger interfaces.Logger) WarmerOption {
	return func(w *Warmer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Warmer is a best-effort Preloader. Each URL is fetched in the background at
// most once at a time; successful fetches are remembered so repeated
// navigation does not refetch. Errors are logged at debug level and dropped.
type Warmer struct {
	client  *http.Client
	limit   int64
	timeout time.Duration
	logger  interfaces.Logger

	sem    *semaphore.Weighted
	flight singleflight.Group
	wg     sync.WaitGroup

	mu     sync.Mutex
	warmed map[string]struct{}
}

var _ interfaces.Preloader = (*Warmer)(nil)

// NewWarmer builds a Warmer.
func NewWarmer(opts ...WarmerOption) *Warmer {
	w := &Warmer{
		client:  http.DefaultClient,
		limit:   defaultPreloadConcurrency,
		timeout: defaultPreloadTimeout,
		logger:  logging.NoOp(),
		warmed:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	w.sem = semaphore.NewWeighted(w.limit)
	return w
}

// Preload schedules a background fetch of url and returns immediately. The
// fetch outlives cancellation of ctx.
func (w *Warmer) Preload(ctx context.Context, url string) {
	url = strings.TrimSpace(url)
	if w == nil || url == "" || w.Warmed(url) {
		return
	}
	if !w.sem.TryAcquire(1) {
		w.logger.Trace("preload.dropped", "url", url)
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.Release(1)
		_, err, _ := w.flight.Do(url, func() (any, error) {
			return nil, w.fetch(ctx, url)
		})
		if err != nil {
			w.logger.Debug("preload.failed", "url", url, "error", err)
			return
		}
		w.mu.Lock()
		w.warmed[url] = struct{}{}
		w.mu.Unlock()
	}()
}

// Warm fetches url synchronously and reports the error. Used by commands that
// warm a whole page up front.
func (w *Warmer) Warm(ctx context.Context, url string) error {
	if w.Warmed(url) {
		return nil
	}
	_, err, _ := w.flight.Do(url, func() (any, error) {
		return nil, w.fetch(ctx, url)
	})
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.warmed[url] = struct{}{}
	w.mu.Unlock()
	return nil
}

// Warmed reports whether url has been fetched successfully.
func (w *Warmer) Warmed(url string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.warmed[url]
	return ok
}

// Wait blocks until every scheduled fetch has finished.
func (w *Warmer) Wait() {
	w.wg.Wait()
}

func (w *Warmer) fetch(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("media: preload %s: status %d", url, resp.StatusCode)
	}
	return nil
}
