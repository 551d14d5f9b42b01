package items

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

//go:embed schema/feed.json
var feedSchemaJSON []byte

const (
	feedSchemaURL       = "portfolio-feed.json"
	defaultFeedTimeout  = 10 * time.Second
	maxFeedBytes        = 8 << 20
	feedSourceName      = "feed"
	feedAcceptMediaType = "application/json"
)

var (
	feedSchemaOnce sync.Once
	feedSchema     *jsonschema.Schema
	feedSchemaErr  error
)

// FeedOptions configures a FeedSource.
type FeedOptions struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
	Headers map[string]string
	Logger  interfaces.Logger
}

// FeedSource reads the complete portfolio export of the CMS as a JSON array.
type FeedSource struct {
	url     string
	timeout time.Duration
	client  *http.Client
	headers map[string]string
	logger  interfaces.Logger
}

var _ gallery.ItemSource = (*FeedSource)(nil)

type feedItem struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	CategorySlugs []string             `json:"category_slugs"`
	Priority      int                  `json:"priority"`
	Image         *interfaces.ImageRef `json:"image"`
}

// NewFeedSource builds a feed source.
func NewFeedSource(opts FeedOptions) *FeedSource {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &FeedSource{
		url:     strings.TrimSpace(opts.URL),
		timeout: timeout,
		client:  client,
		headers: opts.Headers,
		logger:  logging.WithSourceContext(logging.EnsureLogger(opts.Logger), feedSourceName, opts.URL, "fetch"),
	}
}

// FetchItems downloads, validates and decodes the feed.
func (f *FeedSource) FetchItems(ctx context.Context) ([]gallery.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("items: build feed request: %w", err)
	}
	req.Header.Set("Accept", feedAcceptMediaType)
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("items: fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrFeedStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("items: read feed: %w", err)
	}

	items, err := DecodeFeed(body)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("items.feed.fetched", "items", len(items), "duration", time.Since(started))
	return items, nil
}

// DecodeFeed validates body against the feed schema and converts it into
// priority-ordered gallery items.
func DecodeFeed(body []byte) ([]gallery.Item, error) {
	schema, err := compiledFeedSchema()
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedInvalid, err)
	}

	var raw []feedItem
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedInvalid, err)
	}
	out := make([]gallery.Item, 0, len(raw))
	for _, entry := range raw {
		out = append(out, entry.toItem())
	}
	return gallery.SortByPriority(out), nil
}

func (f feedItem) toItem() gallery.Item {
	item := gallery.Item{
		ID:            strings.TrimSpace(f.ID),
		Title:         strings.TrimSpace(f.Title),
		Description:   strings.TrimSpace(f.Description),
		Category:      strings.TrimSpace(f.Category),
		CategorySlugs: normalizeSlugs(f.CategorySlugs),
		Priority:      f.Priority,
	}
	if f.Image != nil && strings.TrimSpace(f.Image.AssetID) != "" {
		ref := *f.Image
		ref.AssetID = strings.TrimSpace(ref.AssetID)
		item.Image = &ref
	}
	return item
}

func normalizeSlugs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.ToLower(strings.TrimSpace(value)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func compiledFeedSchema() (*jsonschema.Schema, error) {
	feedSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(feedSchemaURL, bytes.NewReader(feedSchemaJSON)); err != nil {
			feedSchemaErr = fmt.Errorf("items: load feed schema: %w", err)
			return
		}
		feedSchema, feedSchemaErr = compiler.Compile(feedSchemaURL)
	})
	return feedSchema, feedSchemaErr
}
