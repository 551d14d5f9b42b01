package portfolio_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-portfolio"
	gallerycmd "github.com/goliatone/go-portfolio/internal/commands/gallery"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/items"
)

func fixtureItems() []portfolio.Item {
	return []portfolio.Item{
		{ID: "fascia", Title: "Shopfront fascia", Category: "Banners", Priority: 1, Image: &portfolio.ImageRef{AssetID: "fascia"}},
		{ID: "tees", Title: "Team tees", Category: "Apparel", Priority: 2, Image: &portfolio.ImageRef{AssetID: "tees"}},
		{ID: "rollup", Title: "Roll-up", Category: "Banners", Priority: 3},
	}
}

func newModule(t *testing.T, cfg portfolio.Config) *portfolio.Module {
	t.Helper()
	module, err := portfolio.New(cfg, di.WithItemSource(items.NewMemorySource(fixtureItems()), "fixture"))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleViewFiltersAndOpensLightbox(t *testing.T) {
	cfg := portfolio.DefaultConfig()
	cfg.Gallery.PageSize = 2
	module := newModule(t, cfg)

	view := module.NewView()
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"All", "Banners", "Apparel"}, view.Categories()); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if err := view.SelectFilter("banners"); err != nil {
		t.Fatalf("select filter: %v", err)
	}
	if !view.Activate(1) {
		t.Fatal("expected lightbox to open")
	}
	box := view.Snapshot().Lightbox
	if !box.Open || !box.Unavailable || box.Item.Title != "Roll-up" {
		t.Fatalf("expected unavailable Roll-up image, got %+v", box)
	}
	if !view.HandleKey(portfolio.KeyArrowRight) {
		t.Fatal("expected arrow key to be handled while open")
	}
	box = view.Snapshot().Lightbox
	if box.Index != 0 || !strings.Contains(box.ImageURL, "/assets/fascia") {
		t.Fatalf("expected wrap to fascia, got %+v", box)
	}
	view.CloseLightbox()
	if view.HandleKey(portfolio.KeyArrowRight) {
		t.Fatal("expected arrow key to be ignored once closed")
	}
}

func TestModuleHTTPHandlerServesGalleryAndRenditions(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tees.png"))

	cfg := portfolio.DefaultConfig()
	cfg.Media.AssetDir = dir
	handler := newModule(t, cfg).HTTPHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gallery?filter=Apparel", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ActiveFilter string   `json:"active_filter"`
		Thumbnails   []string `json:"thumbnails"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ActiveFilter != "Apparel" || len(resp.Thumbnails) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !strings.HasPrefix(resp.Thumbnails[0], "http://localhost:8080/assets/tees?") {
		t.Fatalf("unexpected thumbnail url %q", resp.Thumbnails[0])
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/tees?w=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected rendition, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", ct)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		for y := range 20 {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(y), B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
}

func TestModuleWarmHandlerFetchesRenditions(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tees.png"))

	var handler atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next, ok := handler.Load().(http.Handler)
		if !ok {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := portfolio.DefaultConfig()
	cfg.Media.AssetDir = dir
	cfg.Media.BaseURL = server.URL
	module := newModule(t, cfg)
	handler.Store(module.HTTPHandler())

	var report gallerycmd.WarmReport
	warm := module.WarmHandler(func(r gallerycmd.WarmReport) { report = r })
	if err := warm.Execute(context.Background(), gallerycmd.WarmGalleryCommand{Width: 64}); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if report.Requested != 3 || report.Warmed != 1 || report.Failed != 1 || report.Unavailable != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}
