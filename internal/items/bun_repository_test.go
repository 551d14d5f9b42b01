package items_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-portfolio/internal/items"
	"github.com/goliatone/go-portfolio/pkg/testsupport"
)

func newTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewSQLiteNamedMemoryDB(name)
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	if err := items.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBunRepositoryUpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := items.NewBunRepository(newTestDB(t, "items_upsert"))

	for _, record := range []*items.Record{
		{Slug: "rollup", Title: "Roll-up", Category: "Banners", Priority: 3, ImageAssetID: "rollup"},
		{Slug: "shopfront", Title: "Shopfront", Category: "Banners", Priority: 1, CategorySlugs: "large-format,outdoor"},
		{Slug: "shirts", Title: "Team shirts", Category: "Apparel", Priority: 2},
	} {
		if _, err := repo.Upsert(ctx, record); err != nil {
			t.Fatalf("upsert %s: %v", record.Slug, err)
		}
	}

	first, err := repo.GetBySlug(ctx, "shopfront")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	updated, err := repo.Upsert(ctx, &items.Record{Slug: "shopfront", Title: "Shopfront banner", Priority: 1})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != first.ID {
		t.Fatalf("expected upsert to keep id %s, got %s", first.ID, updated.ID)
	}

	list, err := repo.FetchItems(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	titles := make([]string, 0, len(list))
	for _, item := range list {
		titles = append(titles, item.Title)
	}
	if diff := cmp.Diff([]string{"Shopfront banner", "Team shirts", "Roll-up"}, titles); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if list[2].Image == nil || list[2].Image.AssetID != "rollup" {
		t.Fatalf("expected image on roll-up, got %+v", list[2].Image)
	}
}

func TestBunRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := items.NewBunRepository(newTestDB(t, "items_not_found"))

	_, err := repo.GetBySlug(ctx, "missing")
	var notFound *items.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on delete, got %v", err)
	}
}

func TestBunRepositoryValidation(t *testing.T) {
	repo := items.NewBunRepository(newTestDB(t, "items_validation"))
	if _, err := repo.Upsert(context.Background(), &items.Record{Title: "No slug"}); !errors.Is(err, items.ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
	if _, err := repo.Upsert(context.Background(), &items.Record{Slug: "x"}); !errors.Is(err, items.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestBunRepositoryWithCache(t *testing.T) {
	ctx := context.Background()
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := items.NewBunRepositoryWithCache(newTestDB(t, "items_cache"), cacheService, repocache.NewDefaultKeySerializer())

	if _, err := repo.Upsert(ctx, &items.Record{Slug: "mugs", Title: "Mugs", Priority: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for range 2 {
		got, err := repo.GetBySlug(ctx, "mugs")
		if err != nil || got.Title != "Mugs" {
			t.Fatalf("expected cached read, got %+v (%v)", got, err)
		}
	}
}

func TestOpenDBUnsupportedDriver(t *testing.T) {
	if _, err := items.OpenDB("oracle", ""); !errors.Is(err, items.ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
}
