package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-portfolio/internal/gallery"
)

// NewRecordRepository creates the go-repository-bun repository for items.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord:          func() *Record { return &Record{} },
		GetID:              func(record *Record) uuid.UUID { return record.ID },
		SetID:              func(record *Record, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(record *Record) string { return record.Slug },
	})
}

// BunRepository stores portfolio items and serves them as an item source.
type BunRepository struct {
	repo repository.Repository[*Record]
	now  func() time.Time
}

var _ gallery.ItemSource = (*BunRepository)(nil)

// NewBunRepository creates an item repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates an item repository with caching support.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base, now: time.Now}
}

// Upsert creates the record or updates the row sharing its slug.
func (r *BunRepository) Upsert(ctx context.Context, record *Record) (*Record, error) {
	if record == nil || strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if strings.TrimSpace(record.Title) == "" {
		return nil, ErrTitleRequired
	}
	now := r.now().UTC()
	existing, err := r.GetBySlug(ctx, record.Slug)
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = now
		updated, err := r.repo.Update(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, "item", record.Slug)
		}
		return updated, nil
	case isNotFound(err):
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		record.CreatedAt = now
		record.UpdatedAt = now
		return r.repo.Create(ctx, record)
	default:
		return nil, err
	}
}

// GetBySlug returns the record with slug.
func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Record, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "item", slug)
	}
	return record, nil
}

// List returns all records by priority, oldest first within a priority.
func (r *BunRepository) List(ctx context.Context) ([]*Record, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.priority ASC, ?TableAlias.created_at ASC")
	}))
	return records, err
}

// Delete removes the record with slug.
func (r *BunRepository) Delete(ctx context.Context, slug string) error {
	record, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return r.repo.Delete(ctx, record)
}

// FetchItems implements gallery.ItemSource.
func (r *BunRepository) FetchItems(ctx context.Context) ([]gallery.Item, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]gallery.Item, 0, len(records))
	for _, record := range records {
		out = append(out, record.Item())
	}
	return gallery.SortByPriority(out), nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
