package items

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/identity"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Record is the stored form of a portfolio item.
type Record struct {
	bun.BaseModel `bun:"table:portfolio_items,alias:pi"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug          string    `bun:"slug,notnull,unique" json:"slug"`
	Title         string    `bun:"title,notnull" json:"title"`
	Description   string    `bun:"description" json:"description,omitempty"`
	Category      string    `bun:"category" json:"category,omitempty"`
	CategorySlugs string    `bun:"category_slugs" json:"category_slugs,omitempty"`
	Priority      int       `bun:"priority,notnull,default:0" json:"priority"`
	ImageAssetID  string    `bun:"image_asset_id" json:"image_asset_id,omitempty"`
	ImageAlt      string    `bun:"image_alt" json:"image_alt,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

const slugSeparator = ","

// Item converts the record into a gallery item.
func (r *Record) Item() gallery.Item {
	item := gallery.Item{
		ID:          r.ID.String(),
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
	}
	if r.CategorySlugs != "" {
		item.CategorySlugs = strings.Split(r.CategorySlugs, slugSeparator)
	}
	if r.ImageAssetID != "" {
		item.Image = &interfaces.ImageRef{AssetID: r.ImageAssetID, Alt: r.ImageAlt}
	}
	return item
}

// RecordFromDocument builds a record for a parsed markdown document. The ID is
// derived from the slug so repeated imports update the same row.
func RecordFromDocument(doc Document) *Record {
	record := &Record{
		ID:            identity.ItemUUID(doc.Slug),
		Slug:          doc.Slug,
		Title:         doc.Item.Title,
		Description:   doc.Item.Description,
		Category:      doc.Item.Category,
		CategorySlugs: strings.Join(doc.Item.CategorySlugs, slugSeparator),
		Priority:      doc.Item.Priority,
	}
	if doc.Item.Image != nil {
		record.ImageAssetID = doc.Item.Image.AssetID
		record.ImageAlt = doc.Item.Image.Alt
	}
	return record
}
