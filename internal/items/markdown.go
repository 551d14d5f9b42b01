package items

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/identity"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const markdownSourceName = "markdown"

// Document is a parsed markdown item file.
type Document struct {
	Path  string
	Slug  string
	Draft bool
	Item  gallery.Item
}

type itemFrontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Categories  []string `yaml:"categories"`
	Priority    int      `yaml:"priority"`
	Image       string   `yaml:"image"`
	Alt         string   `yaml:"alt"`
	Draft       bool     `yaml:"draft"`
}

// MarkdownOptions configures a MarkdownSource.
type MarkdownOptions struct {
	Dir           string
	FS            fs.FS
	IncludeDrafts bool
	Logger        interfaces.Logger
}

// MarkdownSource loads one item per *.md file. Frontmatter carries the item
// fields; the body, rendered with goldmark, becomes the description unless
// the frontmatter sets one.
type MarkdownSource struct {
	fsys          fs.FS
	dir           string
	includeDrafts bool
	engine        goldmark.Markdown
	logger        interfaces.Logger
}

var _ gallery.ItemSource = (*MarkdownSource)(nil)

// NewMarkdownSource builds a source over opts.FS, or over opts.Dir when FS is nil.
func NewMarkdownSource(opts MarkdownOptions) *MarkdownSource {
	fsys := opts.FS
	if fsys == nil {
		fsys = os.DirFS(opts.Dir)
	}
	return &MarkdownSource{
		fsys:          fsys,
		dir:           opts.Dir,
		includeDrafts: opts.IncludeDrafts,
		engine:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:        logging.WithSourceContext(logging.EnsureLogger(opts.Logger), markdownSourceName, opts.Dir, "fetch"),
	}
}

// Dir returns the directory the source reads from, if any.
func (m *MarkdownSource) Dir() string { return m.dir }

// FetchItems parses every markdown file and returns the items by priority.
func (m *MarkdownSource) FetchItems(ctx context.Context) ([]gallery.Item, error) {
	docs, err := m.Documents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]gallery.Item, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Item)
	}
	return gallery.SortByPriority(out), nil
}

// Documents parses every markdown file in path order. Drafts are skipped
// unless IncludeDrafts is set, and files that fail to parse are logged and
// skipped. Two files resolving to the same slug fail with ErrDuplicateSlug.
func (m *MarkdownSource) Documents(ctx context.Context) ([]Document, error) {
	var docs []Document
	seen := make(map[string]string)
	err := fs.WalkDir(m.fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !strings.EqualFold(path.Ext(name), ".md") {
			return nil
		}
		data, err := fs.ReadFile(m.fsys, name)
		if err != nil {
			return err
		}
		doc, err := m.Parse(name, data)
		if err != nil {
			m.logger.Warn("items.markdown.invalid_skipped", "file", name, "error", err)
			return nil
		}
		if doc.Draft && !m.includeDrafts {
			m.logger.Debug("items.markdown.draft_skipped", "file", name)
			return nil
		}
		if previous, ok := seen[doc.Slug]; ok {
			return fmt.Errorf("%s and %s: %w: %s", previous, name, ErrDuplicateSlug, doc.Slug)
		}
		seen[doc.Slug] = name
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("items: load markdown: %w", err)
	}
	return docs, nil
}

// Parse converts one markdown file into a Document.
func (m *MarkdownSource) Parse(name string, data []byte) (Document, error) {
	var meta itemFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("%s: parse frontmatter: %w", name, err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		return Document{}, fmt.Errorf("%s: %w", name, ErrTitleRequired)
	}
	slugValue := Slugify(strings.TrimSpace(meta.Slug))
	if slugValue == "" {
		slugValue = pathSlug(name)
	}
	if slugValue == "" {
		return Document{}, fmt.Errorf("%s: %w", name, ErrSlugRequired)
	}

	description := strings.TrimSpace(meta.Description)
	if description == "" {
		if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
			var buf bytes.Buffer
			if err := m.engine.Convert(trimmed, &buf); err != nil {
				return Document{}, fmt.Errorf("%s: render body: %w", name, err)
			}
			description = strings.TrimSpace(buf.String())
		}
	}

	item := gallery.Item{
		ID:            identity.ItemUUID(slugValue).String(),
		Title:         title,
		Description:   description,
		Category:      strings.TrimSpace(meta.Category),
		CategorySlugs: CategorySlugs(meta.Categories),
		Priority:      meta.Priority,
	}
	if assetID := strings.TrimSpace(meta.Image); assetID != "" {
		item.Image = &interfaces.ImageRef{AssetID: assetID, Alt: strings.TrimSpace(meta.Alt)}
	}
	return Document{Path: name, Slug: slugValue, Draft: meta.Draft, Item: item}, nil
}

// pathSlug derives a slug from the file path relative to the source root so
// that apparel/sample.md and banners/sample.md stay distinct.
func pathSlug(name string) string {
	trimmed := strings.TrimSuffix(path.Clean(name), path.Ext(name))
	parts := make([]string, 0, 4)
	for _, segment := range strings.Split(trimmed, "/") {
		if part := Slugify(segment); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "-")
}
