package gallerycmd

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/items"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const importItemsMessageType = "portfolio.items.import"

var (
	// ErrWarmDependenciesMissing reports a warm handler built without a source,
	// resolver or warmer.
	ErrWarmDependenciesMissing = errors.New("gallerycmd: warm requires a source, resolver and warmer")
	// ErrImportStoreMissing reports an import handler built without a store.
	ErrImportStoreMissing = errors.New("gallerycmd: import requires an item store")
)

// ImportItemsCommand upserts every markdown item under Dir into the item store.
type ImportItemsCommand struct {
	Dir           string `json:"dir"`
	IncludeDrafts bool   `json:"include_drafts,omitempty"`
	DryRun        bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportItemsCommand) Type() string { return importItemsMessageType }

// Validate implements command.Message.
func (m ImportItemsCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Dir) == "" {
		errs["dir"] = validation.NewError("portfolio.items.import.dir_required", "dir must point at a markdown directory")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportReport summarises an import run.
type ImportReport struct {
	Dir      string
	DryRun   bool
	Slugs    []string
	Imported int
}

// RecordStore persists item records.
type RecordStore interface {
	Upsert(ctx context.Context, record *items.Record) (*items.Record, error)
}

// ImportDeps wires the import handler.
type ImportDeps struct {
	Store  RecordStore
	Logger interfaces.Logger
	Report func(ImportReport)
}

// ImportItemsHandler executes ImportItemsCommand.
type ImportItemsHandler struct {
	inner *commands.Handler[ImportItemsCommand]
}

// NewImportItemsHandler builds the handler.
func NewImportItemsHandler(deps ImportDeps, opts ...commands.HandlerOption[ImportItemsCommand]) *ImportItemsHandler {
	logger := logging.EnsureLogger(deps.Logger)

	exec := func(ctx context.Context, msg ImportItemsCommand) error {
		if deps.Store == nil && !msg.DryRun {
			return ErrImportStoreMissing
		}
		source := items.NewMarkdownSource(items.MarkdownOptions{
			Dir:           msg.Dir,
			IncludeDrafts: msg.IncludeDrafts,
			Logger:        logger,
		})
		docs, err := source.Documents(ctx)
		if err != nil {
			return err
		}

		report := ImportReport{Dir: msg.Dir, DryRun: msg.DryRun}
		for _, doc := range docs {
			report.Slugs = append(report.Slugs, doc.Slug)
			if msg.DryRun {
				continue
			}
			if _, err := deps.Store.Upsert(ctx, items.RecordFromDocument(doc)); err != nil {
				return err
			}
			report.Imported++
		}

		entry := logging.WithSourceContext(logger, "markdown", msg.Dir, "import")
		if msg.DryRun {
			entry.Info("items.import.dry_run", "documents", len(docs))
		} else {
			entry.Info("items.import.completed", "imported", report.Imported)
		}
		if deps.Report != nil {
			deps.Report(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportItemsCommand]{
		commands.WithLogger[ImportItemsCommand](logger),
		commands.WithOperation[ImportItemsCommand]("items.import"),
	}
	return &ImportItemsHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[ImportItemsCommand].
func (h *ImportItemsHandler) Execute(ctx context.Context, msg ImportItemsCommand) error {
	return h.inner.Execute(ctx, msg)
}
