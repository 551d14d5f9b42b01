// Package commands builds the portfolio command handlers from a DI container
// and hands them to go-command registries, dispatchers and cron runners.
package commands

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	gallerycmd "github.com/goliatone/go-portfolio/internal/commands/gallery"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// ErrNoHandlers reports a registration that produced no handler.
var ErrNoHandlers = errors.New("commands: no command handlers registered")

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// WarmCron schedules the warm handler. Blank leaves it unscheduled.
	WarmCron string
	// ImportStore receives imported records. When nil the import handler is
	// only built for the database source, backed by the container repository.
	ImportStore gallerycmd.RecordStore
	OnWarm      func(gallerycmd.WarmReport)
	OnImport    func(gallerycmd.ImportReport)
}

// RegistrationResult captures the constructed handlers and dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
	Warm          *gallerycmd.WarmGalleryHandler
	Import        *gallerycmd.ImportItemsHandler
}

// RegisterContainerCommands builds the handlers exposed by container and
// registers them with the configured integrations.
func RegisterContainerCommands(ctx context.Context, container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}
	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}
	logger := logging.CommandLogger(provider)

	result := &RegistrationResult{
		Handlers:      make([]any, 0, 2),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if scheduled, ok := handler.(interface{ Scheduled() bool }); ok && !scheduled.Scheduled() {
				return
			}
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	source, _ := container.Source()
	warmDeps := gallerycmd.WarmDeps{
		Source:      source,
		Resolver:    container.Resolver(),
		Warmer:      container.Warmer(),
		PageSize:    cfg.Gallery.PageSize,
		Index:       container.CategoryIndex(),
		Format:      container.LightboxImageOptions().Format,
		Parallelism: cfg.Media.PreloadConcurrency,
		Logger:      logger,
		Report:      opts.OnWarm,
	}
	if expr := strings.TrimSpace(opts.WarmCron); expr != "" {
		warmDeps.Cron = command.HandlerConfig{Expression: expr}
	}
	result.Warm = gallerycmd.NewWarmGalleryHandler(warmDeps)
	register(result.Warm)

	store := opts.ImportStore
	if store == nil && strings.EqualFold(cfg.Source.Kind, runtimeconfig.SourceDatabase) {
		repo, err := container.Repository(ctx)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			store = repo
		}
	}
	if store != nil {
		result.Import = gallerycmd.NewImportItemsHandler(gallerycmd.ImportDeps{
			Store:  store,
			Logger: logger,
			Report: opts.OnImport,
		})
		register(result.Import)
	}

	if len(result.Handlers) == 0 {
		return result, errors.Join(ErrNoHandlers, errs)
	}
	return result, errs
}
