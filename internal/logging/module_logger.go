package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	rootModule     = "portfolio"
	galleryModule  = "portfolio.gallery"
	lightboxModule = "portfolio.lightbox"
	mediaModule    = "portfolio.media"
	itemsModule    = "portfolio.items"
	httpModule     = "portfolio.http"
	tuiModule      = "portfolio.tui"
	commandsModule = "portfolio.commands"
)

const (
	fieldSource  = "source"
	fieldPath    = "path"
	fieldAction  = "action"
	fieldFilter  = "filter"
	fieldAssetID = "asset_id"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// GalleryLogger is used by gallery views.
func GalleryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, galleryModule)
}

// LightboxLogger is used by lightbox controllers.
func LightboxLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lightboxModule)
}

// MediaLogger is used by the resolver, preloader and rendition handler.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// ItemsLogger is used by item sources.
func ItemsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, itemsModule)
}

// HTTPLogger is used by the HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// TUILogger is used by the terminal browser.
func TUILogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tuiModule)
}

// CommandLogger is used by command handlers.
func CommandLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithSourceContext adds item source fields (source name, file path, action).
// Blank values are skipped.
func WithSourceContext(logger interfaces.Logger, source, path, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldSource] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// WithGalleryContext adds the active filter and asset being worked on.
func WithGalleryContext(logger interfaces.Logger, filter, assetID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(filter); trimmed != "" {
		fields[fieldFilter] = trimmed
	}
	if trimmed := strings.TrimSpace(assetID); trimmed != "" {
		fields[fieldAssetID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
