package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "portfolio.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger = WithFields(logger, map[string]any{"foo": "bar"})
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, galleryModule)

	if len(provider.requested) != 1 || provider.requested[0] != galleryModule {
		t.Fatalf("expected module %s, got %v", galleryModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != galleryModule {
		t.Fatalf("expected module field %s, got %v", galleryModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestModuleHelpersRequestTheirModules(t *testing.T) {
	cases := []struct {
		name   string
		build  func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"gallery", GalleryLogger, galleryModule},
		{"lightbox", LightboxLogger, lightboxModule},
		{"media", MediaLogger, mediaModule},
		{"items", ItemsLogger, itemsModule},
		{"http", HTTPLogger, httpModule},
		{"tui", TUILogger, tuiModule},
		{"commands", CommandLogger, commandsModule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{logger: &recordingLogger{}}
			_ = tc.build(provider)
			if len(provider.requested) != 1 || provider.requested[0] != tc.module {
				t.Fatalf("expected %s request, got %v", tc.module, provider.requested)
			}
		})
	}
}

func TestWithSourceContextSkipsBlankValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithSourceContext(rec, "markdown", "  ", "fetch")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldSource] != "markdown" || fields[fieldAction] != "fetch" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields[fieldPath]; ok {
		t.Fatalf("expected blank path to be skipped, got %v", fields)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})
	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["a"] = 9
	if ContextFields(ctx)["a"] != 1 {
		t.Fatal("expected ContextFields to return a copy")
	}
}
