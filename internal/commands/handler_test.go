package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type pingMessage struct{}

func (pingMessage) Type() string { return "portfolio.test.ping" }

func (pingMessage) Validate() error { return nil }

type brokenMessage struct{}

func (brokenMessage) Type() string { return "portfolio.test.broken" }

func (brokenMessage) Validate() error { return errors.New("invalid") }

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[pingMessage](func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), pingMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[brokenMessage](func(ctx context.Context, msg brokenMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), brokenMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[pingMessage](func(ctx context.Context, msg pingMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[pingMessage](func(ctx context.Context, msg pingMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), pingMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[pingMessage](func(ctx context.Context, msg pingMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[pingMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), pingMessage{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}
