package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidation = "PORTFOLIO_COMMAND_INVALID"
	codeCanceled   = "PORTFOLIO_COMMAND_CANCELED"
	codeTimeout    = "PORTFOLIO_COMMAND_TIMEOUT"
	codeContext    = "PORTFOLIO_COMMAND_CONTEXT"
	codeFailed     = "PORTFOLIO_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(codeValidation)
}

func wrapContextError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
			WithTextCode(codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(codeContext)
	}
}

func wrapExecuteError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(codeFailed)
}
