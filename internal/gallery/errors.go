package gallery

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const codeFetchFailed = "PORTFOLIO_FETCH_FAILED"

var (
	// ErrIndexOutOfRange reports an explicit index lookup outside the sequence.
	// Navigation never returns it; indices are clamped instead.
	ErrIndexOutOfRange = errors.New("gallery: index out of range")
	// ErrUnknownFilter reports a filter that is not among the available categories.
	ErrUnknownFilter = errors.New("gallery: unknown filter")
	// ErrViewPending reports an interaction attempted before items were loaded.
	ErrViewPending = errors.New("gallery: items still loading")
	// ErrSourceUnavailable reports a view built without an item source.
	ErrSourceUnavailable = errors.New("gallery: item source unavailable")
)

// FetchError reports a failed item retrieval. The view keeps it as explicit
// error state next to an empty item list; it is never retried here.
type FetchError struct {
	Source string
	Cause  error

	categorized *goerrors.Error
}

// NewFetchError wraps cause in the external go-errors category so callers can
// match it with goerrors.IsCategory. Causes that already carry a category keep it.
func NewFetchError(source string, cause error) *FetchError {
	fetchErr := &FetchError{Source: source, Cause: cause}
	if cause == nil || goerrors.IsWrapped(cause) {
		return fetchErr
	}
	fetchErr.categorized = goerrors.Wrap(cause, goerrors.CategoryExternal, "fetch items").
		WithTextCode(codeFetchFailed)
	return fetchErr
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("gallery: fetch items")
	if e.Source != "" {
		b.WriteString(" from ")
		b.WriteString(e.Source)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	if e.categorized != nil {
		return e.categorized
	}
	return e.Cause
}
