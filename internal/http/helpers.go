package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-portfolio/internal/gallery"
	"github.com/goliatone/go-portfolio/internal/items"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var errInvalidQuery = errors.New("invalid query parameter")

func joinPath(base, suffix string) string {
	trimmedBase := strings.Trim(strings.TrimSpace(base), "/")
	trimmedSuffix := strings.Trim(strings.TrimSpace(suffix), "/")
	switch {
	case trimmedBase == "" && trimmedSuffix == "":
		return "/"
	case trimmedBase == "":
		return "/" + trimmedSuffix
	case trimmedSuffix == "":
		return "/" + trimmedBase
	default:
		return "/" + trimmedBase + "/" + trimmedSuffix
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var notFound *items.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: notFound.Error()}
	}

	if errors.Is(err, gallery.ErrUnknownFilter) || errors.Is(err, errInvalidQuery) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}

	if errors.Is(err, gallery.ErrSourceUnavailable) {
		return http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
}

// parseIntQuery returns fallback for a blank value and errInvalidQuery for
// anything that is not a non-negative integer.
func parseIntQuery(name, value string, fallback int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errInvalidQuery, name)
	}
	return parsed, nil
}
