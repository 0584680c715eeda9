// Package handlers implements the HTTP handler groups for the MarketPress
// JSON API: content lifecycle, image uploads, reviews, and authentication.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"marketpress/internal/store"
)

// errResponse is the JSON envelope for every error the API returns.
// No request is ever left unanswered and no failure is swallowed: every
// error path ends in one of these with a machine-readable status.
type errResponse struct {
	Error string `json:"error"`
}

// respond writes v as JSON with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respond(w, r, status, errResponse{Error: msg})
}

// respondStoreError maps a store error onto the API error taxonomy:
// ErrNotFound → 404, ErrForbidden → 403, anything else is an upstream
// failure → 500 (logged with context).
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "content not found")
	case errors.Is(err, store.ErrForbidden):
		respondError(w, r, http.StatusForbidden, "not the content owner")
	default:
		slog.Error(op+" failed", "error", err, "path", r.URL.Path)
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
