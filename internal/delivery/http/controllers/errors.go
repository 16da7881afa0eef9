package controllers

import (
	"log/slog"
	"net/http"

	"bettercorq/internal/delivery/http/helpers"
)

// writeError maps err to the API envelope. Server-side failures are logged; client errors
// are only returned.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, code := helpers.StatusForError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}
