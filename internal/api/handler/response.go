// Package handler holds depgraph's HTTP handlers, grounded on the
// teacher's internal/api/handler: one writeJSON/writeAPIError pair shared
// by every handler, a *apierr.Error carrying the status code.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/depgraph-dev/depgraph/pkg/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError writes a structured error response and logs 5xx errors.
func writeAPIError(w http.ResponseWriter, logger *slog.Logger, e *apierr.Error) {
	if e.Status() >= 500 && logger != nil {
		logger.Error(e.Message(), slog.String("code", string(e.Code())), slog.String("error", e.Error()))
	}
	writeJSON(w, e.Status(), e.Response())
}

func decodeJSON(r *http.Request, v any) *apierr.Error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.InvalidRequestBody()
	}
	return nil
}
