package web

// errors.go maps pipeline errors to HTTP statuses. Every error body is a
// middleware.ErrorResponse carrying a support code from core.MapError; the
// technical error is only logged.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/web/middleware"
)

var errNoFile = errors.New("no file provided")

// unsupportedTableResponse is returned for POST /api/upload/{table} with an
// unregistered table.
type unsupportedTableResponse struct {
	middleware.ErrorResponse
	SupportedTables []string `json:"supportedTables"`
}

// statusFor picks the response status for a fatal import or preview error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile),
		errors.Is(err, core.ErrUnsupportedFile),
		errors.Is(err, core.ErrUnreadableFile),
		errors.Is(err, core.ErrUnknownTable):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	middleware.WriteError(w, r, status, err)
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
