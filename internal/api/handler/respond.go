// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"points-ledger/internal/util"
)

// DefaultTimeout bounds request handling; the router applies it globally.
const DefaultTimeout = 15 * time.Second

// respondWithJSON writes payload as a JSON response with the given status.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps a service error to an HTTP status and JSON body.
// Conflict and insufficient-balance answers are distinct so callers can tell
// a business-state refusal from a transient store failure.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrDuplicateUsername):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrAlreadyReviewed):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrInsufficientBalance):
		// Kept at 500 for compatibility with the existing review frontend,
		// but with a distinct message.
		statusCode = http.StatusInternalServerError
		message = err.Error()
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, map[string]string{"error": message})
}
