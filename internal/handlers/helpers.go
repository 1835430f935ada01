// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/axiompharma/compliance-copilot/internal/services/apperrors"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses so a
// caller can tell "fix your request" apart from "retry later".
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		writeError(w, err.Error(), http.StatusBadRequest)
	case apperrors.IsPayloadTooLarge(err):
		writeError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case apperrors.IsNotFound(err):
		writeError(w, err.Error(), http.StatusNotFound)
	case apperrors.IsUpstream(err):
		writeError(w, "completion service unavailable", http.StatusBadGateway)
	case apperrors.IsStorage(err):
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":     "storage operation failed",
			"retryable": true,
		})
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}
