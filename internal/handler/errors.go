package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// ErrorDetail is the machine-readable error payload.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the single error body shape for every endpoint:
// {"error":{"code":"...","message":"..."}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON serializes v with the given status. Encoding failures are logged,
// not surfaced — headers are already out by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps domain sentinel errors onto HTTP statuses:
// ErrValidation → 422, ErrNotFound → 404, everything else → 500.
// Upstream failures are never masked as empty results.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: unwrapMessage(err)},
		})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// writeBadRequest reports a request rejected before reaching the service
// layer (malformed JSON, unparseable query parameter).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{Code: "validation_error", Message: message},
	})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.DecisionEngine.Evaluate: validation error: at least
// one adult passenger is required" → "at least one adult passenger is
// required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
