package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// errorResponse is the JSON envelope for every error the API returns.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail carries a machine-readable code, a human-readable message,
// and — for validation failures — the complete list of field problems.
type errorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// writeJSON serializes v with the given status. Encoding failures are
// logged but not surfaced — headers are already written at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string, details []string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message, Details: details}})
}

// writeInternalError logs the unexpected error and returns an opaque 500.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "handler error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.RegistrationService.RecordDeparture: invalid input: departure
// timestamp is required" → "departure timestamp is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		stripped := false
		for _, prefix := range []string{
			"service.RegistrationService.Create: ",
			"service.RegistrationService.RecordDeparture: ",
			"service.RegistrationService.GetByID: ",
			"invalid input: ",
			"invalid state: ",
			"validation error: ",
		} {
			if strings.HasPrefix(msg, prefix) && len(msg) > len(prefix) {
				msg = msg[len(prefix):]
				stripped = true
			}
		}
		if !stripped {
			return msg
		}
	}
}
