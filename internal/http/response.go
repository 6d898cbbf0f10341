package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"expenselog/internal/core"
	applog "expenselog/internal/log"
	"expenselog/internal/middleware/trace"
	"expenselog/internal/storage"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Encode response failed", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg, RequestID: trace.GetRequestID(r.Context())})
}

// writeServiceError maps service errors onto status codes; unknown errors are logged as 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "expense not found")
	case errors.Is(err, core.ErrInvalidFilter):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldOperation, op, applog.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
