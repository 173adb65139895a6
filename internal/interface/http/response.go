package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/educationaltr/study-tracker/internal/domain/shared"
	"github.com/educationaltr/study-tracker/pkg/circuitbreaker"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the envelope of every API response.
type JSONResponse struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *APIError     `json:"error,omitempty"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	RequestID  string    `json:"request_id,omitempty"`
	TotalCount *int      `json:"total_count,omitempty"`
}

// Error codes.
const (
	codeValidation   = "validation_error"
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeRateLimited  = "rate_limit_exceeded"
	codeUnavailable  = "service_unavailable"
	codeInternal     = "internal_server_error"
)

func newMeta(r *http.Request) *ResponseMeta {
	return &ResponseMeta{
		Timestamp: time.Now().UTC(),
		Version:   "v1",
		RequestID: requestIDFrom(r.Context()),
	}
}

// writeJSON writes a success envelope.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeEnvelope(w, status, JSONResponse{Success: true, Data: data, Meta: newMeta(r)})
}

// writeList writes a success envelope with a total count.
func writeList[T any](w http.ResponseWriter, r *http.Request, items []T) {
	if items == nil {
		items = []T{}
	}
	meta := newMeta(r)
	n := len(items)
	meta.TotalCount = &n
	writeEnvelope(w, http.StatusOK, JSONResponse{Success: true, Data: items, Meta: meta})
}

// writeJSONError writes an error envelope.
func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]string) {
	writeEnvelope(w, status, JSONResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
		Meta:    newMeta(r),
	})
}

func writeEnvelope(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and reported as 500 without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fields shared.FieldErrors
	if errors.As(err, &fields) {
		writeJSONError(w, r, http.StatusBadRequest, codeValidation, "request validation failed", fields)
		return
	}

	var domainErr *shared.DomainError
	message := err.Error()
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, codeNotFound, message, nil)
	case shared.IsAlreadyExists(err):
		writeJSONError(w, r, http.StatusConflict, codeConflict, message, nil)
	case shared.IsValidation(err):
		writeJSONError(w, r, http.StatusBadRequest, codeBadRequest, message, nil)
	case shared.IsUnauthorized(err):
		writeJSONError(w, r, http.StatusUnauthorized, codeUnauthorized, message, nil)
	case shared.IsForbidden(err):
		writeJSONError(w, r, http.StatusForbidden, codeForbidden, message, nil)
	case circuitbreaker.IsRejected(err), shared.IsRetryable(err):
		logger.FromContext(r.Context()).WarnContext(r.Context(), "dependency unavailable", logger.Err(err))
		writeJSONError(w, r, http.StatusServiceUnavailable, codeUnavailable, "service temporarily unavailable", nil)
	default:
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "request failed", logger.Err(err))
		writeJSONError(w, r, http.StatusInternalServerError, codeInternal, "an unexpected error occurred", nil)
	}
}
