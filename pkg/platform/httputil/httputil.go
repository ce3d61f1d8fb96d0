// Package httputil writes the JSON envelope every endpoint responds with:
//
//	{"status": "success"|"error"|"info", "message": "...", "data": ..., "error": "<kind>"}
//
// WriteError is the single place where domain errors become HTTP statuses.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	dErrors "petadopt/pkg/domain-errors"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusInfo    = "info"
)

// maxBodyBytes caps request bodies read by DecodeAndPrepare.
const maxBodyBytes = 1 << 20

// Envelope is the response body shape.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// WriteInfo writes an informational envelope, used when a request was valid
// but changed nothing (a notification already read, for instance).
func WriteInfo(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Status: StatusInfo, Message: message})
}

// WriteError maps err to a status code and writes an error envelope. Internal
// errors never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.From(err)
	if !ok {
		de = dErrors.New(dErrors.CodeInternal, "internal server error")
	}
	status := StatusCode(de.Code)
	if status == http.StatusServiceUnavailable {
		// Not a failure from the client's point of view: nothing was changed.
		WriteJSON(w, status, Envelope{Status: StatusInfo, Message: de.Message, Error: string(de.Code)})
		return
	}
	msg := de.Message
	if de.Code == dErrors.CodeInternal {
		msg = "internal server error"
	}
	WriteJSON(w, status, Envelope{Status: StatusError, Message: msg, Error: string(de.Code)})
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(code dErrors.Code) int {
	if code.IsAuthentication() || code == dErrors.CodeInvalidCredentials {
		return http.StatusUnauthorized
	}
	switch code {
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeOperationFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Validatable is implemented by request DTOs.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the JSON body into T and validates it. On failure it
// writes a 400 envelope and returns ok=false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid JSON body"))
		return nil, false
	}
	if err := PT(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, ValidationError(err))
		return nil, false
	}
	return &req, true
}

// ValidationError converts ozzo-validation errors into a ValidationError,
// passing domain errors through unchanged.
func ValidationError(err error) error {
	if _, ok := dErrors.From(err); ok {
		return err
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeValidation, verrs.Error())
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}
