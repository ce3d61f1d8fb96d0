// Package domainerrors defines the typed error vocabulary shared by services,
// middleware and transport. Each error carries a stable Code that transport
// maps to an HTTP status; the message is safe to show to clients unless the
// code is internal.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error kind.
type Code string

// Authentication failure kinds. All of them surface as 401.
const (
	CodeMissingToken     Code = "MissingToken"
	CodeMalformedToken   Code = "MalformedToken"
	CodeInvalidSignature Code = "InvalidSignature"
	CodeExpiredToken     Code = "ExpiredToken"
	CodeNotYetValid      Code = "NotYetValid"
	CodeMalformedPayload Code = "MalformedPayload"
)

const (
	CodeInvalidCredentials Code = "InvalidCredentials"
	CodeForbidden          Code = "AuthorizationError"
	CodeValidation         Code = "ValidationError"
	CodeNotFound           Code = "NotFoundError"
	CodeConflict           Code = "ConflictError"
	CodeRateLimited        Code = "RateLimited"
	CodePersistence        Code = "PersistenceError"
	CodeOperationFailed    Code = "OperationFailed"
	CodeInternal           Code = "InternalError"
)

// Error is a domain error with a code, a client-facing message and an
// optional cause that is never rendered to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error with the same code, so
// errors.Is(err, New(CodeNotFound, "")) matches any not-found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a domain error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// From extracts the outermost domain error from err's chain.
func From(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	de, ok := From(err)
	return ok && de.Code == code
}

// KindOf returns the code of err, or CodeInternal for foreign errors.
func KindOf(err error) Code {
	if de, ok := From(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Is is errors.Is re-exported so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsAuthentication reports whether code is one of the token failure kinds.
func (c Code) IsAuthentication() bool {
	switch c {
	case CodeMissingToken, CodeMalformedToken, CodeInvalidSignature,
		CodeExpiredToken, CodeNotYetValid, CodeMalformedPayload:
		return true
	}
	return false
}
