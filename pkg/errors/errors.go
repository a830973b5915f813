// Package errors provides typed API errors that the HTTP layer maps to
// status codes and the standard error envelope.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Error kinds recognized by the HTTP layer.
const (
	KindInvalid      = "invalid"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindInternal     = "internal"
)

// Error is a wire-mappable error carrying a kind and a human message.
type Error struct {
	Kind    string
	Message string
	cause   error
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying cause for logging while keeping the
// outward message clean.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, cause: err}
}

// StatusCode returns the HTTP status code for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newf(kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Invalidf builds a 400 error.
func Invalidf(format string, args ...any) *Error {
	return newf(KindInvalid, format, args...)
}

// Unauthorizedf builds a 401 error.
func Unauthorizedf(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

// Forbiddenf builds a 403 error.
func Forbiddenf(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

// NotFoundf builds a 404 error.
func NotFoundf(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

// Conflictf builds a 409 error.
func Conflictf(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

// Internalf builds a 500 error.
func Internalf(format string, args ...any) *Error {
	return newf(KindInternal, format, args...)
}

// StatusCode extracts the HTTP status for any error, defaulting to 500.
func StatusCode(err error) int {
	var apiErr *Error
	if As(err, &apiErr) {
		return apiErr.StatusCode()
	}
	return http.StatusInternalServerError
}
