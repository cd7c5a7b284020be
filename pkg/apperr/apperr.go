// Package apperr defines the error taxonomy used across the application.
//
// Every business-rule violation is an *Error carrying a machine-readable
// Kind. Handlers recover them at the request boundary and turn them into a
// structured JSON failure via pkg/response; anything that is not an *Error
// surfaces as a generic 500.
//
//	if errors.Is(err, apperr.ErrNoValidCode) { ... }
//	response.FromError(w, err)
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the taxonomy code included in failure responses.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindRateLimited       Kind = "rate_limited"
	KindAuth              Kind = "auth_error"
	KindInsufficientStock Kind = "insufficient_stock"
	KindUnavailable       Kind = "unavailable"
	KindEmptyCart         Kind = "empty_cart"
	KindNoValidCode       Kind = "no_valid_code"
	KindAttemptsExceeded  Kind = "attempts_exceeded"
)

// Error is a business-rule violation with a taxonomy kind.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries field-level messages for validation failures.
	Fields map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches two *Error values by Kind, so sentinel comparisons like
// errors.Is(err, apperr.ErrNoValidCode) work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks on the OTP and order paths.
var (
	ErrNoValidCode      = &Error{Kind: KindNoValidCode, Message: "no valid code"}
	ErrAttemptsExceeded = &Error{Kind: KindAttemptsExceeded, Message: "too many attempts"}
	ErrEmptyCart        = &Error{Kind: KindEmptyCart, Message: "cart is empty"}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func RateLimited(format string, args ...any) *Error {
	return New(KindRateLimited, format, args...)
}

func Auth(format string, args ...any) *Error {
	return New(KindAuth, format, args...)
}

func InsufficientStock(format string, args ...any) *Error {
	return New(KindInsufficientStock, format, args...)
}

func Unavailable(format string, args ...any) *Error {
	return New(KindUnavailable, format, args...)
}

// InvalidTransition is a conflict: the order is in a state from which the
// requested status cannot be reached.
func InvalidTransition(from, to string) *Error {
	return Conflict("invalid status transition: %s -> %s", from, to)
}

// HTTPStatus maps a taxonomy kind to the HTTP status used at the boundary.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindEmptyCart, KindNoValidCode, KindAttemptsExceeded:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindAuth:
		return http.StatusUnauthorized
	case KindInsufficientStock, KindUnavailable:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// From extracts the *Error from err, or nil when err is not part of the
// taxonomy (i.e. an unexpected server failure).
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
