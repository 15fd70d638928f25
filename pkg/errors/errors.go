package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Code is the
// stable kind clients switch on; Message is human readable.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so clones and wraps of a predefined error
// still satisfy errors.Is against the original.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Error kinds exposed to clients.
const (
	CodeNotFound                 = "NOT_FOUND"
	CodeInvalidRequestState      = "INVALID_REQUEST_STATE"
	CodeAlreadyResolved          = "ALREADY_RESOLVED"
	CodeInvalidStateForRejection = "INVALID_STATE_FOR_REJECTION"
	CodeValidation               = "VALIDATION_ERROR"
	CodeConflict                 = "CONFLICT"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeForbidden                = "FORBIDDEN"
	CodeInvalidCredentials       = "INVALID_CREDENTIALS"
	CodeUpstreamFailure          = "UPSTREAM_FAILURE"
	CodeTransientFailure         = "TRANSIENT_FAILURE"
	CodeRateLimited              = "RATE_LIMITED"
	CodeCacheMiss                = "CACHE_MISS"
	CodeInternal                 = "INTERNAL_ERROR"
)

// Predefined errors for common scenarios.
var (
	ErrNotFound                 = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrInvalidRequestState      = New(CodeInvalidRequestState, http.StatusBadRequest, "invalid or fulfilled request")
	ErrAlreadyResolved          = New(CodeAlreadyResolved, http.StatusBadRequest, "donation already resolved")
	ErrInvalidStateForRejection = New(CodeInvalidStateForRejection, http.StatusBadRequest, "only pending donations can be rejected")
	ErrValidation               = New(CodeValidation, http.StatusBadRequest, "validation failed")
	ErrConflict                 = New(CodeConflict, http.StatusConflict, "conflict")
	ErrUnauthorized             = New(CodeUnauthorized, http.StatusUnauthorized, "unauthorized")
	ErrForbidden                = New(CodeForbidden, http.StatusForbidden, "forbidden")
	ErrInvalidCredentials       = New(CodeInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
	ErrUpstreamFailure          = New(CodeUpstreamFailure, http.StatusBadGateway, "upstream service failed")
	ErrTransientFailure         = New(CodeTransientFailure, http.StatusServiceUnavailable, "temporarily unable to complete the operation, retry later")
	ErrRateLimited              = New(CodeRateLimited, http.StatusTooManyRequests, "too many requests")
	ErrCacheMiss                = New(CodeCacheMiss, http.StatusNotFound, "cache miss")
	ErrInternal                 = New(CodeInternal, http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Internal wraps err as an INTERNAL_ERROR carrying message.
func Internal(err error, message string) *Error {
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// IsCode reports whether err normalises to the given error kind.
func IsCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
