package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports a missing or malformed field in the caller's input.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound reports an id that does not resolve to a record.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Forbidden reports an action the caller is not entitled to perform.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

// Configuration reports a missing deployment setting (e.g. merchant UPI id).
func Configuration(message string) *Error {
	return New(http.StatusInternalServerError, message, nil)
}

// Internal wraps an unexpected persistence or downstream failure.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From maps any error to an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
