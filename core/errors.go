package core

import (
	"errors"
	"net/http"
)

// Error is an HTTP-mapped application error. The message is safe to show
// to clients; anything that is not an *Error is reported with a generic
// message so internal detail never leaks through the API boundary.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError creates an application error with an explicit status code.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadRequest reports invalid or missing input.
func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

// Unauthorized reports a failed or missing credential.
func Unauthorized(message string) *Error {
	return NewError(http.StatusUnauthorized, message)
}

// Forbidden reports a valid identity acting outside its permissions.
func Forbidden(message string) *Error {
	return NewError(http.StatusForbidden, message)
}

// NotFound reports a missing record.
func NotFound(message string) *Error {
	return NewError(http.StatusNotFound, message)
}

// Conflict reports a uniqueness violation such as a duplicate username.
func Conflict(message string) *Error {
	return NewError(http.StatusConflict, message)
}

// Internal reports an unexpected failure with a client-safe message.
func Internal(message string) *Error {
	return NewError(http.StatusInternalServerError, message)
}

// AsError extracts an *Error from err, unwrapping as needed.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
