package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error for HTTP mapping and logging.
type Code string

const (
	CodeAuthInvalid         Code = "AUTH_INVALID"
	CodeForbidden           Code = "FORBIDDEN"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// Error is a typed application error. Message is safe to show to the client;
// Cause carries internal detail and is only ever logged.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

func AuthInvalid(message string) *Error {
	return New(CodeAuthInvalid, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

// Upstream wraps a datastore or external API failure. The client only sees
// a retryable message; err stays in the logs.
func Upstream(err error, message string) *Error {
	return Wrap(err, CodeUpstreamUnavailable, message)
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeAuthInvalid:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstreamUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
