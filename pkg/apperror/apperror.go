// Package apperror defines the error taxonomy surfaced to API clients.
//
// Every Error carries the HTTP status, the message the client sees and,
// for validation failures, per-field details. The wrapped cause keeps the
// stack captured by github.com/pkg/errors so the envelope middleware can log it.
package apperror

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Error struct {
	Status  int
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil && e.cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// StackTrace renders the stack recorded when the error was created.
func (e *Error) StackTrace() string {
	if e.cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.cause)
}

func newError(status int, message string, cause error) *Error {
	if cause == nil {
		cause = errors.New(message)
	} else {
		cause = errors.WithStack(cause)
	}
	return &Error{Status: status, Message: message, cause: cause}
}

func BadRequest(message string, details map[string]string) *Error {
	e := newError(http.StatusBadRequest, message, nil)
	e.Details = details
	return e
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message, nil)
}

func Conflict(message string, cause error) *Error {
	return newError(http.StatusConflict, message, cause)
}

func TooManyRequests(message string) *Error {
	return newError(http.StatusTooManyRequests, message, nil)
}

// Internal hides cause from the client but keeps it for logging.
func Internal(cause error) *Error {
	return newError(http.StatusInternalServerError, "internal server error", cause)
}

// From classifies any error. Non-*Error values become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// StatusOf returns the HTTP status for err, 500 for unclassified errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}
