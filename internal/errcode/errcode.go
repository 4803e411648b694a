package errcode

import (
	"errors"
	"net/http"
)

// Code conventions:
// - 0: no error
// - 4xxx: recoverable business outcomes, surfaced as a redirect, a flash or a re-rendered form
// - 5xxx: system errors that abort the request
const (
	OK          = 0
	Validation  = 4000
	Forbidden   = 4003
	NotFound    = 4004
	Duplicate   = 4009
	SystemError = 5000
)

// Error is a plain error tagged with a code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrorCode implements Coder.
func (e *Error) ErrorCode() int { return e.Code }

// New returns an *Error with the given code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Coder is implemented by errors that know their code.
type Coder interface {
	ErrorCode() int
}

// Of classifies err. nil maps to OK and unknown errors to SystemError.
func Of(err error) int {
	if err == nil {
		return OK
	}
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return SystemError
}

// HTTPStatus maps a code onto the status used when a page is rendered directly.
func HTTPStatus(code int) int {
	switch code {
	case OK:
		return http.StatusOK
	case Validation:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Duplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
