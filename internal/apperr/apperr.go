package apperr

import (
	"errors"
	"net/http"
)

// Error is an application error carrying the HTTP status it should surface as.
// Controllers map these to responses; anything outside this family is a 500.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

func BadRequest(message string) *Error {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) *Error {
	return New(message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	return New(message, http.StatusForbidden)
}

func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

// From returns the typed application error inside err, or nil if err is not one.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
