// Package apperr defines the application error model: every failure the API
// can surface carries an HTTP status code, a short reason phrase and a
// human-readable message.
package apperr

import (
	"fmt"
	"net/http"
)

// StatusToken is the non-standard status used for token-class failures in
// the ownership gate. Kept for wire compatibility.
const StatusToken = 498

type Error struct {
	Status  int
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Reason, e.Message)
}

func New(status int, reason, message string) *Error {
	return &Error{Status: status, Reason: reason, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, "Bad Request", message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "Not Authorized", message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "Not found", message)
}

func NotAcceptable(message string) *Error {
	return New(http.StatusNotAcceptable, "Not Acceptable", message)
}

// TokenNotFound covers both token-class failures of the ownership gate:
// missing decoded payload and owner mismatch. Same status, distinct messages.
func TokenNotFound(message string) *Error {
	return New(StatusToken, "Token not found", message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, "Internal Server Error", message)
}
