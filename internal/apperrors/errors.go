package apperrors

import (
	"errors"
	"net/http"
)

// Kind buckets every recoverable error the lifecycle layer can return.
type Kind int

const (
	Denied Kind = iota
	Validation
	Conflict
	NotFound
)

// Error pairs a machine reason code with a human message. Clients key on the
// code, not the message text.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewDenied(code, message string) *Error {
	return &Error{Kind: Denied, Code: code, Message: message}
}

func NewValidation(code, message string) *Error {
	return &Error{Kind: Validation, Code: code, Message: message}
}

func NewConflict(code, message string) *Error {
	return &Error{Kind: Conflict, Code: code, Message: message}
}

func NewNotFound(code, message string) *Error {
	return &Error{Kind: NotFound, Code: code, Message: message}
}

// StatusCode maps an error to its HTTP status. Anything outside the taxonomy
// is an infrastructure failure and surfaces as 500.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Kind {
	case Denied:
		return http.StatusForbidden
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Payload returns the response body for an error, keyed by reason code.
func Payload(err error) map[string]string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return map[string]string{"internal_error": "Internal server error"}
	}
	return map[string]string{appErr.Code: appErr.Message}
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
