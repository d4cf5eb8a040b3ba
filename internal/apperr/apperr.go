package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the HTTP boundary can map it to a status code
// without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthentication
	KindAuthorization
	KindInsufficientCapacity
	KindConflict
	KindUpstream
)

type Error struct {
	Kind    Kind
	Code    string // stable machine-readable code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Common constructors used throughout the services.

func Validation(message string) *Error {
	return New(KindValidation, "validation_error", message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, "not_found", message)
}

func Authentication(message string) *Error {
	return New(KindAuthentication, "unauthenticated", message)
}

func Authorization(message string) *Error {
	return New(KindAuthorization, "forbidden", message)
}

func InsufficientCapacity(message string) *Error {
	return New(KindInsufficientCapacity, "insufficient_capacity", message)
}

func Conflict(message string) *Error {
	return New(KindConflict, "conflict", message)
}

func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, "upstream_error", message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, "internal_error", message, err)
}

// KindOf reports the kind of err, or KindInternal for errors that did not
// originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// CodeOf returns the stable machine code for err.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

// HTTPStatus maps an error kind to the status code the boundary responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindInsufficientCapacity, KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
