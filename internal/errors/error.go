// Package errors provides the typed failures of the product catalog and their HTTP status mapping.
package errors

import (
	"errors"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to a status code; unknown kinds are 500.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure with a kind and a message that is safe to return to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int { return e.Kind.HTTPStatus() }

// PublicMessage returns the client-facing message. Internal failures never expose their message.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal {
		return http.StatusText(http.StatusInternalServerError)
	}
	return e.Message
}

var (
	ErrProductNotFound = &Error{Kind: KindNotFound, Message: "Product not found"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
)

// Validation returns a validation failure with the given message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationWrap returns a validation failure caused by err.
func ValidationWrap(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
