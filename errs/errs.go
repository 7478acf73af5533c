// Package errs defines the tagged error type shared by services, the store
// and the HTTP responder.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP layer.
type Kind string

const (
	KindInternal     Kind = "INTERNAL"
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindUpstream     Kind = "UPSTREAM_FAILURE"
)

// Error carries a Kind, a user facing message and an optional cause.
type Error struct {
	Kind    Kind
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

func newError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFound(msg string) error     { return newError(KindNotFound, msg, nil) }
func Validation(msg string) error   { return newError(KindValidation, msg, nil) }
func Unauthorized(msg string) error { return newError(KindUnauthorized, msg, nil) }
func Forbidden(msg string) error    { return newError(KindForbidden, msg, nil) }

// Validationf formats a validation message.
func Validationf(format string, args ...any) error {
	return newError(KindValidation, fmt.Sprintf(format, args...), nil)
}

// Upstream wraps a failed call to the storage gateway or mail transport.
func Upstream(msg string, cause error) error {
	return newError(KindUpstream, msg, cause)
}

// Internal wraps an unexpected failure. The message is never shown to clients.
func Internal(msg string, cause error) error {
	return newError(KindInternal, msg, cause)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
