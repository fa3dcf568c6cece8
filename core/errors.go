package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure that can cross a component boundary.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindProviderError   ErrorKind = "PROVIDER_ERROR"
	KindBusy            ErrorKind = "BUSY"
	KindTimeout         ErrorKind = "TIMEOUT"
	KindInternal        ErrorKind = "INTERNAL_ERROR"
)

// Error is the structured error type used across the session, voice and
// protocol layers. Provider is set only for KindProviderError.
type Error struct {
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Provider string    `json:"provider,omitempty"`
	Cause    error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Provider != "" && e.Cause != nil:
		return fmt.Sprintf("[%s] %s (provider %s): %v", e.Kind, e.Message, e.Provider, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidArgumentf builds a KindInvalidArgument error.
func InvalidArgumentf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// ProviderErrorf builds a KindProviderError error wrapping the adapter failure.
func ProviderErrorf(provider string, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:     KindProviderError,
		Message:  fmt.Sprintf(format, args...),
		Provider: provider,
		Cause:    cause,
	}
}

// Busyf builds a KindBusy error.
func Busyf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBusy, Message: fmt.Sprintf(format, args...)}
}

// Timeoutf builds a KindTimeout error.
func Timeoutf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds a KindInternal error.
func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error, returning KindInternal for
// anything that is not a *core.Error. Unexpected failures are reported as
// internal rather than leaking their concrete type to the host.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError normalizes any error to a *core.Error, leaving typed errors
// untouched and wrapping everything else as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Cause: err}
}
