package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input. Nothing was sent to the backend.
	ErrValidation = errors.New("invalid request")
	// ErrBackend marks any failure reported by the storage client.
	ErrBackend = errors.New("backend error")
)

// Error wraps a sentinel error with additional context
type Error struct {
	err     error  // The underlying sentinel error
	context string // Additional error context
	cause   error  // The client error, if any
}

// Error satisfies the error interface
func (e *Error) Error() string {
	if e.context == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.err.Error(), e.context)
}

// Unwrap exposes both the sentinel and the client error to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.err}
	}
	return []error{e.err, e.cause}
}

// Message is the context without the sentinel prefix.
func (e *Error) Message() string {
	if e.context == "" {
		return e.err.Error()
	}
	return e.context
}

func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}

// backendError re-signals a client failure, keeping its message.
func backendError(action string, cause error) error {
	var gwErr *Error
	if errors.As(cause, &gwErr) {
		return gwErr
	}
	return &Error{
		err:     ErrBackend,
		context: fmt.Sprintf("failed to %s: %v", action, cause),
		cause:   cause,
	}
}

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
