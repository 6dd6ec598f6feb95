package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can pick a status code
// without inspecting messages.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is an application error with a kind, a client-facing message and an
// optional underlying cause kept for operators.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func InvalidInput(message string) *Error { return newError(KindInvalidInput, message, nil) }

func Conflict(message string) *Error { return newError(KindConflict, message, nil) }

func InvalidCredentials() *Error {
	return newError(KindInvalidCredentials, "Invalid email or password", nil)
}

func Unauthenticated(message string, cause error) *Error {
	return newError(KindUnauthenticated, message, cause)
}

func NotFound(message string) *Error { return newError(KindNotFound, message, nil) }

func Internal(message string, cause error) *Error {
	return newError(KindInternal, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// carry no kind are internal.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
