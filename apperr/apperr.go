package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can pick a status code.
type Kind int

const (
	Internal Kind = iota
	Invalid
	DuplicateUser
	UserNotFound
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case DuplicateUser:
		return "duplicate_user"
	case UserNotFound:
		return "user_not_found"
	default:
		return "internal"
	}
}

// Error carries a Kind, a message safe to show clients, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the public message of err, falling back to def for
// errors that carry none.
func MessageOf(err error, def string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal && e.Message != "" {
		return e.Message
	}
	return def
}
