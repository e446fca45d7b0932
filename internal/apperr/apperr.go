// Package apperr defines the error kinds every service operation surfaces.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for the transport layer.
type Kind int

const (
	// Internal is anything not otherwise classified.
	Internal Kind = iota
	// NotFound means the referenced order or user does not exist.
	NotFound
	// Conflict means a state-transition precondition failed due to a concurrent change.
	// Callers must re-read before trying again.
	Conflict
	// TransientIO means a store or blob call failed in a way that may succeed on retry.
	TransientIO
	// ValidationFailure means malformed input or a disallowed transition.
	ValidationFailure
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case TransientIO:
		return "transient io"
	case ValidationFailure:
		return "validation failure"
	default:
		return "internal"
	}
}

// Error is an application error carrying its Kind and the operation that produced it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error.
func New(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Errorf creates an Error with a formatted message and no cause.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
