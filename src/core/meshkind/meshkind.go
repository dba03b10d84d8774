// Package meshkind tags errors with the failure taxonomy of spec §7:
// Validation, Configuration, Transport, Protocol, Resolution, Internal.
// Kinds are carried as a wrapped error, not a distinct type hierarchy:
// callers test a kind with this package's Is, or use errors.As to reach
// the *Error and read its Kind.
package meshkind

import (
	"errors"
	"fmt"
)

// Kind identifies which bucket of spec §7's error taxonomy an error
// belongs to.
type Kind string

const (
	Validation    Kind = "validation"
	Configuration Kind = "configuration"
	Transport     Kind = "transport"
	Protocol      Kind = "protocol"
	Resolution    Kind = "resolution"
	Internal      Kind = "internal"
)

// Error pairs a taxonomy Kind with an underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with kind and an operation label.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// New builds a new tagged error directly from a message.
func New(kind Kind, op, msg string) error {
	return Wrap(kind, op, errors.New(msg))
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
