package container

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an unregistered name.
	ErrNotFound = errors.New("not found")
	// ErrInvalidDefinition is returned when a definition or parameter fails a
	// shape precondition.
	ErrInvalidDefinition = errors.New("invalid definition")
	// ErrFrozen is returned when a resolved singleton is modified.
	ErrFrozen = errors.New("definition is frozen")
	// ErrNoSuchMethod is returned by CallMethod when the resolved value has no
	// method of that name.
	ErrNoSuchMethod = errors.New("no such method")
)

// Error records the operation and name that failed. It unwraps to one of the
// sentinel errors above, so callers match it with errors.Is.
type Error struct {
	Op     string
	Name   string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("container: %s [%s]: %v", e.Op, e.Name, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(op, name string) error {
	return &Error{Op: op, Name: name, Err: ErrNotFound}
}

func invalid(op, name, detail string) error {
	return &Error{Op: op, Name: name, Err: ErrInvalidDefinition, Detail: detail}
}

func frozen(op, name string) error {
	return &Error{Op: op, Name: name, Err: ErrFrozen}
}
