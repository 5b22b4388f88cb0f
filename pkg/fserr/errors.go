// Package fserr defines the failure kinds reported by the filesystem core.
// Messages are safe to show to API callers; the underlying cause (which may
// carry absolute paths) is only reachable through Unwrap and is meant for logs.
package fserr

import (
	"github.com/pkg/errors"
)

type Kind int

const (
	KindIO Kind = iota
	KindNotFound
	KindPathEscape
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPathEscape:
		return "path_escape"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "io"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (err *Error) Error() string {
	if err.Err != nil {
		return err.Message + ": " + err.Err.Error()
	}
	return err.Message
}

func (err *Error) Unwrap() error {
	return err.Err
}

// NotFound returns an error indicating the given resource doesn't exist.
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Message: resource + " not found."}
}

// PathEscape returns an error for a relative path that resolves outside of the
// root. The offending path is intentionally not part of the message.
func PathEscape() error {
	return &Error{Kind: KindPathEscape, Message: "Path is outside of the root directory."}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// IO wraps an unexpected operating system failure. The message is generic and
// the cause keeps its stack.
func IO(err error, msg string) error {
	return &Error{Kind: KindIO, Message: msg, Err: errors.WithStack(err)}
}

// KindOf returns the kind of the first *Error in the chain, or KindIO if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
