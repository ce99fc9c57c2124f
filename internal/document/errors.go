package document

import (
	"errors"
	"fmt"
)

// ErrorKind classifies I/O boundary failures.
type ErrorKind string

const (
	// NotFound means the artifact path does not exist.
	NotFound ErrorKind = "NOT_FOUND"

	// ReadError covers every other load failure, including non-UTF-8 content.
	ReadError ErrorKind = "READ_ERROR"

	// WriteError means the commit failed; the original file is untouched.
	WriteError ErrorKind = "WRITE_ERROR"
)

// Error is a fatal document store error. It is surfaced to the caller
// verbatim and never retried.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or "" when err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NotFound document error.
func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

// IsWriteError reports whether err is a WriteError document error.
func IsWriteError(err error) bool {
	return KindOf(err) == WriteError
}
