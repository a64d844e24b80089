// Package errs defines the two error kinds the library surfaces to callers:
// CorruptedFile for structural/semantic violations of the file format, and
// Unsupported for well-formed input the library chooses not to handle.
package errs

import (
	stderrors "errors"
	"fmt"

	"github.com/hexbee-net/errors"
)

type kind int

const (
	kindCorrupted kind = iota
	kindUnsupported
)

// Error wraps a message with a kind tag, in the style of the sentinel
// errors.Error constants the rest of the module uses, but constructed at
// runtime since the message is almost always formatted.
type Error struct {
	kind kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

// Corrupted reports a structural violation of the parquet file format.
func Corrupted(format string, args ...interface{}) error {
	return &Error{kind: kindCorrupted, err: errors.WithStack(fmt.Errorf(format, args...))}
}

// CorruptedWrap wraps an existing error as a CorruptedFile violation,
// preserving its message.
func CorruptedWrap(err error, format string, args ...interface{}) error {
	return &Error{kind: kindCorrupted, err: errors.WithFields(
		fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err),
		errors.Fields{"cause": err.Error()},
	)}
}

// Unsupported reports well-formed input the library declines to handle.
func Unsupported(format string, args ...interface{}) error {
	return &Error{kind: kindUnsupported, err: errors.WithStack(fmt.Errorf(format, args...))}
}

// UnsupportedWrap wraps an existing error as an Unsupported violation,
// preserving its message.
func UnsupportedWrap(err error, format string, args ...interface{}) error {
	return &Error{kind: kindUnsupported, err: errors.WithFields(
		fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err),
		errors.Fields{"cause": err.Error()},
	)}
}

// WrapPreservingKind wraps err with the given context message, keeping its
// CorruptedFile/Unsupported classification intact rather than collapsing
// every wrapped error to CorruptedFile regardless of its origin.
func WrapPreservingKind(err error, format string, args ...interface{}) error {
	if IsUnsupported(err) {
		return UnsupportedWrap(err, format, args...)
	}
	return CorruptedWrap(err, format, args...)
}

// IsCorrupted reports whether err (or something it wraps) is a CorruptedFile error.
func IsCorrupted(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.kind == kindCorrupted
}

// IsUnsupported reports whether err (or something it wraps) is an Unsupported error.
func IsUnsupported(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.kind == kindUnsupported
}
