package plan

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expected-path failures that callers recover from.
// Structural data-quality problems (broken links, orphans, coverage gaps)
// are never errors — they are validation results.
type ErrorKind string

const (
	ErrNotInitialized     ErrorKind = "NOT_INITIALIZED"
	ErrNotFound           ErrorKind = "NOT_FOUND"
	ErrInvalidID          ErrorKind = "INVALID_ID"
	ErrMissingPRD         ErrorKind = "MISSING_PRD"
	ErrMissingArch        ErrorKind = "MISSING_ARCH"
	ErrAlreadyInitialized ErrorKind = "ALREADY_INITIALIZED"
	ErrNoDiscovery        ErrorKind = "NO_DISCOVERY"
)

// Error is a typed, caller-recoverable failure with a single clear reason.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf constructs a typed error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is a plan.Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// KindOf returns the kind of a plan.Error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
