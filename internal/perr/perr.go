// Package perr defines the error taxonomy shared by every policy-testing
// component: resource exhaustion, configuration, input-format, policy
// transport, and unsupported-combination errors. Each kind maps to a
// distinct CLI exit code.
package perr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can decide how to react and which
// process exit code to use.
type Kind int

const (
	// ResourceExhausted indicates a time or memory budget was exceeded at a
	// cooperative suspension point. The engine treats it as recoverable: it
	// stops stepping and finishes the run with the progress made so far
	// instead of failing it.
	ResourceExhausted Kind = iota
	// Configuration indicates missing or inconsistent options, fatal at
	// startup.
	Configuration
	// InputFormat indicates a malformed FDR, pool, bug, or simulation file.
	InputFormat
	// PolicyTransport indicates a remote-policy RPC failure.
	PolicyTransport
	// Unsupported indicates an unimplemented oracle/option combination.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case ResourceExhausted:
		return "resource-exhausted"
	case Configuration:
		return "configuration"
	case InputFormat:
		return "input-format"
	case PolicyTransport:
		return "policy-transport"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carrying a Kind alongside the usual
// message and optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is (or wraps) a *Error of the same Kind, so
// errors.Is(err, perr.New(perr.ResourceExhausted, "")) matches any error of
// that kind whatever its message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind around a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
