// Package conferr defines the failure taxonomy for modf-conform.
//
// Every error returned by the vector loader, the validator, or the CLI maps
// to exactly one FailureClass, which determines the exit code and lets the
// conformance suite verify failure classification, not just "did it fail."
package conferr

import "fmt"

// FailureClass is a stable failure category.
type FailureClass string

const (
	// Mismatch is a tolerance violation: an output differed from its
	// reference by more than the allotted tolerance.
	Mismatch FailureClass = "MISMATCH"

	// SpecialMismatch is a special-value violation: a NaN input did not
	// produce NaN on both outputs.
	SpecialMismatch FailureClass = "SPECIAL_MISMATCH"

	// VectorLoad covers unreadable, malformed, or inconsistent external
	// vector tables.
	VectorLoad FailureClass = "VECTOR_LOAD"

	CLIUsage      FailureClass = "CLI_USAGE"
	InternalIO    FailureClass = "INTERNAL_IO"
	InternalError FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case Mismatch, SpecialMismatch:
		return 1
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all modf-conform failures.
type Error struct {
	Class   FailureClass
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conferr: %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("conferr: %s: %s", e.Class, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}
