// Package metricerr implements the two-tier error taxonomy described in
// spec.md §7: per-metric ErrorKinds that are recorded as data (never
// surfaced to the host) and process-level Kinds that cross the FFI
// boundary as an ExternError.
package metricerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind tags a per-metric recording error. Each kind is stored as an
// auto-counter under category "glean.error.<kind>" (see package metrics),
// never returned to the caller.
type ErrorKind int

const (
	// InvalidValue: the value failed kind validation, was truncated, or
	// was dropped outright (e.g. a non-positive counter increment).
	InvalidValue ErrorKind = iota
	// InvalidLabel: a label failed the label grammar or the metric
	// already has 16 distinct labels.
	InvalidLabel
	// InvalidState: the operation is illegal in the metric's current
	// state (e.g. a second start on a running timer).
	InvalidState
	// InvalidOverflow: a timing sample fell outside the configured
	// distribution range.
	InvalidOverflow
)

// String returns the category suffix used to build "glean.error.<kind>".
func (k ErrorKind) String() string {
	switch k {
	case InvalidValue:
		return "invalid_value"
	case InvalidLabel:
		return "invalid_label"
	case InvalidState:
		return "invalid_state"
	case InvalidOverflow:
		return "invalid_overflow"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// Category returns the reserved storage category this ErrorKind's counters
// live under: "glean.error.<kind>".
func (k ErrorKind) Category() string {
	return "glean.error." + k.String()
}

// Identifier returns the storage identifier for kind's error counter
// against one specific offending metric: "glean.error.<kind>/<metric-id>"
// (spec.md §8, scenario 1: "glean.error.invalid_value/ui.click").
func (k ErrorKind) Identifier(metricIdentifier string) string {
	return k.Category() + "/" + metricIdentifier
}

// Kind tags a process-level (FFI) failure. These never mutate metric
// state; they are surfaced to the host exclusively through ExternError.
type Kind int

const (
	// Utf8Error: a string crossing the FFI boundary was not valid UTF-8.
	Utf8Error Kind = iota
	// HandleError: the host passed an unknown or already-destroyed
	// handle.
	HandleError
	// StorageError: the embedded key/value store failed to read or
	// write.
	StorageError
	// IoError: a filesystem operation outside the storage engine failed
	// (e.g. writing a pending ping).
	IoError
)

func (k Kind) String() string {
	switch k {
	case Utf8Error:
		return "Utf8Error"
	case HandleError:
		return "HandleError"
	case StorageError:
		return "StorageError"
	case IoError:
		return "IoError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ExternError is the process-level failure type returned across the FFI
// boundary (see spec.md §6). Code 0 always means success; bindings must
// check it before reading Message.
type ExternError struct {
	Kind    Kind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *ExternError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *ExternError) Unwrap() error {
	return e.cause
}

// New constructs an ExternError, capturing a stack trace via pkg/errors so
// that host-side crash reporters get a useful trace even though the
// original error never leaves the process through a normal return value.
func New(kind Kind, cause error) *ExternError {
	wrapped := errors.WithStack(cause)
	return &ExternError{
		Kind:    kind,
		Message: cause.Error(),
		cause:   wrapped,
	}
}

// Newf is New with a formatted message and no existing error to wrap.
func Newf(kind Kind, format string, args ...interface{}) *ExternError {
	return New(kind, errors.Errorf(format, args...))
}

// Code returns the FFI-facing integer code: 0 for a nil error, 1+Kind
// otherwise, so that C callers can treat "0" as the universal success
// sentinel without knowing our Kind enum starts at 0.
func Code(err *ExternError) int32 {
	if err == nil {
		return 0
	}
	return int32(err.Kind) + 1
}
