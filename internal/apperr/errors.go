// Package apperr defines the error taxonomy shared by the workflow engine,
// the ranking layer, and the HTTP surface. Handlers map these types to
// status codes; everything else matches them with errors.As.
package apperr

import "fmt"

// ValidationError marks a missing or malformed required field. Surfaced to
// the caller as-is, never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks an unresolvable id or interview token.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// StateConflictError marks an operation that is not valid in the entity's
// current state: already responded, interview already completed, job not a
// draft, best match without a structured description.
type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string { return e.Msg }

func StateConflict(format string, args ...any) *StateConflictError {
	return &StateConflictError{Msg: fmt.Sprintf(format, args...)}
}

// ModelInvocationError means both attempts of a model call failed. Callers
// decide whether the enclosing operation still succeeds with a degraded
// result.
type ModelInvocationError struct {
	Op  string
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation %s failed after retry: %v", e.Op, e.Err)
}

func (e *ModelInvocationError) Unwrap() error { return e.Err }

// ExtractionParseError means the model answered but its output could not be
// parsed into the required shape. Triggers the documented fallback path,
// never a crash.
type ExtractionParseError struct {
	Op  string
	Err error
}

func (e *ExtractionParseError) Error() string {
	return fmt.Sprintf("could not parse %s output: %v", e.Op, e.Err)
}

func (e *ExtractionParseError) Unwrap() error { return e.Err }
