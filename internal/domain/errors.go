package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ConflictError represents a state conflict: an invite already consumed or
// an email already registered.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return e.Reason
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

var ErrConflict = ConflictError{}

// ValidationError carries field-keyed messages for caller-supplied data
// that fails shape or business rules. It is expected control flow, never a
// server fault.
type ValidationError struct {
	Fields map[string][]string
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Fields: map[string][]string{field: {message}}}
}

var (
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrForbidden       = fmt.Errorf("forbidden")
)
