package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidReference    = errors.New("referenced resource does not exist")
	ErrEmailTaken          = errors.New("email already registered")
	ErrDuplicateAssignment = errors.New("user already assigned to project")
	ErrHasDependents       = errors.New("resource still has dependent records")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrForbidden           = errors.New("access forbidden")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsConflict reports whether err belongs to the conflict class: a write that
// collides with existing state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrDuplicateAssignment) ||
		errors.Is(err, ErrHasDependents)
}
