package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Validation kinds. Match with errors.Is.
	ErrInvalidYear           = errors.New("invalid year")
	ErrInvalidSummary        = errors.New("invalid summary")
	ErrInvalidEmployee       = errors.New("invalid employee id")
	ErrNotSaved              = errors.New("review has not been saved")
	ErrInvalidEmployeeRecord = errors.New("invalid employee record")
)

// ValidationError is raised synchronously at the point of an invalid
// assignment or an operation that needs a persisted instance.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotSaved is returned by update and delete on an instance without an id.
func NotSaved(op string) error {
	return invalid(ErrNotSaved, fmt.Sprintf("cannot %s a review that has not been saved", op))
}

func invalid(kind error, msg string) error {
	return &ValidationError{Kind: kind, Message: msg}
}
