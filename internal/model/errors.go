package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")

	// ErrCardNotFound is returned when no column holds the referenced card
	ErrCardNotFound = errors.New("card not found")

	// ErrColumnNotFound is returned when the referenced column does not exist
	ErrColumnNotFound = errors.New("column not found")
)

// ValidationError reports a required text field that was empty after trimming.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
