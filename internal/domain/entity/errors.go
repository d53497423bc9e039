package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for request validation.
var (
	// ErrEmptyURL indicates that no article URL was submitted.
	ErrEmptyURL = errors.New("url is required")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with detailed field information.
// It wraps ErrInvalidInput so callers can test with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
