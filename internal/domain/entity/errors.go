package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidRequest indicates that the book text is empty or missing.
	ErrInvalidRequest = errors.New("book text is required")

	// ErrInvalidSpan indicates that a recognizer span lies outside the text.
	ErrInvalidSpan = errors.New("invalid entity span")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
