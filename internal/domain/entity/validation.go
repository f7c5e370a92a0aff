package entity

import (
	"fmt"
	"strings"
)

// ValidateBookText checks that the request carries some text to process.
// Whitespace-only text is rejected since it yields no sentences.
func ValidateBookText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// ValidateSpan checks that a span satisfies 0 <= start < end <= textLen.
func ValidateSpan(start, end, textLen int) error {
	if start < 0 || end <= start || end > textLen {
		return fmt.Errorf("%w: [%d,%d) in text of length %d", ErrInvalidSpan, start, end, textLen)
	}
	return nil
}

// ValidateLength checks summary bounds: positive max, non-negative min, min <= max.
func ValidateLength(l Length) error {
	if l.Max <= 0 {
		return &ValidationError{Field: "max_length", Message: fmt.Sprintf("must be positive, got %d", l.Max)}
	}
	if l.Min < 0 {
		return &ValidationError{Field: "min_length", Message: fmt.Sprintf("must be non-negative, got %d", l.Min)}
	}
	if l.Min > l.Max {
		return &ValidationError{Field: "min_length", Message: fmt.Sprintf("%d exceeds max_length %d", l.Min, l.Max)}
	}
	return nil
}
