package summarizer

import (
	"context"
	"strings"

	"book-insight/internal/domain/entity"
)

// NoOp is a summarizer that keeps the leading words of a chunk.
// It is useful for local development when no model API is available.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns at most length.Max whitespace-separated words of chunk.
func (n *NoOp) Summarize(_ context.Context, chunk string, length entity.Length) (string, error) {
	words := strings.Fields(chunk)
	if len(words) > length.Max {
		words = words[:length.Max]
	}
	return strings.Join(words, " "), nil
}
