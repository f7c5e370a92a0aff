package ner

import (
	"context"

	"book-insight/internal/domain/entity"
)

// NoOp is a recognizer that never finds anyone.
type NoOp struct{}

// NewNoOp creates a new NoOp recognizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Recognize returns no entities.
func (n *NoOp) Recognize(context.Context, string) ([]entity.Entity, error) {
	return nil, nil
}
