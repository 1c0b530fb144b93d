package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidShape  = errors.New("invalid shape")
	ErrElementCount  = errors.New("element count does not match shape")
)

// ShapeError describes an operation that received incompatible shapes.
type ShapeError struct {
	Op    string // Operation name (e.g., "matmul", "add")
	Left  Shape  // Shape of the receiver or first operand
	Right Shape  // Shape of the other operand, or the expected shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v vs %v: %s", e.Op, e.Left, e.Right, ErrShapeMismatch)
}

// Unwrap allows errors.Is(err, ErrShapeMismatch).
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// mismatch panics with a ShapeError.
func mismatch(op string, left, right Shape) {
	panic(&ShapeError{Op: op, Left: left.Clone(), Right: right.Clone()})
}
