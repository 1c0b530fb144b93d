package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: dimension %d is %d (must be > 0)", ErrInvalidShape, i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Rows returns the number of rows of the shape viewed as a matrix.
// Scalars and vectors are a single row.
func (s Shape) Rows() int {
	if len(s) < 2 {
		return 1
	}
	return s[0]
}

// Batch returns the number of independent examples a tensor of this shape
// holds: the explicit batch dimension for rank 3 and above, otherwise the
// row count.
func (s Shape) Batch() int {
	return s.Rows()
}

// Flatten2D returns the [rows, rest] view used by matrix kernels.
// Rank 0 and 1 shapes are treated as a single row.
func (s Shape) Flatten2D() Shape {
	switch len(s) {
	case 0:
		return Shape{1, 1}
	case 1:
		return Shape{1, s[0]}
	default:
		return Shape{s[0], Shape(s[1:]).NumElements()}
	}
}
