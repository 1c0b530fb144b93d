package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a dense, row-major, multi-dimensional array of T.
//
// Operations never modify their receiver or arguments; they return a new
// tensor. The only mutators are Set and writes through the slice returned
// by Data.
//
// Example:
//
//	a := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	b := tensor.Ones[float32](tensor.Shape{2, 2})
//	c := a.MatMul(b) // [[3, 3], [7, 7]]
type Tensor[T Numeric] struct {
	data    []T
	shape   Shape
	strides []int
}

// New creates a zero-filled tensor with the given shape.
// Panics if the shape contains non-positive dimensions.
func New[T Numeric](shape Shape) *Tensor[T] {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	return &Tensor[T]{
		data:    make([]T, shape.NumElements()),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T Numeric](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrElementCount, shape, shape.NumElements(), len(data))
	}

	t := New[T](shape)
	copy(t.data, data)
	return t, nil
}

// MustFromSlice is like FromSlice but panics on error.
// Intended for literals in tests and examples.
func MustFromSlice[T Numeric](data []T, shape Shape) *Tensor[T] {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor[T]) Rank() int {
	return len(t.shape)
}

// Rows returns the row count of the tensor viewed as a matrix.
func (t *Tensor[T]) Rows() int {
	return t.shape.Rows()
}

// Cols returns the column count of the tensor viewed as a matrix.
func (t *Tensor[T]) Cols() int {
	return t.shape.Flatten2D()[1]
}

// Batch returns the batch size encoded in the tensor's shape.
func (t *Tensor[T]) Batch() int {
	return t.shape.Batch()
}

// DType returns the tensor's data type.
func (t *Tensor[T]) DType() DataType {
	var dummy T
	return inferDataType(dummy)
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return len(t.data)
}

// Data returns the tensor's backing slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) At(indices ...int) T {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) Set(value T, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor[T]) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.strides[i]
	}
	return offset
}

// Clone creates a deep copy of the tensor.
func (t *Tensor[T]) Clone() *Tensor[T] {
	data := make([]T, len(t.data))
	copy(data, t.data)
	return &Tensor[T]{
		data:    data,
		shape:   t.shape.Clone(),
		strides: append([]int(nil), t.strides...),
	}
}

// Reshape returns a copy of the tensor with a new shape.
// Panics with a ShapeError if the element counts differ.
func (t *Tensor[T]) Reshape(newShape ...int) *Tensor[T] {
	shape := Shape(newShape)
	if shape.NumElements() != len(t.data) {
		mismatch("reshape", t.shape, shape)
	}
	out := New[T](shape)
	copy(out.data, t.data)
	return out
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor[%s]%v", t.DType(), t.shape)
	if len(t.data) <= 16 {
		fmt.Fprintf(&sb, "%v", t.data)
	}
	return sb.String()
}
