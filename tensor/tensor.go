// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Numeric is a constraint for supported tensor element types.
type Numeric = tensor.Numeric

// Float is a constraint for floating-point element types.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Tensor is a dense, row-major n-dimensional array.
type Tensor[T Numeric] = tensor.Tensor[T]

// ShapeError describes an operation that received incompatible shapes.
type ShapeError = tensor.ShapeError

// Common errors.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrInvalidShape  = tensor.ErrInvalidShape
	ErrElementCount  = tensor.ErrElementCount
)

// New creates a zero-filled tensor with the given shape.
func New[T Numeric](shape Shape) *Tensor[T] {
	return tensor.New[T](shape)
}

// FromSlice creates a tensor that takes ownership of data.
func FromSlice[T Numeric](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice[T Numeric](data []T, shape Shape) *Tensor[T] {
	return tensor.MustFromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T Numeric](shape Shape) *Tensor[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T Numeric](shape Shape) *Tensor[T] {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with value.
func Full[T Numeric](shape Shape, value T) *Tensor[T] {
	return tensor.Full(shape, value)
}

// Randn creates a tensor with values drawn from N(0, 1).
func Randn[T Numeric](shape Shape) *Tensor[T] {
	return tensor.Randn[T](shape)
}

// RandnWith is like Randn but draws from rng.
func RandnWith[T Numeric](shape Shape, rng *rand.Rand) *Tensor[T] {
	return tensor.RandnWith[T](shape, rng)
}
