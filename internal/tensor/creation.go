package tensor

import (
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{3, 4})
func Zeros[T Numeric](shape Shape) *Tensor[T] {
	return New[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T Numeric](shape Shape) *Tensor[T] {
	return Full[T](shape, 1)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](tensor.Shape{3, 3}, 3.14)
func Full[T Numeric](shape Shape, value T) *Tensor[T] {
	t := New[T](shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from the standard normal
// distribution N(0, 1) using the global math/rand source.
// Only works with float types.
func Randn[T Numeric](shape Shape) *Tensor[T] {
	return RandnWith[T](shape, nil)
}

// RandnWith is like Randn but draws from rng. A nil rng uses the global source.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	w := tensor.RandnWith[float64](tensor.Shape{5, 2}, rng)
func RandnWith[T Numeric](shape Shape, rng *rand.Rand) *Tensor[T] {
	var dummy T
	if !inferDataType(dummy).IsFloat() {
		panic("Randn only supports float32 and float64 types")
	}

	norm := rand.NormFloat64 //nolint:gosec // G404: ML uses math/rand intentionally for reproducibility
	if rng != nil {
		norm = rng.NormFloat64
	}

	t := New[T](shape)
	for i := range t.data {
		t.data[i] = T(norm())
	}
	return t
}
