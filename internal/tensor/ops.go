package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Add performs element-wise addition. Shapes must be equal.
//
// Example:
//
//	a := tensor.Ones[float32](tensor.Shape{3, 5})
//	b := tensor.Ones[float32](tensor.Shape{3, 5})
//	c := a.Add(b) // all 2
func (t *Tensor[T]) Add(other *Tensor[T]) *Tensor[T] {
	return t.Map2("add", other, func(a, b T) T { return a + b })
}

// Sub performs element-wise subtraction. Shapes must be equal.
func (t *Tensor[T]) Sub(other *Tensor[T]) *Tensor[T] {
	return t.Map2("sub", other, func(a, b T) T { return a - b })
}

// Mul performs element-wise (Hadamard) multiplication. Shapes must be equal.
func (t *Tensor[T]) Mul(other *Tensor[T]) *Tensor[T] {
	return t.Map2("mul", other, func(a, b T) T { return a * b })
}

// AddScalar adds v to every element.
func (t *Tensor[T]) AddScalar(v T) *Tensor[T] {
	return t.Apply(func(x T) T { return x + v })
}

// MulScalar multiplies every element by factor. The product is computed in
// float64 and converted back to T, so integer tensors truncate toward zero.
func (t *Tensor[T]) MulScalar(factor float64) *Tensor[T] {
	out := New[T](t.shape)
	if src, ok := any(t.data).([]float64); ok {
		dst := any(out.data).([]float64)
		copy(dst, src)
		floats.Scale(factor, dst)
		return out
	}
	for i, x := range t.data {
		out.data[i] = T(float64(x) * factor)
	}
	return out
}

// AddScaled returns t + alpha*other, computed per element in float64 and
// converted back to T. Shapes must be equal.
func (t *Tensor[T]) AddScaled(alpha float64, other *Tensor[T]) *Tensor[T] {
	if !t.shape.Equal(other.shape) {
		mismatch("add_scaled", t.shape, other.shape)
	}
	out := New[T](t.shape)
	if y, ok := any(t.data).([]float64); ok {
		floats.AddScaledTo(any(out.data).([]float64), y, alpha, any(other.data).([]float64))
		return out
	}
	for i := range t.data {
		out.data[i] = T(float64(t.data[i]) + alpha*float64(other.data[i]))
	}
	return out
}

// Apply returns a new tensor with f applied to every element.
func (t *Tensor[T]) Apply(f func(T) T) *Tensor[T] {
	out := New[T](t.shape)
	for i, x := range t.data {
		out.data[i] = f(x)
	}
	return out
}

// Map2 combines two equally shaped tensors element by element.
// op names the operation in the ShapeError raised on mismatch.
func (t *Tensor[T]) Map2(op string, other *Tensor[T], f func(a, b T) T) *Tensor[T] {
	if !t.shape.Equal(other.shape) {
		mismatch(op, t.shape, other.shape)
	}
	out := New[T](t.shape)
	for i := range t.data {
		out.data[i] = f(t.data[i], other.data[i])
	}
	return out
}

// Sum returns the sum of all elements.
func (t *Tensor[T]) Sum() T {
	if d, ok := any(t.data).([]float64); ok {
		return T(floats.Sum(d))
	}
	var s T
	for _, x := range t.data {
		s += x
	}
	return s
}

// SumAxis reduces along axis, keeping it as a dimension of size 1.
// For a [N, C] tensor, SumAxis(0) is the [1, C] column-wise sum.
func (t *Tensor[T]) SumAxis(axis int) *Tensor[T] {
	if axis < 0 || axis >= len(t.shape) {
		panic(&ShapeError{Op: "sum_axis", Left: t.shape.Clone(), Right: Shape{axis}})
	}

	outShape := t.shape.Clone()
	outShape[axis] = 1
	out := New[T](outShape)

	outer := Shape(t.shape[:axis]).NumElements()
	n := t.shape[axis]
	inner := Shape(t.shape[axis+1:]).NumElements()

	for o := 0; o < outer; o++ {
		dst := out.data[o*inner : (o+1)*inner]
		for k := 0; k < n; k++ {
			src := t.data[(o*n+k)*inner : (o*n+k+1)*inner]
			for i, x := range src {
				dst[i] += x
			}
		}
	}
	return out
}

// Repmat tiles the tensor, viewed as a matrix, rows times vertically and
// cols times horizontally. A [1, C] bias row becomes [N, C] with Repmat(N, 1).
func (t *Tensor[T]) Repmat(rows, cols int) *Tensor[T] {
	src := t.shape.Flatten2D()
	r, c := src[0], src[1]
	out := New[T](Shape{r * rows, c * cols})

	width := c * cols
	for i := 0; i < r*rows; i++ {
		row := t.data[(i%r)*c : (i%r+1)*c]
		for j := 0; j < cols; j++ {
			copy(out.data[i*width+j*c:], row)
		}
	}
	return out
}

// Equal reports whether both tensors have the same shape and identical elements.
func (t *Tensor[T]) Equal(other *Tensor[T]) bool {
	if other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether both tensors have the same shape and every pair of
// elements differs by at most tol.
func (t *Tensor[T]) AllClose(other *Tensor[T], tol float64) bool {
	if other == nil || !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if math.Abs(float64(t.data[i])-float64(other.data[i])) > tol {
			return false
		}
	}
	return true
}
