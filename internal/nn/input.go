package nn

import "github.com/born-ml/layerwise/internal/tensor"

// Input marks the start of a chain. It passes its input through unchanged
// and advertises the per-example shape the next layer is sized from.
type Input[T tensor.Float] struct {
	base[T]
}

// NewInput creates an Input layer for examples of the given shape.
func NewInput[T tensor.Float](name string, shape tensor.Shape) *Input[T] {
	l := &Input[T]{base: newBase[T](name, nil, false)}
	l.activationShape = shape.Clone()
	return l
}

// Forward returns input unchanged and caches it.
func (l *Input[T]) Forward(input *tensor.Tensor[T]) *tensor.Tensor[T] {
	l.cache = &Context[T]{layer: l.name, input: input, activation: input}
	return input
}

// Backward passes the upstream gradient through.
func (l *Input[T]) Backward(dout Gradient[T]) Gradient[T] {
	l.cached().check(l.name, dout)
	l.grad = Gradient[T]{DX: dout.DX}
	return l.grad
}
