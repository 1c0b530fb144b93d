package nn

import (
	"math"

	"github.com/born-ml/layerwise/internal/tensor"
)

// elementwise is the shared implementation of parameter-less activations.
type elementwise[T tensor.Float] struct {
	base[T]
	f func(x T) T
	// df returns the local derivative given the input x and output y.
	df func(x, y T) T
}

func newElementwise[T tensor.Float](name string, input Layer[T], f func(T) T, df func(x, y T) T) elementwise[T] {
	e := elementwise[T]{
		base: newBase(name, input, false),
		f:    f,
		df:   df,
	}
	if input != nil {
		e.activationShape = input.ActivationShape()
	}
	return e
}

// Forward applies the activation element-wise and caches input and output.
func (e *elementwise[T]) Forward(input *tensor.Tensor[T]) *tensor.Tensor[T] {
	out, ctx := e.ForwardContext(input)
	e.cache = ctx
	return out
}

// ForwardContext applies the activation and returns the forward state.
func (e *elementwise[T]) ForwardContext(input *tensor.Tensor[T]) (*tensor.Tensor[T], *Context[T]) {
	out := input.Apply(e.f)
	return out, &Context[T]{layer: e.name, input: input, activation: out}
}

// Backward multiplies the upstream gradient by the local derivative.
func (e *elementwise[T]) Backward(dout Gradient[T]) Gradient[T] {
	e.grad = e.BackwardContext(e.cached(), dout)
	return e.grad
}

// BackwardContext computes dx for an explicit forward context.
func (e *elementwise[T]) BackwardContext(ctx *Context[T], dout Gradient[T]) Gradient[T] {
	ctx.check(e.name, dout)

	x, y := ctx.input.Data(), ctx.activation.Data()
	dx := tensor.New[T](dout.DX.Shape())
	dxData := dx.Data()
	for i, g := range dout.DX.Data() {
		dxData[i] = g * e.df(x[i], y[i])
	}
	return Gradient[T]{DX: dx}
}

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// The derivative is 1 where the cached input is strictly positive and 0
// elsewhere, including x == 0.
type ReLU[T tensor.Float] struct {
	elementwise[T]
}

// NewReLU creates a ReLU layer fed by input (nil at the start of a chain).
func NewReLU[T tensor.Float](name string, input Layer[T]) *ReLU[T] {
	return &ReLU[T]{newElementwise(name, input,
		func(x T) T {
			if x > 0 {
				return x
			}
			return 0
		},
		func(x, _ T) T {
			if x > 0 {
				return 1
			}
			return 0
		},
	)}
}

// Sigmoid is a sigmoid activation layer.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// The backward pass uses the cached output: σ'(x) = σ(x)(1 − σ(x)).
type Sigmoid[T tensor.Float] struct {
	elementwise[T]
}

// NewSigmoid creates a Sigmoid layer fed by input (nil at the start of a chain).
func NewSigmoid[T tensor.Float](name string, input Layer[T]) *Sigmoid[T] {
	return &Sigmoid[T]{newElementwise(name, input,
		func(x T) T { return T(1 / (1 + math.Exp(-float64(x)))) },
		func(_, y T) T { return y * (1 - y) },
	)}
}

// Tanh is a hyperbolic tangent activation layer.
//
// Squashes values to the range (-1, 1). The backward pass uses the cached
// output: tanh'(x) = 1 − tanh²(x).
type Tanh[T tensor.Float] struct {
	elementwise[T]
}

// NewTanh creates a Tanh layer fed by input (nil at the start of a chain).
func NewTanh[T tensor.Float](name string, input Layer[T]) *Tanh[T] {
	return &Tanh[T]{newElementwise(name, input,
		func(x T) T { return T(math.Tanh(float64(x))) },
		func(_, y T) T { return 1 - y*y },
	)}
}
