package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/layerwise/internal/tensor"
)

// FullyConnected implements an affine (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input flattened to [batch_size, D]
//   - W is the weight matrix with shape [D, num_output]
//   - b is the bias row with shape [1, num_output], replicated over the batch
//   - y is the output tensor with shape [batch_size, num_output]
//
// D is the product of the predecessor's activation shape. Weights are drawn
// from N(0, 1); biases start at zero.
//
// Example:
//
//	in := nn.NewInput[float32]("in", tensor.Shape{1, 784})
//	fc := nn.NewFullyConnected("fc1", in, 128)
//
//	output := fc.Forward(x) // x: [32, 784] → [32, 128]
type FullyConnected[T tensor.Float] struct {
	base[T]
	numInput  int
	numOutput int
}

// Option configures layer construction.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand draws initial weights from rng instead of the global source.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// NewFullyConnected creates a FullyConnected layer fed by input.
//
// Without a predecessor (input == nil) parameter initialization is skipped
// and the layer stays inert until SetWeights and SetBias are called.
func NewFullyConnected[T tensor.Float](name string, input Layer[T], numOutput int, opts ...Option) *FullyConnected[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	l := &FullyConnected[T]{
		base:      newBase(name, input, true),
		numOutput: numOutput,
	}
	l.activationShape = tensor.Shape{1, numOutput}

	if input != nil {
		l.numInput = input.ActivationShape().NumElements()
		l.weights = tensor.RandnWith[T](tensor.Shape{l.numInput, numOutput}, o.rng)
		l.bias = tensor.Zeros[T](tensor.Shape{1, numOutput})
	}

	return l
}

// NumInput returns the flattened input width D (0 when built without a predecessor).
func (l *FullyConnected[T]) NumInput() int { return l.numInput }

// NumOutput returns the number of output units.
func (l *FullyConnected[T]) NumOutput() int { return l.numOutput }

// Forward computes x @ W + b and caches input and activation.
func (l *FullyConnected[T]) Forward(input *tensor.Tensor[T]) *tensor.Tensor[T] {
	out, ctx := l.ForwardContext(input)
	l.cache = ctx
	return out
}

// ForwardContext computes the activation and returns the forward state
// explicitly instead of caching it.
func (l *FullyConnected[T]) ForwardContext(input *tensor.Tensor[T]) (*tensor.Tensor[T], *Context[T]) {
	if l.weights == nil || l.bias == nil {
		panic(fmt.Errorf("%s: %w", l.name, ErrUninitialized))
	}

	n := batchSize(input)
	flat := input.Reshape(n, input.NumElements()/n)

	// [N, D] @ [D, out] + repmat([1, out], N) = [N, out]
	activation := flat.MatMul(l.weights).Add(l.bias.Repmat(n, 1))

	return activation, &Context[T]{
		layer:      l.name,
		input:      input,
		flat:       flat,
		activation: activation,
	}
}

// Backward computes dx, dWeights and dBias from the cached forward pass.
// The result is cached and returned.
func (l *FullyConnected[T]) Backward(dout Gradient[T]) Gradient[T] {
	l.grad = l.BackwardContext(l.cached(), dout)
	return l.grad
}

// BackwardContext computes the gradient record for an explicit forward context.
//
//	dx       = dout @ W.T      [N, D], reshaped to the input's shape
//	dWeights = x.T @ dout      [D, out]
//	dBias    = sum_rows(dout)  [1, out]
func (l *FullyConnected[T]) BackwardContext(ctx *Context[T], dout Gradient[T]) Gradient[T] {
	ctx.check(l.name, dout)

	dx := dout.DX.MatMul(l.weights.T())
	return Gradient[T]{
		DX:       dx.Reshape(ctx.input.Shape()...),
		DWeights: ctx.flat.T().MatMul(dout.DX),
		DBias:    dout.DX.SumAxis(0),
	}
}
