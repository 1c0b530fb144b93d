// Package nn implements the differentiable layers of the layerwise engine.
//
// This package provides:
//   - Layer interface: forward/backward contract shared by all layers
//   - Gradient: the record passed between layers during backward propagation
//   - Input: start-of-chain marker carrying the example shape
//   - FullyConnected: affine layer owning weights and bias
//   - Activations: ReLU, Sigmoid, Tanh
//   - Chain: ordered container that drives forward, backward and updates
//   - Losses: MSE and softmax cross-entropy
//
// Each layer holds a non-owning reference to its predecessor, so a chain can
// be traversed from output back to input.
//
// Example:
//
//	in := nn.NewInput[float64]("in", tensor.Shape{1, 2})
//	fc := nn.NewFullyConnected("fc1", in, 4)
//	act := nn.NewSigmoid("sig1", fc)
//
//	out := act.Forward(fc.Forward(in.Forward(x)))
//	g := in.Backward(fc.Backward(act.Backward(nn.Seed(dout))))
package nn

import (
	"fmt"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Layer is the interface implemented by every differentiable layer.
//
// A layer caches the most recent Forward call's input and activation in a
// single slot; Backward consumes that slot. Interleaving two Forward calls
// before a Backward discards the first. Layers are not safe for concurrent
// use; ForwardContext/BackwardContext on concrete layers avoid the slot.
type Layer[T tensor.Float] interface {
	// Name returns the layer's identity.
	Name() string

	// InputLayer returns the predecessor, or nil at the start of a chain.
	InputLayer() Layer[T]

	// ActivationShape is the layer's output shape, excluding the batch dimension.
	ActivationShape() tensor.Shape

	// HasParameter reports whether the layer owns trainable weights and bias.
	HasParameter() bool

	// IsTraining reports the train/eval mode flag.
	IsTraining() bool

	// SetTrainingMode switches between training and evaluation mode.
	SetTrainingMode(training bool)

	// Forward computes the activation for a batched input and caches what
	// Backward needs. Rank < 3 inputs are batched by rows; rank 3 inputs by
	// their leading batch dimension.
	Forward(input *tensor.Tensor[T]) *tensor.Tensor[T]

	// Backward computes the gradient with respect to the cached input (and
	// the layer's parameters) from the gradient with respect to its output.
	// dout.DX must have the cached activation's shape.
	Backward(dout Gradient[T]) Gradient[T]

	// Weights returns the weight tensor (nil for parameter-less layers).
	Weights() *tensor.Tensor[T]

	// Bias returns the bias tensor (nil for parameter-less layers).
	Bias() *tensor.Tensor[T]

	// Gradient returns the record produced by the last Backward call.
	Gradient() Gradient[T]

	// SetWeights replaces the weight tensor. No shape validation is performed.
	SetWeights(w *tensor.Tensor[T])

	// SetBias replaces the bias tensor. No shape validation is performed.
	SetBias(b *tensor.Tensor[T])

	// SetGradient replaces the cached gradient record.
	SetGradient(g Gradient[T])
}

// base carries the bookkeeping shared by all layers.
type base[T tensor.Float] struct {
	name            string
	input           Layer[T]
	activationShape tensor.Shape
	hasParameter    bool
	training        bool

	weights *tensor.Tensor[T]
	bias    *tensor.Tensor[T]

	cache *Context[T]
	grad  Gradient[T]
}

func newBase[T tensor.Float](name string, input Layer[T], hasParameter bool) base[T] {
	return base[T]{
		name:         name,
		input:        input,
		hasParameter: hasParameter,
		training:     true,
	}
}

// Name returns the layer name.
func (b *base[T]) Name() string { return b.name }

// InputLayer returns the predecessor layer.
func (b *base[T]) InputLayer() Layer[T] { return b.input }

// ActivationShape returns a copy of the output shape.
func (b *base[T]) ActivationShape() tensor.Shape { return b.activationShape.Clone() }

// HasParameter reports whether the layer owns weights and bias.
func (b *base[T]) HasParameter() bool { return b.hasParameter }

// IsTraining reports the mode flag.
func (b *base[T]) IsTraining() bool { return b.training }

// SetTrainingMode sets the mode flag.
func (b *base[T]) SetTrainingMode(training bool) { b.training = training }

// Weights returns the weight tensor.
func (b *base[T]) Weights() *tensor.Tensor[T] { return b.weights }

// Bias returns the bias tensor.
func (b *base[T]) Bias() *tensor.Tensor[T] { return b.bias }

// Gradient returns the last computed gradient record.
func (b *base[T]) Gradient() Gradient[T] { return b.grad }

// SetGradient overwrites the cached gradient record.
func (b *base[T]) SetGradient(g Gradient[T]) { b.grad = g }

// SetWeights overwrites the weight tensor.
// Panics with ErrNoParameters on parameter-less layers.
func (b *base[T]) SetWeights(w *tensor.Tensor[T]) {
	if !b.hasParameter {
		panic(fmt.Errorf("%s: set weights: %w", b.name, ErrNoParameters))
	}
	b.weights = w
}

// SetBias overwrites the bias tensor.
// Panics with ErrNoParameters on parameter-less layers.
func (b *base[T]) SetBias(bias *tensor.Tensor[T]) {
	if !b.hasParameter {
		panic(fmt.Errorf("%s: set bias: %w", b.name, ErrNoParameters))
	}
	b.bias = bias
}

// cached returns the slot filled by the last Forward call.
func (b *base[T]) cached() *Context[T] {
	if b.cache == nil {
		panic(fmt.Errorf("%s: %w", b.name, ErrNoForwardCache))
	}
	return b.cache
}

// batchSize reads the number of examples from an input's shape.
func batchSize[T tensor.Float](input *tensor.Tensor[T]) int {
	if input.Rank() < 3 {
		return input.Rows()
	}
	return input.Batch()
}
