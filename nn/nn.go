// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/layerwise/internal/nn"
	"github.com/born-ml/layerwise/internal/tensor"
)

// Layer is the interface shared by all layers.
type Layer[T tensor.Float] = nn.Layer[T]

// Gradient is the record a layer produces during backward propagation.
type Gradient[T tensor.Float] = nn.Gradient[T]

// Context is the forward state a layer needs to run its backward pass.
type Context[T tensor.Float] = nn.Context[T]

// Seed wraps an upstream gradient as the record passed to the first Backward call.
func Seed[T tensor.Float](dx *tensor.Tensor[T]) Gradient[T] {
	return nn.Seed(dx)
}

// Common errors.
var (
	ErrNoForwardCache   = nn.ErrNoForwardCache
	ErrUninitialized    = nn.ErrUninitialized
	ErrNoParameters     = nn.ErrNoParameters
	ErrBrokenChain      = nn.ErrBrokenChain
	ErrDuplicateName    = nn.ErrDuplicateName
	ErrMissingParameter = nn.ErrMissingParameter
)

// Layers

// Input marks the start of a chain.
type Input[T tensor.Float] = nn.Input[T]

// NewInput creates an Input layer for examples of the given shape.
func NewInput[T tensor.Float](name string, shape tensor.Shape) *Input[T] {
	return nn.NewInput[T](name, shape)
}

// FullyConnected is an affine layer: y = x @ W + b.
type FullyConnected[T tensor.Float] = nn.FullyConnected[T]

// Option configures layer construction.
type Option = nn.Option

// WithRand draws initial weights from rng instead of the global source.
func WithRand(rng *rand.Rand) Option {
	return nn.WithRand(rng)
}

// NewFullyConnected creates a FullyConnected layer fed by input.
//
// Example:
//
//	in := nn.NewInput[float32]("in", tensor.Shape{1, 784})
//	fc := nn.NewFullyConnected("fc1", in, 128)
func NewFullyConnected[T tensor.Float](name string, input Layer[T], numOutput int, opts ...Option) *FullyConnected[T] {
	return nn.NewFullyConnected(name, input, numOutput, opts...)
}

// Activations

// ReLU applies max(0, x) element-wise.
type ReLU[T tensor.Float] = nn.ReLU[T]

// NewReLU creates a ReLU layer.
func NewReLU[T tensor.Float](name string, input Layer[T]) *ReLU[T] {
	return nn.NewReLU(name, input)
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
type Sigmoid[T tensor.Float] = nn.Sigmoid[T]

// NewSigmoid creates a Sigmoid layer.
func NewSigmoid[T tensor.Float](name string, input Layer[T]) *Sigmoid[T] {
	return nn.NewSigmoid(name, input)
}

// Tanh applies the hyperbolic tangent element-wise.
type Tanh[T tensor.Float] = nn.Tanh[T]

// NewTanh creates a Tanh layer.
func NewTanh[T tensor.Float](name string, input Layer[T]) *Tanh[T] {
	return nn.NewTanh(name, input)
}

// Chain

// Chain is an ordered container that owns a sequence of layers.
type Chain[T tensor.Float] = nn.Chain[T]

// NewChain creates a Chain from layers in input-to-output order.
func NewChain[T tensor.Float](layers ...Layer[T]) (*Chain[T], error) {
	return nn.NewChain(layers...)
}

// Loss functions

// Loss is a scalar objective whose derivative seeds backward propagation.
type Loss[T tensor.Float] = nn.Loss[T]

// MSELoss computes Mean Squared Error loss.
type MSELoss[T tensor.Float] = nn.MSELoss[T]

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[T tensor.Float]() *MSELoss[T] {
	return nn.NewMSELoss[T]()
}

// SoftmaxCrossEntropy combines a row-wise softmax with negative log-likelihood.
type SoftmaxCrossEntropy[T tensor.Float] = nn.SoftmaxCrossEntropy[T]

// NewSoftmaxCrossEntropy creates a new softmax cross-entropy loss.
func NewSoftmaxCrossEntropy[T tensor.Float]() *SoftmaxCrossEntropy[T] {
	return nn.NewSoftmaxCrossEntropy[T]()
}

// Softmax applies a numerically stable softmax to each row.
func Softmax[T tensor.Float](logits *tensor.Tensor[T]) *tensor.Tensor[T] {
	return nn.Softmax(logits)
}

// Gradient checking

// NumericalGradient estimates the input gradient of sum(layer.Forward(x) * dout)
// with central finite differences.
func NumericalGradient[T tensor.Float](layer Layer[T], input, dout *tensor.Tensor[T], step float64) *tensor.Tensor[T] {
	return nn.NumericalGradient(layer, input, dout, step)
}

// NumericalWeightGradient estimates the weight gradient of sum(layer.Forward(x) * dout).
func NumericalWeightGradient[T tensor.Float](layer Layer[T], input, dout *tensor.Tensor[T], step float64) *tensor.Tensor[T] {
	return nn.NumericalWeightGradient(layer, input, dout, step)
}
