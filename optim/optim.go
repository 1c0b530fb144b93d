// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/layerwise/internal/optim"
	"github.com/born-ml/layerwise/internal/tensor"
)

// Optimizer computes updated parameters from parameters and gradients.
type Optimizer[T tensor.Numeric] = optim.Optimizer[T]

// Config maps hyperparameter names to values.
type Config = optim.Config

// State holds named tensors an optimizer carries across steps.
type State[T tensor.Numeric] = optim.State[T]

// NewState creates an empty optimizer state.
func NewState[T tensor.Numeric]() *State[T] {
	return optim.NewState[T]()
}

// ConfigError reports a missing or invalid hyperparameter.
type ConfigError = optim.ConfigError

// Hyperparameter keys.
const (
	KeyLearningRate = optim.KeyLearningRate
	KeyMomentum     = optim.KeyMomentum
	KeyBeta1        = optim.KeyBeta1
	KeyBeta2        = optim.KeyBeta2
	KeyEpsilon      = optim.KeyEpsilon
)

// Common errors.
var (
	ErrMissingHyperparameter = optim.ErrMissingHyperparameter
	ErrInvalidHyperparameter = optim.ErrInvalidHyperparameter
	ErrUnknownOptimizer      = optim.ErrUnknownOptimizer
	ErrStateRequired         = optim.ErrStateRequired
)

// Gradient descent

// GradientDescent updates parameters as params - learning_rate * grads.
type GradientDescent[T tensor.Numeric] = optim.GradientDescent[T]

// GradientDescentConfig is the typed form of a gradient descent Config.
type GradientDescentConfig = optim.GradientDescentConfig

// NewGradientDescent creates a gradient descent optimizer.
//
// Example:
//
//	opt, err := optim.NewGradientDescent[float32](optim.Config{"learning_rate": 0.01})
func NewGradientDescent[T tensor.Numeric](config Config) (*GradientDescent[T], error) {
	return optim.NewGradientDescent[T](config)
}

// Momentum

// Momentum is gradient descent with a velocity buffer.
type Momentum[T tensor.Numeric] = optim.Momentum[T]

// MomentumConfig is the typed form of a momentum Config.
type MomentumConfig = optim.MomentumConfig

// NewMomentum creates a momentum optimizer.
//
// Example:
//
//	opt, err := optim.NewMomentum[float64](optim.MomentumConfig{
//	    LearningRate: 0.01,
//	    Momentum:     0.9,
//	}.ToConfig())
func NewMomentum[T tensor.Numeric](config Config) (*Momentum[T], error) {
	return optim.NewMomentum[T](config)
}

// Adam

// Adam keeps bias-corrected first and second moment estimates per parameter.
type Adam[T tensor.Numeric] = optim.Adam[T]

// AdamConfig is the typed form of an Adam Config.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer.
//
// Example:
//
//	opt, err := optim.NewAdam[float32](optim.AdamConfig{LearningRate: 0.001}.ToConfig())
func NewAdam[T tensor.Numeric](config Config) (*Adam[T], error) {
	return optim.NewAdam[T](config)
}

// Registry

// Names returns the registered optimizer names.
func Names() []string {
	return optim.Names()
}

// New creates the optimizer registered under name.
func New[T tensor.Numeric](name string, config Config) (Optimizer[T], error) {
	return optim.New[T](name, config)
}
