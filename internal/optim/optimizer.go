// Package optim implements parameter-update rules for training layers.
//
// This package provides:
//   - Optimizer interface: maps parameters and their gradients to updated parameters
//   - Config: hyperparameter mapping captured at construction
//   - State: per-parameter auxiliary tensors threaded through Optimize
//   - GradientDescent: plain learning-rate update (the baseline)
//   - Momentum: gradient descent with a velocity buffer kept in State
//
// Example usage:
//
//	opt, err := optim.NewGradientDescent[float32](optim.Config{
//	    optim.KeyLearningRate: 0.01,
//	})
//	if err != nil {
//	    return err
//	}
//
//	updated := opt.Optimize(weights, dWeights, nil)
package optim

import (
	"github.com/born-ml/layerwise/internal/tensor"
)

// Optimizer is the interface for all parameter-update rules.
//
// Optimize is a pure function of params and grads: it returns a new tensor
// with the shape of params and never mutates its inputs. Stateful rules keep
// their auxiliary tensors in state, which stateless rules ignore.
type Optimizer[T tensor.Numeric] interface {
	// Name returns the registry name of the optimizer.
	Name() string

	// Config returns a copy of the hyperparameters captured at construction.
	Config() Config

	// Optimize returns the updated parameters.
	Optimize(params, grads *tensor.Tensor[T], state *State[T]) *tensor.Tensor[T]
}
