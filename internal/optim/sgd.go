package optim

import (
	"github.com/born-ml/layerwise/internal/tensor"
)

// GradientDescentName is the registry name of GradientDescent.
const GradientDescentName = "gradient_descent"

// GradientDescent implements plain gradient descent.
//
// Update rule:
//
//	param = param - lr * gradient
//
// No momentum, weight decay or clipping. It keeps no state.
//
// Integer instantiations compute the update in float64 and truncate toward
// zero when converting back; they exist for interface uniformity.
//
// Example:
//
//	gd, err := optim.NewGradientDescent[float32](optim.Config{"learning_rate": 0.1})
//	w = gd.Optimize(w, dw, nil)
type GradientDescent[T tensor.Numeric] struct {
	config Config
	lr     float64
}

// NewGradientDescent creates a GradientDescent optimizer.
//
// Returns a *ConfigError wrapping ErrMissingHyperparameter if config has
// no "learning_rate"; there is no default.
func NewGradientDescent[T tensor.Numeric](config Config) (*GradientDescent[T], error) {
	config = config.Clone()
	lr, err := config.require(GradientDescentName, KeyLearningRate)
	if err != nil {
		return nil, err
	}
	return &GradientDescent[T]{config: config, lr: lr}, nil
}

// Name returns "gradient_descent".
func (g *GradientDescent[T]) Name() string { return GradientDescentName }

// Config returns a copy of the captured hyperparameters.
func (g *GradientDescent[T]) Config() Config { return g.config.Clone() }

// LearningRate returns the step size.
func (g *GradientDescent[T]) LearningRate() float64 { return g.lr }

// Optimize returns params - lr*grads. state is ignored.
// Panics with a tensor.ShapeError if the shapes differ.
func (g *GradientDescent[T]) Optimize(params, grads *tensor.Tensor[T], _ *State[T]) *tensor.Tensor[T] {
	return params.AddScaled(-g.lr, grads)
}
