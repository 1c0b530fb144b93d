package optim

import (
	"fmt"

	"github.com/born-ml/layerwise/internal/tensor"
)

// MomentumName is the registry name of Momentum.
const MomentumName = "momentum"

// velocityKey is the State key of the velocity buffer.
const velocityKey = "velocity"

// Momentum implements gradient descent with momentum.
//
// Update rule:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// The velocity lives in the per-parameter State and starts at zero.
type Momentum[T tensor.Numeric] struct {
	config   Config
	lr       float64
	momentum float64
}

// NewMomentum creates a Momentum optimizer. Both "learning_rate" and
// "momentum" are required; momentum must lie in [0, 1).
func NewMomentum[T tensor.Numeric](config Config) (*Momentum[T], error) {
	config = config.Clone()
	m, err := parseMomentum(config)
	if err != nil {
		return nil, err
	}
	return &Momentum[T]{config: config, lr: m.lr, momentum: m.momentum}, nil
}

type momentumParams struct {
	lr       float64
	momentum float64
}

func parseMomentum(config Config) (momentumParams, error) {
	lr, err := config.require(MomentumName, KeyLearningRate)
	if err != nil {
		return momentumParams{}, err
	}
	mu, err := config.require(MomentumName, KeyMomentum)
	if err != nil {
		return momentumParams{}, err
	}
	if mu < 0 || mu >= 1 {
		return momentumParams{}, &ConfigError{
			Optimizer: MomentumName,
			Key:       KeyMomentum,
			Err:       ErrInvalidHyperparameter,
			Details:   fmt.Sprintf("%v not in [0, 1)", mu),
		}
	}
	return momentumParams{lr: lr, momentum: mu}, nil
}

// Name returns "momentum".
func (m *Momentum[T]) Name() string { return MomentumName }

// Config returns a copy of the captured hyperparameters.
func (m *Momentum[T]) Config() Config { return m.config.Clone() }

// Optimize updates the velocity held in state and returns params - lr*velocity.
// Panics with ErrStateRequired if state is nil.
func (m *Momentum[T]) Optimize(params, grads *tensor.Tensor[T], state *State[T]) *tensor.Tensor[T] {
	if state == nil {
		panic(fmt.Errorf("%s: %w", MomentumName, ErrStateRequired))
	}

	velocity, ok := state.Get(velocityKey)
	if !ok {
		velocity = tensor.Zeros[T](params.Shape())
	}

	velocity = grads.AddScaled(m.momentum, velocity)
	state.Set(velocityKey, velocity)

	return params.AddScaled(-m.lr, velocity)
}
