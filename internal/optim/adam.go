package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/layerwise/internal/tensor"
)

// AdamName is the registry name of Adam.
const AdamName = "adam"

// State keys of the Adam moment estimates.
const (
	firstMomentKey  = "first_moment"
	secondMomentKey = "second_moment"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + epsilon)
//
// Both moments and the timestep t live in the per-parameter State.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam[T tensor.Numeric] struct {
	config Config
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
}

// NewAdam creates an Adam optimizer. "learning_rate" is required.
//
// Default hyperparameters:
//   - beta1: 0.9
//   - beta2: 0.999
//   - epsilon: 1e-8
func NewAdam[T tensor.Numeric](config Config) (*Adam[T], error) {
	config = config.Clone()
	p, err := parseAdam(config)
	if err != nil {
		return nil, err
	}
	return &Adam[T]{config: config, lr: p.lr, beta1: p.beta1, beta2: p.beta2, eps: p.eps}, nil
}

type adamParams struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
}

func parseAdam(config Config) (adamParams, error) {
	var p adamParams
	var err error
	if p.lr, err = config.require(AdamName, KeyLearningRate); err != nil {
		return adamParams{}, err
	}
	for _, b := range []struct {
		key string
		dst *float64
		def float64
	}{
		{KeyBeta1, &p.beta1, 0.9},
		{KeyBeta2, &p.beta2, 0.999},
	} {
		if *b.dst, err = config.optional(AdamName, b.key, b.def); err != nil {
			return adamParams{}, err
		}
		if *b.dst < 0 || *b.dst >= 1 {
			return adamParams{}, &ConfigError{
				Optimizer: AdamName,
				Key:       b.key,
				Err:       ErrInvalidHyperparameter,
				Details:   fmt.Sprintf("%v not in [0, 1)", *b.dst),
			}
		}
	}
	if p.eps, err = config.optional(AdamName, KeyEpsilon, 1e-8); err != nil {
		return adamParams{}, err
	}
	if p.eps <= 0 {
		return adamParams{}, &ConfigError{
			Optimizer: AdamName,
			Key:       KeyEpsilon,
			Err:       ErrInvalidHyperparameter,
			Details:   "must be positive",
		}
	}
	return p, nil
}

// Name returns "adam".
func (a *Adam[T]) Name() string { return AdamName }

// Config returns a copy of the captured hyperparameters.
func (a *Adam[T]) Config() Config { return a.config.Clone() }

// Optimize updates the moment estimates held in state, advances its step
// counter and returns the bias-corrected update of params.
// Panics with ErrStateRequired if state is nil.
//
// Integer instantiations truncate the moments and the step toward zero.
func (a *Adam[T]) Optimize(params, grads *tensor.Tensor[T], state *State[T]) *tensor.Tensor[T] {
	if state == nil {
		panic(fmt.Errorf("%s: %w", AdamName, ErrStateRequired))
	}

	m, ok := state.Get(firstMomentKey)
	if !ok {
		m = tensor.Zeros[T](params.Shape())
	}
	v, ok := state.Get(secondMomentKey)
	if !ok {
		v = tensor.Zeros[T](params.Shape())
	}

	m = grads.MulScalar(1-a.beta1).AddScaled(a.beta1, m)
	v = grads.Mul(grads).MulScalar(1-a.beta2).AddScaled(a.beta2, v)
	state.Set(firstMomentKey, m)
	state.Set(secondMomentKey, v)

	t := float64(state.Advance())
	correction1 := 1 - math.Pow(a.beta1, t)
	correction2 := 1 - math.Pow(a.beta2, t)

	step := m.Map2("adam", v, func(mi, vi T) T {
		mHat := float64(mi) / correction1
		vHat := float64(vi) / correction2
		return T(a.lr * mHat / (math.Sqrt(vHat) + a.eps))
	})
	return params.AddScaled(-1, step)
}
