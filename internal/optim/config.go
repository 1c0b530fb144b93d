package optim

import (
	"maps"
	"math"
	"slices"
)

// Hyperparameter keys.
const (
	KeyLearningRate = "learning_rate"
	KeyMomentum     = "momentum"
	KeyBeta1        = "beta1"
	KeyBeta2        = "beta2"
	KeyEpsilon      = "epsilon"
)

// Config maps hyperparameter names to values.
//
// Optimizers clone the map at construction, so later changes to the
// caller's map do not affect them.
type Config map[string]float64

// Clone returns a copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	return maps.Clone(c)
}

// Keys returns the hyperparameter names in sorted order.
func (c Config) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// require returns the value of key or a ConfigError naming optimizer.
// Non-finite values are rejected.
func (c Config) require(optimizer, key string) (float64, error) {
	v, ok := c[key]
	if !ok {
		return 0, &ConfigError{Optimizer: optimizer, Key: key, Err: ErrMissingHyperparameter}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ConfigError{Optimizer: optimizer, Key: key, Err: ErrInvalidHyperparameter, Details: "value must be finite"}
	}
	return v, nil
}

// optional is require with def returned when key is absent.
func (c Config) optional(optimizer, key string, def float64) (float64, error) {
	if _, ok := c[key]; !ok {
		return def, nil
	}
	return c.require(optimizer, key)
}

// GradientDescentConfig holds typed configuration for GradientDescent.
type GradientDescentConfig struct {
	LearningRate float64 // Step size; required, no default
}

// Validate checks the configuration.
func (c GradientDescentConfig) Validate() error {
	_, err := c.ToConfig().require(GradientDescentName, KeyLearningRate)
	return err
}

// ToConfig converts to the hyperparameter mapping.
func (c GradientDescentConfig) ToConfig() Config {
	return Config{KeyLearningRate: c.LearningRate}
}

// MomentumConfig holds typed configuration for Momentum.
type MomentumConfig struct {
	LearningRate float64 // Step size; required
	Momentum     float64 // Velocity decay in [0, 1); required
}

// Validate checks the configuration.
func (c MomentumConfig) Validate() error {
	_, err := parseMomentum(c.ToConfig())
	return err
}

// ToConfig converts to the hyperparameter mapping.
func (c MomentumConfig) ToConfig() Config {
	return Config{KeyLearningRate: c.LearningRate, KeyMomentum: c.Momentum}
}

// AdamConfig holds typed configuration for Adam. Zero Beta1, Beta2 and
// Epsilon select the defaults.
type AdamConfig struct {
	LearningRate float64 // Step size; required
	Beta1        float64 // First moment decay (default: 0.9)
	Beta2        float64 // Second moment decay (default: 0.999)
	Epsilon      float64 // Denominator term (default: 1e-8)
}

// Validate checks the configuration.
func (c AdamConfig) Validate() error {
	_, err := parseAdam(c.ToConfig())
	return err
}

// ToConfig converts to the hyperparameter mapping, leaving zero optional
// fields out.
func (c AdamConfig) ToConfig() Config {
	cfg := Config{KeyLearningRate: c.LearningRate}
	if c.Beta1 != 0 {
		cfg[KeyBeta1] = c.Beta1
	}
	if c.Beta2 != 0 {
		cfg[KeyBeta2] = c.Beta2
	}
	if c.Epsilon != 0 {
		cfg[KeyEpsilon] = c.Epsilon
	}
	return cfg
}
