package optim

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMissingHyperparameter = errors.New("missing hyperparameter")
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
	ErrUnknownOptimizer      = errors.New("unknown optimizer")
	ErrStateRequired         = errors.New("optimizer state required")
)

// ConfigError reports a hyperparameter problem found at construction.
type ConfigError struct {
	Optimizer string // Optimizer being constructed
	Key       string // Offending hyperparameter
	Err       error  // ErrMissingHyperparameter or ErrInvalidHyperparameter
	Details   string // Additional details
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s %q: %s", e.Optimizer, e.Err, e.Key, e.Details)
	}
	return fmt.Sprintf("%s: %s %q", e.Optimizer, e.Err, e.Key)
}

// Unwrap allows errors.Is(err, ErrMissingHyperparameter).
func (e *ConfigError) Unwrap() error {
	return e.Err
}
