package optim

import (
	"fmt"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Names returns the registered optimizer names.
func Names() []string {
	return []string{GradientDescentName, MomentumName, AdamName}
}

// New builds the optimizer registered under name from config.
// "sgd" is accepted as an alias of "gradient_descent".
func New[T tensor.Numeric](name string, config Config) (Optimizer[T], error) {
	switch name {
	case GradientDescentName, "sgd":
		gd, err := NewGradientDescent[T](config)
		if err != nil {
			return nil, err
		}
		return gd, nil
	case MomentumName:
		m, err := NewMomentum[T](config)
		if err != nil {
			return nil, err
		}
		return m, nil
	case AdamName:
		a, err := NewAdam[T](config)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownOptimizer, name, Names())
	}
}
