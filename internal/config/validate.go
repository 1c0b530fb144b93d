package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/layerwise/internal/optim"
)

// ErrInvalidRun is wrapped by every validation failure.
var ErrInvalidRun = errors.New("invalid run configuration")

// FieldError reports the configuration field that failed validation.
type FieldError struct {
	Field   string // Dotted path, e.g. "layers[2].units"
	Details string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRun, e.Field, e.Details)
}

// Unwrap allows errors.Is(err, ErrInvalidRun).
func (e *FieldError) Unwrap() error {
	return ErrInvalidRun
}

func invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Details: fmt.Sprintf(format, args...)}
}

// Validate checks the run for consistency: the layer stack starts with a
// single input layer, widths line up with the dataset, and the optimizer
// accepts its hyperparameters.
func (r *Run) Validate() error {
	if r.Epochs <= 0 {
		return invalid("epochs", "must be positive, got %d", r.Epochs)
	}
	if r.LogEvery <= 0 {
		return invalid("log_every", "must be positive, got %d", r.LogEvery)
	}
	if r.Loss != LossMSE && r.Loss != LossCrossEntropy {
		return invalid("loss", "unknown loss %q (want %s or %s)", r.Loss, LossMSE, LossCrossEntropy)
	}
	if _, err := optim.New[float64](r.Optimizer.Name, r.Optimizer.Hyperparameters); err != nil {
		return fmt.Errorf("%w: optimizer: %w", ErrInvalidRun, err)
	}

	inWidth, outWidth, err := r.validateLayers()
	if err != nil {
		return err
	}
	return r.validateDataset(inWidth, outWidth)
}

// validateLayers returns the flattened input width and the output width of
// the stack.
func (r *Run) validateLayers() (inWidth, outWidth int, err error) {
	if len(r.Layers) == 0 {
		return 0, 0, invalid("layers", "at least one layer is required")
	}

	seen := make(map[string]bool, len(r.Layers))
	for i, l := range r.Layers {
		field := fmt.Sprintf("layers[%d]", i)
		if seen[l.Name] {
			return 0, 0, invalid(field+".name", "duplicate name %q", l.Name)
		}
		seen[l.Name] = true

		if (i == 0) != (l.Type == LayerInput) {
			return 0, 0, invalid(field+".type", "the first layer, and only the first, must be %q", LayerInput)
		}

		switch l.Type {
		case LayerInput:
			if len(l.Shape) == 0 {
				return 0, 0, invalid(field+".shape", "input shape is required")
			}
			inWidth = 1
			for _, dim := range l.Shape {
				if dim <= 0 {
					return 0, 0, invalid(field+".shape", "dimensions must be positive, got %v", l.Shape)
				}
				inWidth *= dim
			}
			outWidth = inWidth
		case LayerFullyConnected:
			if l.Units <= 0 {
				return 0, 0, invalid(field+".units", "must be positive, got %d", l.Units)
			}
			outWidth = l.Units
		case LayerReLU, LayerSigmoid, LayerTanh:
		default:
			return 0, 0, invalid(field+".type", "unknown layer type %q", l.Type)
		}
	}
	return inWidth, outWidth, nil
}

func (r *Run) validateDataset(inWidth, outWidth int) error {
	switch r.Dataset.Name {
	case DatasetXOR:
		if inWidth != 2 || outWidth != 1 {
			return invalid("dataset", "xor needs 2 inputs and 1 output, network has %d and %d", inWidth, outWidth)
		}
		return nil
	case DatasetInline:
	default:
		return invalid("dataset.name", "unknown dataset %q", r.Dataset.Name)
	}

	d := r.Dataset
	if len(d.Inputs) == 0 {
		return invalid("dataset.inputs", "no rows")
	}
	if len(d.Inputs) != len(d.Targets) {
		return invalid("dataset.targets", "%d rows for %d inputs", len(d.Targets), len(d.Inputs))
	}
	if err := checkRows("dataset.inputs", d.Inputs, inWidth); err != nil {
		return err
	}
	return checkRows("dataset.targets", d.Targets, outWidth)
}

func checkRows(field string, rows [][]float64, width int) error {
	for i, row := range rows {
		if len(row) != width {
			return invalid(fmt.Sprintf("%s[%d]", field, i), "width %d, want %d", len(row), width)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid(fmt.Sprintf("%s[%d]", field, i), "non-finite value %v", v)
			}
		}
	}
	return nil
}
