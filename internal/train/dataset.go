package train

import (
	"fmt"

	"github.com/born-ml/layerwise/internal/config"
	"github.com/born-ml/layerwise/internal/tensor"
)

// XOR returns the four-row exclusive-or table as [4, 2] inputs and [4, 1]
// targets.
func XOR() (inputs, targets *tensor.Tensor[float64]) {
	inputs = tensor.MustFromSlice([]float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	}, tensor.Shape{4, 2})
	targets = tensor.MustFromSlice([]float64{0, 1, 1, 0}, tensor.Shape{4, 1})
	return inputs, targets
}

// LoadDataset materializes the dataset a run names.
func LoadDataset(d config.Dataset) (inputs, targets *tensor.Tensor[float64], err error) {
	switch d.Name {
	case config.DatasetXOR:
		inputs, targets = XOR()
		return inputs, targets, nil
	case config.DatasetInline:
		if inputs, err = fromRows(d.Inputs); err != nil {
			return nil, nil, fmt.Errorf("inputs: %w", err)
		}
		if targets, err = fromRows(d.Targets); err != nil {
			return nil, nil, fmt.Errorf("targets: %w", err)
		}
		return inputs, targets, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown dataset %q", config.ErrInvalidRun, d.Name)
	}
}

// fromRows stacks equal-width rows into a [len(rows), width] tensor.
func fromRows(rows [][]float64) (*tensor.Tensor[float64], error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", tensor.ErrInvalidShape)
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for _, row := range rows {
		data = append(data, row...)
	}
	return tensor.FromSlice(data, tensor.Shape{len(rows), width})
}
