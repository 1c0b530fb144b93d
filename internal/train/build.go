package train

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/layerwise/internal/config"
	"github.com/born-ml/layerwise/internal/nn"
	"github.com/born-ml/layerwise/internal/tensor"
)

// Build constructs the layer chain a run describes. Weights are drawn from
// a source seeded with run.Seed, so equal runs build equal chains.
func Build(run *config.Run) (*nn.Chain[float64], error) {
	//nolint:gosec // reproducible initialization, not cryptography
	rng := rand.New(rand.NewSource(run.Seed))

	chain, err := nn.NewChain[float64]()
	if err != nil {
		return nil, err
	}

	var prev nn.Layer[float64]
	for i, lc := range run.Layers {
		var l nn.Layer[float64]
		switch lc.Type {
		case config.LayerInput:
			l = nn.NewInput[float64](lc.Name, tensor.Shape(lc.Shape))
		case config.LayerFullyConnected:
			l = nn.NewFullyConnected(lc.Name, prev, lc.Units, nn.WithRand(rng))
		case config.LayerReLU:
			l = nn.NewReLU(lc.Name, prev)
		case config.LayerSigmoid:
			l = nn.NewSigmoid(lc.Name, prev)
		case config.LayerTanh:
			l = nn.NewTanh(lc.Name, prev)
		default:
			return nil, fmt.Errorf("%w: layers[%d]: unknown layer type %q", config.ErrInvalidRun, i, lc.Type)
		}

		if _, err := chain.Add(l); err != nil {
			return nil, fmt.Errorf("layers[%d]: %w", i, err)
		}
		prev = l
	}
	return chain, nil
}

// NewLoss returns the loss a run names.
func NewLoss(name string) (nn.Loss[float64], error) {
	switch name {
	case config.LossMSE:
		return nn.NewMSELoss[float64](), nil
	case config.LossCrossEntropy:
		return nn.NewSoftmaxCrossEntropy[float64](), nil
	default:
		return nil, fmt.Errorf("%w: unknown loss %q", config.ErrInvalidRun, name)
	}
}
