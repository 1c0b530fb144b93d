package train

import (
	"fmt"
	"strconv"

	"github.com/born-ml/layerwise/internal/config"
	"github.com/born-ml/layerwise/internal/nn"
	"github.com/born-ml/layerwise/internal/serialization"
)

// Checkpoint metadata keys.
const (
	MetaOptimizer = "optimizer"
	MetaLoss      = "loss"
	MetaEpochs    = "epochs"
	MetaFinalLoss = "final_loss"
)

// SaveCheckpoint writes the chain's parameters to a SafeTensors file,
// recording the run's optimizer, loss and epoch count as metadata.
func SaveCheckpoint(path string, chain *nn.Chain[float64], run *config.Run, h History) error {
	meta := map[string]string{
		MetaOptimizer: run.Optimizer.Name,
		MetaLoss:      run.Loss,
		MetaEpochs:    strconv.Itoa(len(h.Losses)),
		MetaFinalLoss: strconv.FormatFloat(h.Final(), 'g', -1, 64),
	}
	if err := serialization.WriteFile(path, chain.Parameters(), meta); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads parameters written by SaveCheckpoint into chain and
// returns the file's metadata.
func LoadCheckpoint(path string, chain *nn.Chain[float64]) (map[string]string, error) {
	f, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	params, err := serialization.ReadStateDict[float64](f)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if err := chain.LoadParameters(params); err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return f.Metadata(), nil
}
