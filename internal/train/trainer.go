// Package train runs training loops over a layer chain: forward pass, loss,
// backward pass and optimizer step, once per epoch over the full batch.
package train

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/layerwise/internal/config"
	"github.com/born-ml/layerwise/internal/nn"
	"github.com/born-ml/layerwise/internal/optim"
	"github.com/born-ml/layerwise/internal/tensor"
)

// Trainer drives a chain with a loss and an optimizer.
type Trainer struct {
	chain    *nn.Chain[float64]
	loss     nn.Loss[float64]
	opt      optim.Optimizer[float64]
	epochs   int
	logEvery int
	logger   *slog.Logger
}

// History records the loss after every epoch.
type History struct {
	Losses   []float64
	Duration time.Duration
}

// Final returns the last recorded loss, or 0 for an empty history.
func (h History) Final() float64 {
	if len(h.Losses) == 0 {
		return 0
	}
	return h.Losses[len(h.Losses)-1]
}

// NewTrainer builds the chain, loss and optimizer for run. A nil logger
// discards progress output.
func NewTrainer(run *config.Run, logger *slog.Logger) (*Trainer, error) {
	chain, err := Build(run)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}
	loss, err := NewLoss(run.Loss)
	if err != nil {
		return nil, err
	}
	opt, err := optim.New[float64](run.Optimizer.Name, run.Optimizer.Hyperparameters)
	if err != nil {
		return nil, fmt.Errorf("create optimizer: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Trainer{
		chain:    chain,
		loss:     loss,
		opt:      opt,
		epochs:   run.Epochs,
		logEvery: max(run.LogEvery, 1),
		logger:   logger,
	}, nil
}

// Chain returns the chain being trained.
func (t *Trainer) Chain() *nn.Chain[float64] { return t.chain }

// Optimizer returns the optimizer applied at every step.
func (t *Trainer) Optimizer() optim.Optimizer[float64] { return t.opt }

// Step runs one forward/backward/update cycle and returns the loss before
// the update.
func (t *Trainer) Step(inputs, targets *tensor.Tensor[float64]) float64 {
	loss := t.loss.Forward(t.chain.Forward(inputs), targets)
	t.chain.Backward(t.loss.Backward())
	t.chain.Step(t.opt)
	return loss
}

// Fit trains for the configured number of epochs. It stops early with the
// context's error if ctx is canceled; the history up to that point is
// returned either way.
func (t *Trainer) Fit(ctx context.Context, inputs, targets *tensor.Tensor[float64]) (History, error) {
	start := time.Now()
	h := History{Losses: make([]float64, 0, t.epochs)}

	t.chain.SetTrainingMode(true)
	t.logger.Info("training started",
		"epochs", t.epochs,
		"examples", inputs.Rows(),
		"optimizer", t.opt.Name(),
		"layers", t.chain.Len())

	for epoch := 1; epoch <= t.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			h.Duration = time.Since(start)
			return h, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		loss := t.Step(inputs, targets)
		h.Losses = append(h.Losses, loss)

		if epoch%t.logEvery == 0 || epoch == t.epochs {
			t.logger.Info("epoch", "epoch", epoch, "loss", loss)
		}
	}

	h.Duration = time.Since(start)
	t.logger.Info("training finished", "loss", h.Final(), "duration", h.Duration)
	return h, nil
}

// Evaluate returns the loss on inputs without updating parameters.
func (t *Trainer) Evaluate(inputs, targets *tensor.Tensor[float64]) float64 {
	defer t.inference()()
	return t.loss.Forward(t.chain.Forward(inputs), targets)
}

// Predict runs a forward pass in inference mode.
func (t *Trainer) Predict(inputs *tensor.Tensor[float64]) *tensor.Tensor[float64] {
	defer t.inference()()
	return t.chain.Forward(inputs)
}

// inference switches the chain to eval mode and returns a func restoring
// the mode it was in before.
func (t *Trainer) inference() func() {
	training := true
	if out := t.chain.Output(); out != nil {
		training = out.IsTraining()
	}
	t.chain.SetTrainingMode(false)
	return func() { t.chain.SetTrainingMode(training) }
}
