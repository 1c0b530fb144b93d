// Package config describes a training run: the layer stack, the loss, the
// optimizer and its hyperparameters, and the dataset. Runs are read from
// YAML.
//
// Example:
//
//	seed: 1
//	epochs: 2000
//	loss: mse
//	optimizer:
//	  name: gradient_descent
//	  hyperparameters:
//	    learning_rate: 0.5
//	layers:
//	  - {type: input, name: in, shape: [1, 2]}
//	  - {type: fully_connected, name: hidden, units: 4}
//	  - {type: tanh, name: act}
//	  - {type: fully_connected, name: out, units: 1}
//	  - {type: sigmoid, name: prob}
//	dataset:
//	  name: xor
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/layerwise/internal/optim"
)

// Layer types.
const (
	LayerInput          = "input"
	LayerFullyConnected = "fully_connected"
	LayerReLU           = "relu"
	LayerSigmoid        = "sigmoid"
	LayerTanh           = "tanh"
)

// Loss names.
const (
	LossMSE          = "mse"
	LossCrossEntropy = "cross_entropy"
)

// Dataset names.
const (
	DatasetXOR    = "xor"
	DatasetInline = "inline"
)

// Run is a complete training run.
type Run struct {
	Seed      int64     `yaml:"seed"`
	Epochs    int       `yaml:"epochs"`
	LogEvery  int       `yaml:"log_every"`
	Loss      string    `yaml:"loss"`
	Optimizer Optimizer `yaml:"optimizer"`
	Layers    []Layer   `yaml:"layers"`
	Dataset   Dataset   `yaml:"dataset"`
}

// Optimizer selects an optimizer by registry name.
type Optimizer struct {
	Name            string       `yaml:"name"`
	Hyperparameters optim.Config `yaml:"hyperparameters"`
}

// Layer is one entry of the layer stack. Units applies to fully connected
// layers, Shape to the input layer.
type Layer struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name,omitempty"`
	Units int    `yaml:"units,omitempty"`
	Shape []int  `yaml:"shape,omitempty,flow"`
}

// Dataset is either the built-in XOR table or inline rows.
type Dataset struct {
	Name    string      `yaml:"name"`
	Inputs  [][]float64 `yaml:"inputs,omitempty,flow"`
	Targets [][]float64 `yaml:"targets,omitempty,flow"`
}

// Default returns the built-in XOR run: a 2-4-1 tanh/sigmoid network
// trained with plain gradient descent.
func Default() *Run {
	return &Run{
		Seed:     1,
		Epochs:   2000,
		LogEvery: 200,
		Loss:     LossMSE,
		Optimizer: Optimizer{
			Name:            optim.GradientDescentName,
			Hyperparameters: optim.Config{optim.KeyLearningRate: 0.5},
		},
		Layers: []Layer{
			{Type: LayerInput, Name: "in", Shape: []int{1, 2}},
			{Type: LayerFullyConnected, Name: "hidden", Units: 4},
			{Type: LayerTanh, Name: "act"},
			{Type: LayerFullyConnected, Name: "out", Units: 1},
			{Type: LayerSigmoid, Name: "prob"},
		},
		Dataset: Dataset{Name: DatasetXOR},
	}
}

// Load reads and validates a run from a YAML file.
func Load(path string) (*Run, error) {
	//nolint:gosec // G304: run files are chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	run, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return run, nil
}

// Parse decodes and validates a run from YAML. Unknown fields are
// rejected. Missing optional fields take their defaults.
func Parse(data []byte) (*Run, error) {
	run := &Run{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(run); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	run.applyDefaults()
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return run, nil
}

// Marshal encodes the run as YAML.
func (r *Run) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

func (r *Run) applyDefaults() {
	if r.Epochs == 0 {
		r.Epochs = 1000
	}
	if r.LogEvery == 0 {
		r.LogEvery = max(r.Epochs/10, 1)
	}
	if r.Loss == "" {
		r.Loss = LossMSE
	}
	if r.Optimizer.Name == "" {
		r.Optimizer.Name = optim.GradientDescentName
	}
	if r.Dataset.Name == "" && len(r.Dataset.Inputs) > 0 {
		r.Dataset.Name = DatasetInline
	}
	for i := range r.Layers {
		if r.Layers[i].Name == "" {
			r.Layers[i].Name = fmt.Sprintf("%s%d", r.Layers[i].Type, i)
		}
	}
}
