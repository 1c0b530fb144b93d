// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/layerwise/nn"
	"github.com/born-ml/layerwise/optim"
	"github.com/born-ml/layerwise/tensor"
)

// TestPublicAPI trains a small regression chain through the public packages.
func TestPublicAPI(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data

	in := nn.NewInput[float64]("in", tensor.Shape{1, 3})
	fc1 := nn.NewFullyConnected[float64]("fc1", in, 8, nn.WithRand(rng))
	act := nn.NewReLU[float64]("relu", fc1)
	fc2 := nn.NewFullyConnected[float64]("fc2", act, 1, nn.WithRand(rng))
	out := nn.NewSigmoid[float64]("out", fc2)

	chain, err := nn.NewChain[float64](in, fc1, act, fc2, out)
	require.NoError(t, err)

	opt, err := optim.New[float64]("sgd", optim.Config{optim.KeyLearningRate: 0.5})
	require.NoError(t, err)

	x := tensor.RandnWith[float64](tensor.Shape{16, 3}, rng)
	y := tensor.New[float64](tensor.Shape{16, 1})
	for i := range 16 {
		if x.At(i, 0)+x.At(i, 1) > 0 {
			y.Set(1, i, 0)
		}
	}

	criterion := nn.NewMSELoss[float64]()
	first := criterion.Forward(chain.Forward(x), y)
	for range 200 {
		criterion.Forward(chain.Forward(x), y)
		chain.Backward(criterion.Backward())
		chain.Step(opt)
	}
	last := criterion.Forward(chain.Forward(x), y)

	assert.Less(t, last, first)
}

func TestPublicAPI_Errors(t *testing.T) {
	_, err := optim.NewGradientDescent[float32](optim.Config{})
	require.ErrorIs(t, err, optim.ErrMissingHyperparameter)

	var cerr *optim.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, optim.KeyLearningRate, cerr.Key)

	relu := nn.NewReLU[float32]("relu", nil)
	assert.PanicsWithError(t, "relu: "+nn.ErrNoForwardCache.Error(), func() {
		relu.Backward(nn.Seed(tensor.Ones[float32](tensor.Shape{1, 2})))
	})
}
