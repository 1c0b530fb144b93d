// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and the chain that trains them.
//
// # Overview
//
// This package contains:
//   - Layers: Input, FullyConnected
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: MSELoss, SoftmaxCrossEntropy
//   - Utilities: Chain, Gradient, Context, NumericalGradient
//
// Every layer propagates forward and backward explicitly: Forward caches
// what Backward needs, and Backward returns a Gradient record carrying the
// gradient with respect to the input plus, for parameterized layers, the
// weight and bias gradients.
//
// # Basic Usage
//
//	in := nn.NewInput[float64]("in", tensor.Shape{1, 2})
//	fc1 := nn.NewFullyConnected("fc1", in, 4)
//	act := nn.NewTanh("tanh", fc1)
//	fc2 := nn.NewFullyConnected("fc2", act, 1)
//
//	chain, err := nn.NewChain[float64](in, fc1, act, fc2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opt, _ := optim.NewGradientDescent[float64](optim.Config{"learning_rate": 0.1})
//	criterion := nn.NewMSELoss[float64]()
//
//	for epoch := range 1000 {
//	    loss := criterion.Forward(chain.Forward(x), y)
//	    chain.Backward(criterion.Backward())
//	    chain.Step(opt)
//	}
//
// # Explicit contexts
//
// Layers keep a single forward cache. Callers that need several forward
// passes in flight use ForwardContext and BackwardContext instead:
//
//	out, ctx := fc1.ForwardContext(x)
//	grad := fc1.BackwardContext(ctx, nn.Seed(dout))
package nn
