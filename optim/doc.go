// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - GradientDescent: params - learning_rate * grads
//   - Momentum: gradient descent with a velocity buffer kept in State
//   - Optimizer interface for custom optimizers
//
// Optimizers are configured with a Config map of named hyperparameters.
// "learning_rate" is required; a missing entry is reported as a ConfigError
// wrapping ErrMissingHyperparameter.
//
// # Basic Usage
//
//	opt, err := optim.New[float64]("gradient_descent", optim.Config{
//	    "learning_rate": 0.1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state := optim.NewState[float64]()
//	weights = opt.Optimize(weights, grads, state)
package optim
