// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense tensors the
// layerwise engine computes on.
//
// Tensors are generic over their element type and store data contiguously
// in row-major order:
//   - Tensor[T]: dense n-dimensional array with shape and strides
//   - Shape, DataType: core type definitions
//   - Numeric, Float: element type constraints
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	y := tensor.Ones[float32](tensor.Shape{2, 3})
//	z := x.Add(y) // Element-wise addition
//	w := z.MatMul(tensor.Ones[float32](tensor.Shape{3, 4}))
package tensor
