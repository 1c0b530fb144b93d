package nn

import (
	"fmt"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Context is the forward state a layer needs to run its backward pass.
//
// ForwardContext returns one per call, so callers that thread contexts
// explicitly may keep several forward passes in flight on the same layer.
type Context[T tensor.Float] struct {
	layer      string
	input      *tensor.Tensor[T] // input as received
	flat       *tensor.Tensor[T] // [batch, features] view of input (affine layers)
	activation *tensor.Tensor[T]
}

// Input returns the input the forward pass received.
func (c *Context[T]) Input() *tensor.Tensor[T] { return c.input }

// Activation returns the output the forward pass produced.
func (c *Context[T]) Activation() *tensor.Tensor[T] { return c.activation }

// check validates that ctx belongs to layer and that dout matches the
// cached activation's shape.
func (c *Context[T]) check(layer string, dout Gradient[T]) {
	if c == nil {
		panic(fmt.Errorf("%s: %w", layer, ErrNoForwardCache))
	}
	if c.layer != layer {
		panic(fmt.Errorf("%s: context was produced by layer %q", layer, c.layer))
	}
	if dout.DX == nil {
		panic(&tensor.ShapeError{Op: layer + ".backward", Left: nil, Right: c.activation.Shape()})
	}
	if !dout.DX.Shape().Equal(c.activation.Shape()) {
		panic(&tensor.ShapeError{Op: layer + ".backward", Left: dout.DX.Shape(), Right: c.activation.Shape()})
	}
}
