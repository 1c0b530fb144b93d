package nn

import (
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/layerwise/internal/tensor"
)

// NumericalGradient estimates the gradient of sum(layer.Forward(x) * dout)
// with respect to x using central finite differences. It is the reference
// Backward's DX is checked against.
//
// The layer's forward cache is overwritten; run Forward again before Backward.
func NumericalGradient[T tensor.Float](layer Layer[T], input, dout *tensor.Tensor[T], step float64) *tensor.Tensor[T] {
	shape := input.Shape()
	objective := func(x []float64) float64 {
		return projected(layer, fromFloat64[T](x, shape), dout)
	}

	grad := fd.Gradient(nil, objective, toFloat64(input), &fd.Settings{
		Formula: fd.Central,
		Step:    step,
	})
	return fromFloat64[T](grad, shape)
}

// NumericalWeightGradient estimates the gradient of sum(layer.Forward(x) * dout)
// with respect to the layer's weights. The weights are restored afterwards.
func NumericalWeightGradient[T tensor.Float](layer Layer[T], input, dout *tensor.Tensor[T], step float64) *tensor.Tensor[T] {
	original := layer.Weights()
	defer layer.SetWeights(original)

	shape := original.Shape()
	objective := func(w []float64) float64 {
		layer.SetWeights(fromFloat64[T](w, shape))
		return projected(layer, input, dout)
	}

	grad := fd.Gradient(nil, objective, toFloat64(original), &fd.Settings{
		Formula: fd.Central,
		Step:    step,
	})
	return fromFloat64[T](grad, shape)
}

// projected returns sum(layer.Forward(x) * dout) in float64.
func projected[T tensor.Float](layer Layer[T], x, dout *tensor.Tensor[T]) float64 {
	out := layer.Forward(x)
	var s float64
	for i, v := range out.Data() {
		s += float64(v) * float64(dout.Data()[i])
	}
	return s
}

func toFloat64[T tensor.Float](t *tensor.Tensor[T]) []float64 {
	out := make([]float64, t.NumElements())
	for i, v := range t.Data() {
		out[i] = float64(v)
	}
	return out
}

func fromFloat64[T tensor.Float](data []float64, shape tensor.Shape) *tensor.Tensor[T] {
	t := tensor.New[T](shape)
	for i, v := range data {
		t.Data()[i] = T(v)
	}
	return t
}
