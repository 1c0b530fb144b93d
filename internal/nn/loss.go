package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Loss is a scalar objective whose derivative seeds backward propagation.
//
// Forward caches what Backward needs, with the same single-slot contract
// as Layer.
type Loss[T tensor.Float] interface {
	// Forward returns the loss of predictions against targets.
	Forward(predictions, targets *tensor.Tensor[T]) T

	// Backward returns the gradient of the last Forward's loss with respect
	// to the predictions, ready to pass to the output layer.
	Backward() Gradient[T]
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values.
type MSELoss[T tensor.Float] struct {
	diff *tensor.Tensor[T]
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[T tensor.Float]() *MSELoss[T] {
	return &MSELoss[T]{}
}

// Forward computes the MSE loss.
// Panics with a tensor.ShapeError if shapes differ.
func (m *MSELoss[T]) Forward(predictions, targets *tensor.Tensor[T]) T {
	m.diff = predictions.Sub(targets)
	return m.diff.Mul(m.diff).Sum() / T(m.diff.NumElements())
}

// Backward returns 2 * (predictions - targets) / numel.
func (m *MSELoss[T]) Backward() Gradient[T] {
	if m.diff == nil {
		panic(fmt.Errorf("mse: %w", ErrNoForwardCache))
	}
	return Seed(m.diff.MulScalar(2 / float64(m.diff.NumElements())))
}

// SoftmaxCrossEntropy combines a row-wise softmax with the negative
// log-likelihood against one-hot (or soft) targets, averaged over the batch.
//
// Loss = -1/N * sum_i sum_c target[i,c] * log(softmax(pred)[i,c])
//
// The softmax subtracts the row maximum before exponentiating.
type SoftmaxCrossEntropy[T tensor.Float] struct {
	probs   *tensor.Tensor[T]
	targets *tensor.Tensor[T]
}

// NewSoftmaxCrossEntropy creates a new softmax cross-entropy loss.
func NewSoftmaxCrossEntropy[T tensor.Float]() *SoftmaxCrossEntropy[T] {
	return &SoftmaxCrossEntropy[T]{}
}

// Forward computes the mean cross-entropy of [N, C] logits against [N, C] targets.
func (s *SoftmaxCrossEntropy[T]) Forward(logits, targets *tensor.Tensor[T]) T {
	if logits.Rank() != 2 || !logits.Shape().Equal(targets.Shape()) {
		panic(&tensor.ShapeError{Op: "softmax_cross_entropy", Left: logits.Shape(), Right: targets.Shape()})
	}

	s.probs = Softmax(logits)
	s.targets = targets

	n, c := logits.Shape()[0], logits.Shape()[1]
	p, y := s.probs.Data(), targets.Data()

	var loss float64
	for i := 0; i < n*c; i++ {
		if y[i] != 0 {
			loss -= float64(y[i]) * math.Log(math.Max(float64(p[i]), 1e-12))
		}
	}
	return T(loss / float64(n))
}

// Backward returns (softmax - targets) / N.
func (s *SoftmaxCrossEntropy[T]) Backward() Gradient[T] {
	if s.probs == nil {
		panic(fmt.Errorf("softmax_cross_entropy: %w", ErrNoForwardCache))
	}
	n := s.probs.Shape()[0]
	return Seed(s.probs.Sub(s.targets).MulScalar(1 / float64(n)))
}

// Softmax applies a numerically stable softmax to each row of a [N, C] tensor.
func Softmax[T tensor.Float](logits *tensor.Tensor[T]) *tensor.Tensor[T] {
	shape := logits.Shape().Flatten2D()
	n, c := shape[0], shape[1]

	out := tensor.New[T](logits.Shape())
	src, dst := logits.Data(), out.Data()
	for i := 0; i < n; i++ {
		row := src[i*c : (i+1)*c]
		maxVal := row[0]
		for _, v := range row[1:] {
			maxVal = max(maxVal, v)
		}

		var sum float64
		for j, v := range row {
			e := math.Exp(float64(v - maxVal))
			dst[i*c+j] = T(e)
			sum += e
		}
		for j := range row {
			dst[i*c+j] = T(float64(dst[i*c+j]) / sum)
		}
	}
	return out
}
