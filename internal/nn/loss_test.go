package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/layerwise/internal/nn"
	"github.com/born-ml/layerwise/internal/tensor"
)

func TestMSELoss(t *testing.T) {
	loss := nn.NewMSELoss[float64]()

	pred := tensor.MustFromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	target := tensor.MustFromSlice([]float64{1, 0, 3, 2}, tensor.Shape{2, 2})

	// (0 + 4 + 0 + 4) / 4
	assert.InDelta(t, 2.0, loss.Forward(pred, target), 1e-12)

	grad := loss.Backward()
	assert.Equal(t, []float64{0, 1, 0, 1}, grad.DX.Data())
	assert.Nil(t, grad.DWeights)
}

func TestMSELoss_ShapeMismatch(t *testing.T) {
	loss := nn.NewMSELoss[float32]()
	requirePanicIs(t, tensor.ErrShapeMismatch, func() {
		loss.Forward(tensor.Ones[float32](tensor.Shape{2, 2}), tensor.Ones[float32](tensor.Shape{1, 4}))
	})
}

func TestLoss_BackwardWithoutForward(t *testing.T) {
	requirePanicIs(t, nn.ErrNoForwardCache, func() { nn.NewMSELoss[float64]().Backward() })
	requirePanicIs(t, nn.ErrNoForwardCache, func() { nn.NewSoftmaxCrossEntropy[float64]().Backward() })
}

func TestSoftmax(t *testing.T) {
	logits := tensor.MustFromSlice([]float64{1, 2, 3, 1000, 1000, 1000}, tensor.Shape{2, 3})
	probs := nn.Softmax(logits)

	e := []float64{math.Exp(-2), math.Exp(-1), 1}
	sum := e[0] + e[1] + e[2]
	assert.InDeltaSlice(t, []float64{e[0] / sum, e[1] / sum, e[2] / sum}, probs.Data()[:3], 1e-12)

	// Large logits stay finite.
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, probs.Data()[3:], 1e-12)
}

func TestSoftmaxCrossEntropy(t *testing.T) {
	loss := nn.NewSoftmaxCrossEntropy[float64]()

	logits := tensor.MustFromSlice([]float64{0, 0, 2, 1}, tensor.Shape{2, 2})
	targets := tensor.MustFromSlice([]float64{1, 0, 0, 1}, tensor.Shape{2, 2})

	p := 1 / (1 + math.Exp(-1)) // softmax([2, 1])[0]
	want := (math.Log(2) - math.Log(1-p)) / 2
	assert.InDelta(t, want, loss.Forward(logits, targets), 1e-12)

	grad := loss.Backward().DX
	assert.InDeltaSlice(t, []float64{(0.5 - 1) / 2, 0.5 / 2, p / 2, (1 - p - 1) / 2}, grad.Data(), 1e-12)
}

func TestSoftmaxCrossEntropy_RequiresMatrix(t *testing.T) {
	loss := nn.NewSoftmaxCrossEntropy[float64]()
	v := tensor.Ones[float64](tensor.Shape{3})
	requirePanicIs(t, tensor.ErrShapeMismatch, func() { loss.Forward(v, v) })
}

// TestMSELoss_SeedsChain checks the loss derivative drives a layer's backward.
func TestMSELoss_SeedsChain(t *testing.T) {
	sig := nn.NewSigmoid[float64]("sig", nil)
	loss := nn.NewMSELoss[float64]()

	x := tensor.MustFromSlice([]float64{0, 0}, tensor.Shape{1, 2})
	out := sig.Forward(x)
	loss.Forward(out, tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{1, 2}))

	dx := sig.Backward(loss.Backward()).DX
	require.NotNil(t, dx)
	// d/dx of mean((σ(x)-y)²) at 0: 2*(0.5-y)/2 * 0.25
	assert.InDeltaSlice(t, []float64{-0.125, 0.125}, dx.Data(), 1e-12)
}
