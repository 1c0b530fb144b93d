package nn_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/layerwise/internal/nn"
	"github.com/born-ml/layerwise/internal/tensor"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
}

// requirePanicIs runs f and checks that it panics with an error matching target.
func requirePanicIs(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, target), "got %v, want %v", err, target)
	}()
	f()
}

// TestSigmoid_Reference tests sigmoid against a worked toy example.
func TestSigmoid_Reference(t *testing.T) {
	sigm := nn.NewSigmoid[float32]("Test", nil)

	input := tensor.MustFromSlice([]float32{1.5172, -0.0332}, tensor.Shape{1, 2})
	out := sigm.Forward(input)
	assert.InDeltaSlice(t, []float32{0.8201, 0.4917}, out.Data(), 0.01)

	dout := tensor.MustFromSlice([]float32{-0.3002, 0.2004}, tensor.Shape{1, 2})
	grad := sigm.Backward(nn.Seed(dout))
	assert.InDeltaSlice(t, []float32{-0.0443, 0.0501}, grad.DX.Data(), 0.01)
	assert.Nil(t, grad.DWeights)
	assert.Nil(t, grad.DBias)
}

// TestSigmoid_Range checks 0 < σ(x) < 1 and the cached-output derivative.
func TestSigmoid_Range(t *testing.T) {
	sigm := nn.NewSigmoid[float64]("sig", nil)

	x := tensor.RandnWith[float64](tensor.Shape{8, 16}, newRand(3)).MulScalar(5)
	out := sigm.Forward(x)
	for _, y := range out.Data() {
		assert.Greater(t, y, 0.0)
		assert.Less(t, y, 1.0)
	}

	ones := tensor.Ones[float64](x.Shape())
	dx := sigm.Backward(nn.Seed(ones)).DX
	for i, y := range out.Data() {
		assert.InDelta(t, y*(1-y), dx.Data()[i], 1e-15)
	}
}

// TestReLU_Reference tests ReLU forward against a fixed vector.
func TestReLU_Reference(t *testing.T) {
	relu := nn.NewReLU[float32]("Relu1", nil)

	input := tensor.MustFromSlice([]float32{-1, 2, 3, -4, 5, -6, 7, 8}, tensor.Shape{1, 8})
	out := relu.Forward(input)

	want := tensor.MustFromSlice([]float32{0, 2, 3, 0, 5, 0, 7, 8}, tensor.Shape{1, 8})
	assert.True(t, out.Equal(want), "got %v", out)
}

// TestReLU_Backward checks the 0/1 derivative, with ties at zero routed to 0.
func TestReLU_Backward(t *testing.T) {
	relu := nn.NewReLU[float64]("relu", nil)

	input := tensor.MustFromSlice([]float64{-2, 0, 0.5, 3}, tensor.Shape{2, 2})
	out := relu.Forward(input)
	assert.Equal(t, []float64{0, 0, 0.5, 3}, out.Data())

	dout := tensor.MustFromSlice([]float64{10, 20, 30, 40}, tensor.Shape{2, 2})
	grad := relu.Backward(nn.Seed(dout))
	assert.Equal(t, []float64{0, 0, 30, 40}, grad.DX.Data())
}

// TestReLU_MaxProperty checks forward(x)[i] == max(0, x[i]).
func TestReLU_MaxProperty(t *testing.T) {
	relu := nn.NewReLU[float64]("relu", nil)

	x := tensor.RandnWith[float64](tensor.Shape{3, 4, 5}, newRand(9))
	out := relu.Forward(x)

	assert.Equal(t, x.Shape(), out.Shape())
	for i, v := range x.Data() {
		assert.Equal(t, math.Max(0, v), out.Data()[i])
	}
}

// TestTanh_Backward checks 1 - tanh² against the cached output.
func TestTanh_Backward(t *testing.T) {
	th := nn.NewTanh[float64]("tanh", nil)

	x := tensor.MustFromSlice([]float64{-1, 0, 2}, tensor.Shape{1, 3})
	out := th.Forward(x)
	dx := th.Backward(nn.Seed(tensor.Ones[float64](x.Shape()))).DX

	for i, v := range x.Data() {
		assert.InDelta(t, math.Tanh(v), out.Data()[i], 1e-15)
		assert.InDelta(t, 1-math.Tanh(v)*math.Tanh(v), dx.Data()[i], 1e-15)
	}
}

// TestFullyConnected_Reference tests forward and backward with fixed parameters.
func TestFullyConnected_Reference(t *testing.T) {
	fc := nn.NewFullyConnected[float32]("fc1Test", nil, 2)
	fc.SetWeights(tensor.MustFromSlice([]float32{1, 2, 1, 2, 1, 2, 1, 2, 1, 2}, tensor.Shape{5, 2}))
	fc.SetBias(tensor.MustFromSlice([]float32{1, 1}, tensor.Shape{1, 2}))

	input := tensor.MustFromSlice([]float32{1, 2, 3, 4, 5}, tensor.Shape{1, 5})
	out := fc.Forward(input)
	assert.True(t, out.Equal(tensor.MustFromSlice([]float32{16, 31}, tensor.Shape{1, 2})), "got %v", out)

	gradOut := tensor.MustFromSlice([]float32{0.5, 1.2}, tensor.Shape{1, 2})
	grad := fc.Backward(nn.Seed(gradOut))

	assert.True(t, grad.DBias.Equal(tensor.MustFromSlice([]float32{0.5, 1.2}, tensor.Shape{1, 2})), "dBias %v", grad.DBias)

	wantDW := tensor.MustFromSlice([]float32{0.5, 1.2, 1, 2.4, 1.5, 3.6, 2, 4.8, 2.5, 6}, tensor.Shape{5, 2})
	assert.True(t, grad.DWeights.AllClose(wantDW, 0.001), "dWeights %v", grad.DWeights)

	wantDX := tensor.MustFromSlice([]float32{2.9, 2.9, 2.9, 2.9, 2.9}, tensor.Shape{1, 5})
	assert.True(t, grad.DX.Equal(wantDX), "dx %v", grad.DX)

	// The record is cached on the layer.
	assert.Same(t, grad.DWeights, fc.Gradient().DWeights)
}

// TestFullyConnected_MatchesFormulas checks the affine identities on a batch.
func TestFullyConnected_MatchesFormulas(t *testing.T) {
	rng := newRand(11)
	in := nn.NewInput[float64]("in", tensor.Shape{1, 4})
	fc := nn.NewFullyConnected[float64]("fc", in, 3, nn.WithRand(rng))
	fc.SetBias(tensor.RandnWith[float64](tensor.Shape{1, 3}, rng))

	x := tensor.RandnWith[float64](tensor.Shape{5, 4}, rng)
	dout := tensor.RandnWith[float64](tensor.Shape{5, 3}, rng)

	out := fc.Forward(x)
	want := x.MatMul(fc.Weights()).Add(fc.Bias().Repmat(5, 1))
	assert.True(t, out.AllClose(want, 1e-12))

	grad := fc.Backward(nn.Seed(dout))
	assert.True(t, grad.DWeights.AllClose(x.T().MatMul(dout), 1e-12))
	assert.True(t, grad.DBias.AllClose(dout.SumAxis(0), 1e-12))
	assert.True(t, grad.DX.AllClose(dout.MatMul(fc.Weights().T()), 1e-12))

	assert.Equal(t, fc.Weights().Shape(), grad.DWeights.Shape())
	assert.Equal(t, fc.Bias().Shape(), grad.DBias.Shape())
}

// TestFullyConnected_Construction checks parameter shapes and initialization.
func TestFullyConnected_Construction(t *testing.T) {
	in := nn.NewInput[float32]("in", tensor.Shape{2, 3, 4})
	fc := nn.NewFullyConnected[float32]("fc", in, 5)

	assert.Equal(t, "fc", fc.Name())
	assert.True(t, fc.HasParameter())
	assert.Equal(t, 24, fc.NumInput())
	assert.Equal(t, 5, fc.NumOutput())
	assert.Equal(t, tensor.Shape{1, 5}, fc.ActivationShape())
	assert.Equal(t, tensor.Shape{24, 5}, fc.Weights().Shape())
	assert.Equal(t, tensor.Shape{1, 5}, fc.Bias().Shape())
	assert.True(t, fc.Bias().Equal(tensor.Zeros[float32](tensor.Shape{1, 5})))
	assert.Same(t, nn.Layer[float32](in), fc.InputLayer())
}

// TestFullyConnected_Reproducible checks WithRand seeds the initialization.
func TestFullyConnected_Reproducible(t *testing.T) {
	in := nn.NewInput[float64]("in", tensor.Shape{1, 6})
	a := nn.NewFullyConnected[float64]("a", in, 4, nn.WithRand(newRand(5)))
	b := nn.NewFullyConnected[float64]("b", in, 4, nn.WithRand(newRand(5)))
	assert.True(t, a.Weights().Equal(b.Weights()))
}

type weight float64

// TestFullyConnected_NamedFloat checks layers over a named float type.
func TestFullyConnected_NamedFloat(t *testing.T) {
	fc := nn.NewFullyConnected[weight]("fc", nn.NewInput[weight]("in", tensor.Shape{1, 3}), 2, nn.WithRand(newRand(3)))
	ref := nn.NewFullyConnected[float64]("fc", nn.NewInput[float64]("in", tensor.Shape{1, 3}), 2, nn.WithRand(newRand(3)))

	out := fc.Forward(tensor.MustFromSlice([]weight{1, -2, 0.5}, tensor.Shape{1, 3}))
	want := ref.Forward(tensor.MustFromSlice([]float64{1, -2, 0.5}, tensor.Shape{1, 3}))
	for i, v := range out.Data() {
		assert.InDelta(t, want.Data()[i], float64(v), 1e-12)
	}

	grad := fc.Backward(nn.Seed(tensor.Ones[weight](tensor.Shape{1, 2})))
	assert.Equal(t, tensor.Shape{3, 2}, grad.DWeights.Shape())
}

// TestFullyConnected_Inert checks the no-predecessor construction path.
func TestFullyConnected_Inert(t *testing.T) {
	fc := nn.NewFullyConnected[float32]("fc", nil, 2)

	assert.Nil(t, fc.InputLayer())
	assert.Nil(t, fc.Weights())
	assert.Nil(t, fc.Bias())
	requirePanicIs(t, nn.ErrUninitialized, func() {
		fc.Forward(tensor.Ones[float32](tensor.Shape{1, 5}))
	})
}

// TestFullyConnected_Rank3Input checks batching over an explicit batch dimension.
func TestFullyConnected_Rank3Input(t *testing.T) {
	rng := newRand(2)
	in := nn.NewInput[float64]("in", tensor.Shape{2, 3})
	fc := nn.NewFullyConnected[float64]("fc", in, 4, nn.WithRand(rng))

	x := tensor.RandnWith[float64](tensor.Shape{5, 2, 3}, rng)
	out := fc.Forward(x)
	assert.Equal(t, tensor.Shape{5, 4}, out.Shape())

	dout := tensor.RandnWith[float64](tensor.Shape{5, 4}, rng)
	grad := fc.Backward(nn.Seed(dout))
	assert.Equal(t, tensor.Shape{5, 2, 3}, grad.DX.Shape())
	assert.Equal(t, tensor.Shape{6, 4}, grad.DWeights.Shape())
}

// TestBackward_WithoutForward checks the missing-cache precondition.
func TestBackward_WithoutForward(t *testing.T) {
	dout := nn.Seed(tensor.Ones[float32](tensor.Shape{1, 2}))

	layers := []nn.Layer[float32]{
		nn.NewReLU[float32]("relu", nil),
		nn.NewSigmoid[float32]("sig", nil),
		nn.NewTanh[float32]("tanh", nil),
		nn.NewInput[float32]("in", tensor.Shape{1, 2}),
	}
	fc := nn.NewFullyConnected[float32]("fc", nil, 2)
	fc.SetWeights(tensor.Ones[float32](tensor.Shape{2, 2}))
	fc.SetBias(tensor.Zeros[float32](tensor.Shape{1, 2}))
	layers = append(layers, fc)

	for _, l := range layers {
		requirePanicIs(t, nn.ErrNoForwardCache, func() { l.Backward(dout) })
	}
}

// TestBackward_ShapeMismatch checks that dout must match the cached activation.
func TestBackward_ShapeMismatch(t *testing.T) {
	relu := nn.NewReLU[float32]("relu", nil)
	relu.Forward(tensor.Ones[float32](tensor.Shape{2, 3}))

	requirePanicIs(t, tensor.ErrShapeMismatch, func() {
		relu.Backward(nn.Seed(tensor.Ones[float32](tensor.Shape{3, 2})))
	})
	requirePanicIs(t, tensor.ErrShapeMismatch, func() {
		relu.Backward(nn.Gradient[float32]{})
	})
}

// TestActivation_NoParameters checks the parameter-less invariants.
func TestActivation_NoParameters(t *testing.T) {
	in := nn.NewInput[float32]("in", tensor.Shape{1, 3})
	layers := []nn.Layer[float32]{
		nn.NewReLU("relu", nn.Layer[float32](in)),
		nn.NewSigmoid("sig", nn.Layer[float32](in)),
		nn.NewTanh("tanh", nn.Layer[float32](in)),
	}

	for _, l := range layers {
		assert.False(t, l.HasParameter(), l.Name())
		assert.Nil(t, l.Weights(), l.Name())
		assert.Nil(t, l.Bias(), l.Name())
		assert.Equal(t, tensor.Shape{1, 3}, l.ActivationShape(), l.Name())
		requirePanicIs(t, nn.ErrNoParameters, func() { l.SetWeights(tensor.Ones[float32](tensor.Shape{1})) })
		requirePanicIs(t, nn.ErrNoParameters, func() { l.SetBias(tensor.Ones[float32](tensor.Shape{1})) })

		// Parameter gradients in the incoming record are ignored.
		x := tensor.Ones[float32](tensor.Shape{2, 3})
		l.Forward(x)
		g := l.Backward(nn.Gradient[float32]{
			DX:       tensor.Ones[float32](tensor.Shape{2, 3}),
			DWeights: tensor.Ones[float32](tensor.Shape{3, 3}),
			DBias:    tensor.Ones[float32](tensor.Shape{1, 3}),
		})
		assert.False(t, g.HasParameterGradients(), l.Name())
	}
}

// TestTrainingMode checks the mode flag round trip.
func TestTrainingMode(t *testing.T) {
	l := nn.NewSigmoid[float32]("sig", nil)
	assert.True(t, l.IsTraining())
	l.SetTrainingMode(false)
	assert.False(t, l.IsTraining())
}

// TestSetGradient checks the gradient setter overwrites the cached record.
func TestSetGradient(t *testing.T) {
	fc := nn.NewFullyConnected("fc", nn.Layer[float64](nn.NewInput[float64]("in", tensor.Shape{2})), 1)
	g := nn.Gradient[float64]{DX: tensor.Ones[float64](tensor.Shape{1, 2})}
	fc.SetGradient(g)
	assert.Same(t, g.DX, fc.Gradient().DX)
}

// TestForwardContext checks explicit contexts are independent of the cache slot.
func TestForwardContext(t *testing.T) {
	rng := newRand(4)
	in := nn.NewInput[float64]("in", tensor.Shape{1, 3})
	fc := nn.NewFullyConnected[float64]("fc", in, 2, nn.WithRand(rng))

	x1 := tensor.RandnWith[float64](tensor.Shape{2, 3}, rng)
	x2 := tensor.RandnWith[float64](tensor.Shape{2, 3}, rng)
	dout := tensor.RandnWith[float64](tensor.Shape{2, 2}, rng)

	_, ctx1 := fc.ForwardContext(x1)
	_, ctx2 := fc.ForwardContext(x2)
	assert.Same(t, x1, ctx1.Input())

	g1 := fc.BackwardContext(ctx1, nn.Seed(dout))
	g2 := fc.BackwardContext(ctx2, nn.Seed(dout))

	fc.Forward(x1)
	want := fc.Backward(nn.Seed(dout))
	assert.True(t, g1.DWeights.AllClose(want.DWeights, 0))
	assert.False(t, g2.DWeights.AllClose(want.DWeights, 1e-9))

	// Contexts from another layer are rejected.
	relu := nn.NewReLU("relu", nn.Layer[float64](fc))
	_, rctx := relu.ForwardContext(tensor.Ones[float64](tensor.Shape{2, 2}))
	assert.Panics(t, func() { fc.BackwardContext(rctx, nn.Seed(dout)) })
}
