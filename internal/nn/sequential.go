package nn

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/born-ml/layerwise/internal/optim"
	"github.com/born-ml/layerwise/internal/tensor"
)

// Chain is an ordered container that owns a sequence of layers.
//
// Layers are stored in an arena and addressed by index; each layer keeps a
// non-owning reference to its predecessor, which must be the layer added
// just before it. Forward runs the arena front to back, Backward back to
// front.
//
// Example:
//
//	in := nn.NewInput[float64]("in", tensor.Shape{1, 2})
//	fc1 := nn.NewFullyConnected("fc1", in, 4)
//	act := nn.NewTanh("tanh1", fc1)
//	fc2 := nn.NewFullyConnected("fc2", act, 1)
//
//	chain, err := nn.NewChain[float64](in, fc1, act, fc2)
//	out := chain.Forward(x)
//	chain.Backward(loss.Backward())
//	chain.Step(optimizer)
type Chain[T tensor.Float] struct {
	layers []Layer[T]
	index  map[string]int
	states map[string]*optim.State[T]
}

// NewChain creates a Chain from layers in input-to-output order.
func NewChain[T tensor.Float](layers ...Layer[T]) (*Chain[T], error) {
	c := &Chain[T]{
		index:  make(map[string]int),
		states: make(map[string]*optim.State[T]),
	}
	for _, l := range layers {
		if _, err := c.Add(l); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a layer and returns its index handle.
//
// The layer's InputLayer must be the current last layer, or nil when the
// chain is empty.
func (c *Chain[T]) Add(l Layer[T]) (int, error) {
	if _, exists := c.index[l.Name()]; exists {
		return -1, fmt.Errorf("add %q: %w", l.Name(), ErrDuplicateName)
	}

	var want Layer[T]
	if len(c.layers) > 0 {
		want = c.layers[len(c.layers)-1]
	}
	if got := l.InputLayer(); got != want {
		wantName := "<none>"
		if want != nil {
			wantName = want.Name()
		}
		gotName := "<none>"
		if got != nil {
			gotName = got.Name()
		}
		return -1, fmt.Errorf("add %q: input is %s, expected %s: %w", l.Name(), gotName, wantName, ErrBrokenChain)
	}

	c.index[l.Name()] = len(c.layers)
	c.layers = append(c.layers, l)
	return len(c.layers) - 1, nil
}

// Len returns the number of layers.
func (c *Chain[T]) Len() int {
	return len(c.layers)
}

// Layer returns the layer at handle i.
//
// Panics if i is out of bounds.
func (c *Chain[T]) Layer(i int) Layer[T] {
	if i < 0 || i >= len(c.layers) {
		panic("Chain.Layer: index out of bounds")
	}
	return c.layers[i]
}

// Lookup returns the handle of the layer with the given name.
func (c *Chain[T]) Lookup(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Layers returns the layers in input-to-output order.
func (c *Chain[T]) Layers() []Layer[T] {
	return append([]Layer[T](nil), c.layers...)
}

// Output returns the last layer, or nil for an empty chain.
func (c *Chain[T]) Output() Layer[T] {
	if len(c.layers) == 0 {
		return nil
	}
	return c.layers[len(c.layers)-1]
}

// SetTrainingMode propagates the mode flag to every layer.
func (c *Chain[T]) SetTrainingMode(training bool) {
	for _, l := range c.layers {
		l.SetTrainingMode(training)
	}
}

// Forward runs input through every layer and returns the final activation.
func (c *Chain[T]) Forward(input *tensor.Tensor[T]) *tensor.Tensor[T] {
	out := input
	for _, l := range c.layers {
		out = l.Forward(out)
	}
	return out
}

// Backward propagates seed from the output layer back to the input and
// returns the gradient with respect to the chain's input. Each layer keeps
// its own gradient record for Step.
func (c *Chain[T]) Backward(seed Gradient[T]) Gradient[T] {
	g := seed
	for i := len(c.layers) - 1; i >= 0; i-- {
		g = c.layers[i].Backward(Gradient[T]{DX: g.DX})
	}
	return g
}

// Step applies opt to the weights and bias of every parameterized layer
// using the gradients cached by the last Backward call, writing the updated
// tensors back through the layer setters. The applied parameter gradients
// are then cleared, so a second Step before the next Backward changes
// nothing. Layers without gradients are skipped. Optimizer state is kept
// per parameter across steps.
func (c *Chain[T]) Step(opt optim.Optimizer[T]) {
	for _, l := range c.layers {
		if !l.HasParameter() {
			continue
		}
		g := l.Gradient()
		if !g.HasParameterGradients() {
			continue
		}
		l.SetWeights(opt.Optimize(l.Weights(), g.DWeights, c.state(WeightsKey(l.Name()))))
		l.SetBias(opt.Optimize(l.Bias(), g.DBias, c.state(BiasKey(l.Name()))))
		l.SetGradient(Gradient[T]{DX: g.DX})
	}
}

// ResetState drops all optimizer state (e.g. momentum buffers).
func (c *Chain[T]) ResetState() {
	c.states = make(map[string]*optim.State[T])
}

func (c *Chain[T]) state(key string) *optim.State[T] {
	s, ok := c.states[key]
	if !ok {
		s = optim.NewState[T]()
		c.states[key] = s
	}
	return s
}

// WeightsKey names a layer's weights in parameter sets and optimizer state.
func WeightsKey(layer string) string { return layer + ".weights" }

// BiasKey names a layer's bias in parameter sets and optimizer state.
func BiasKey(layer string) string { return layer + ".bias" }

// Parameters returns the weights and bias of every initialized
// parameterized layer, keyed by WeightsKey and BiasKey. The tensors are
// shared with the layers, not copied.
func (c *Chain[T]) Parameters() map[string]*tensor.Tensor[T] {
	params := make(map[string]*tensor.Tensor[T])
	for _, l := range c.layers {
		if !l.HasParameter() || l.Weights() == nil {
			continue
		}
		params[WeightsKey(l.Name())] = l.Weights()
		params[BiasKey(l.Name())] = l.Bias()
	}
	return params
}

// LoadParameters sets the weights and bias of every parameterized layer
// from params. Each entry must exist and, when the layer is already
// initialized, keep its shape. Nothing is modified if validation fails.
func (c *Chain[T]) LoadParameters(params map[string]*tensor.Tensor[T]) error {
	type update struct {
		layer         Layer[T]
		weights, bias *tensor.Tensor[T]
	}

	var updates []update
	for _, l := range c.layers {
		if !l.HasParameter() {
			continue
		}
		w, err := lookupParameter(params, WeightsKey(l.Name()), l.Weights())
		if err != nil {
			return err
		}
		b, err := lookupParameter(params, BiasKey(l.Name()), l.Bias())
		if err != nil {
			return err
		}
		updates = append(updates, update{layer: l, weights: w, bias: b})
	}

	for _, u := range updates {
		u.layer.SetWeights(u.weights)
		u.layer.SetBias(u.bias)
	}
	return nil
}

func lookupParameter[T tensor.Float](params map[string]*tensor.Tensor[T], key string, current *tensor.Tensor[T]) (*tensor.Tensor[T], error) {
	t, ok := params[key]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	if current != nil && !t.Shape().Equal(current.Shape()) {
		return nil, &tensor.ShapeError{Op: "load " + key, Left: t.Shape(), Right: current.Shape()}
	}
	return t, nil
}

// Graph renders the predecessor graph as a Graphviz digraph. Parameterized
// layers are drawn as boxes; edges point from a layer to its successor.
func (c *Chain[T]) Graph() *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")

	nodes := make(map[string]dot.Node, len(c.layers))
	for _, l := range c.layers {
		n := g.Node(l.Name()).Label(fmt.Sprintf("%s %v", l.Name(), l.ActivationShape()))
		if l.HasParameter() {
			n = n.Attr("shape", "box")
		}
		nodes[l.Name()] = n
	}
	for _, l := range c.layers {
		if in := l.InputLayer(); in != nil {
			g.Edge(nodes[in.Name()], nodes[l.Name()])
		}
	}
	return g
}

// DOT returns the Graphviz source of Graph.
func (c *Chain[T]) DOT() string {
	return c.Graph().String()
}
