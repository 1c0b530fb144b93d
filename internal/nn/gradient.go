package nn

import "github.com/born-ml/layerwise/internal/tensor"

// Gradient is the record a layer produces during backward propagation.
//
// DX is the gradient with respect to the layer's input and always has the
// input's shape. DWeights and DBias are set only by parameterized layers and
// share the shapes of the layer's weights and bias; DBias is already reduced
// over the batch. Parameter-less layers ignore the parameter fields of the
// record they receive and leave them nil in the record they return.
type Gradient[T tensor.Float] struct {
	DX       *tensor.Tensor[T]
	DWeights *tensor.Tensor[T]
	DBias    *tensor.Tensor[T]
}

// Seed wraps an upstream gradient (typically a loss derivative) as the
// record passed to the first Backward call.
func Seed[T tensor.Float](dx *tensor.Tensor[T]) Gradient[T] {
	return Gradient[T]{DX: dx}
}

// HasParameterGradients reports whether the record carries weight and bias gradients.
func (g Gradient[T]) HasParameterGradients() bool {
	return g.DWeights != nil && g.DBias != nil
}
