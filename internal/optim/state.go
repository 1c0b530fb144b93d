package optim

import (
	"fmt"

	"github.com/born-ml/layerwise/internal/tensor"
)

// State holds the auxiliary tensors an optimizer keeps for one parameter,
// such as a momentum velocity, plus a step counter. A nil *State reads as
// empty; Set and Advance panic with ErrStateRequired on a nil *State.
type State[T tensor.Numeric] struct {
	tensors map[string]*tensor.Tensor[T]
	steps   int
}

// NewState creates an empty state.
func NewState[T tensor.Numeric]() *State[T] {
	return &State[T]{tensors: make(map[string]*tensor.Tensor[T])}
}

// Get returns the tensor stored under key.
func (s *State[T]) Get(key string) (*tensor.Tensor[T], bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.tensors[key]
	return t, ok
}

// Set stores t under key.
func (s *State[T]) Set(key string, t *tensor.Tensor[T]) {
	if s == nil {
		panic(fmt.Errorf("set %q: %w", key, ErrStateRequired))
	}
	if s.tensors == nil {
		s.tensors = make(map[string]*tensor.Tensor[T])
	}
	s.tensors[key] = t
}

// Advance increments the step counter and returns the new count.
func (s *State[T]) Advance() int {
	if s == nil {
		panic(fmt.Errorf("advance: %w", ErrStateRequired))
	}
	s.steps++
	return s.steps
}

// Steps returns the number of Advance calls.
func (s *State[T]) Steps() int {
	if s == nil {
		return 0
	}
	return s.steps
}

// Len returns the number of stored tensors.
func (s *State[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tensors)
}
