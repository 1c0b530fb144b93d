package nn

import "errors"

// Common errors.
var (
	// ErrNoForwardCache is raised when Backward runs before any Forward.
	ErrNoForwardCache = errors.New("backward called without a cached forward pass")
	// ErrUninitialized is raised by a parameterized layer whose weights were
	// never set (constructed without a predecessor).
	ErrUninitialized = errors.New("layer parameters are not initialized")
	// ErrNoParameters is raised when setting weights or bias on a
	// parameter-less layer.
	ErrNoParameters = errors.New("layer has no parameters")
	// ErrBrokenChain is returned when a layer's predecessor is not the
	// previous layer of a Chain.
	ErrBrokenChain = errors.New("layer is not connected to the end of the chain")
	// ErrDuplicateName is returned when two layers of a Chain share a name.
	ErrDuplicateName = errors.New("duplicate layer name")
	// ErrMissingParameter is returned when a parameter set lacks an entry
	// the chain needs.
	ErrMissingParameter = errors.New("missing parameter")
)
