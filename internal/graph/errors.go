package graph

import (
	"errors"
	"fmt"
)

// Domain errors for graph operations.
var (
	// ErrParameterBounds indicates a configuration value outside its valid range.
	ErrParameterBounds = errors.New("graph: parameter out of valid bounds")

	// ErrUnknownMode indicates a transition mode other than cycle or random.
	ErrUnknownMode = errors.New("graph: unknown transition mode")

	// ErrNotInitialized indicates a tick before Init or after Shutdown.
	ErrNotInitialized = errors.New("graph: not initialized")

	// ErrInvalidDelta indicates a negative, NaN or infinite tick delta.
	ErrInvalidDelta = errors.New("graph: invalid tick delta")
)

// TickError wraps a failed tick with the frame it happened on.
type TickError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
