package sim

import "errors"

var (
	// ErrUnsimulatable is returned when an operation has no known matrix,
	// no decomposition, and is not a measurement. Simulation aborts.
	ErrUnsimulatable = errors.New("operation without a known matrix or decomposition")

	// ErrNonTerminalMeasurement is returned when unitary evaluation is
	// requested for a circuit that measures a site and then keeps
	// operating on it.
	ErrNonTerminalMeasurement = errors.New("circuit contains a non-terminal measurement")

	// ErrShapeMismatch is returned when a matrix, state, or channel
	// operator does not match the declared site count and qudit dimension.
	ErrShapeMismatch = errors.New("shape mismatch")
)
