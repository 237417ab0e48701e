package circuit

import "gonum.org/v1/gonum/mat"

// Gate is the reusable transformation an Operation applies to its sites.
// Concrete capabilities (matrix, decomposition, measurement, ternary
// semantics) are optional interfaces probed by type assertion.
type Gate interface {
	Name() string
}

// KnownMatrix is implemented by gates with a primitive unitary matrix.
// The matrix must be square with side levels^k for a k-site gate.
type KnownMatrix interface {
	Gate
	Matrix() *mat.CDense
}

// Composite is implemented by gates that expand into sub-operations on the
// given sites. Decompositions may themselves contain composite gates; the
// flattening in package sim recurses until every leaf has a known matrix.
type Composite interface {
	Gate
	Decompose(sites []Site) []Operation
}

// MeasurementGate is implemented by measurement gates. InvertMask reports,
// per site, whether the measurement result is inverted; the simulator
// synthesizes a corrective flip for each inverted site and otherwise treats
// terminal measurements as no-ops.
type MeasurementGate interface {
	Gate
	InvertMask() []bool
}

// Reversible is implemented by gates that expose an inverse.
type Reversible interface {
	Gate
	Inverse() Gate
}

// TritEffect is implemented by gates with classical ternary semantics: given
// the trit values currently on the gate's sites, AppliedToTrits returns the
// new values. Input and output must have the same length and values in
// {0, 1, 2}.
type TritEffect interface {
	Gate
	AppliedToTrits(trits []int) []int
}

// IsMeasurement reports whether the operation's gate is a measurement.
func IsMeasurement(op Operation) bool {
	_, ok := op.Gate().(MeasurementGate)
	return ok
}
