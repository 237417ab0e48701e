// Package circuit provides the moment-scheduled circuit model: sites, gates,
// operations, moments, and the insertion engine that places operations into
// time-ordered moments.
//
// # Reading Guide
//
// Start with these three files to understand the model:
//   - operation.go: an Operation binds a Gate to an ordered set of distinct Sites
//   - moment.go: a Moment is an immutable batch of operations with disjoint site-sets
//   - circuit.go: the mutable moment sequence and the insertion strategies
//
// # Key Interfaces
//
// Gate is a marker interface; concrete capabilities are probed by type
// assertion rather than carried by every gate:
//   - KnownMatrix: the gate has a primitive unitary matrix
//   - Composite: the gate decomposes into sub-operations
//   - MeasurementGate: the gate is a measurement with an invert mask
//   - Reversible: the gate exposes its inverse
//   - TritEffect: the gate has classical ternary semantics
//
// Device is the validation collaborator consulted on every mutation. The
// zero-policy Unconstrained device only enforces site-set disjointness.
//
// The simulation pipeline that consumes circuits lives in package sim.
package circuit
