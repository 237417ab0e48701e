// Package sim flattens circuits into primitive unitary applications and
// applies them to a dense state tensor, optionally interleaving sampled noise
// channels per gate and per idle site.
//
// # Reading Guide
//
// The pipeline runs in three stages, one file each:
//   - extract.go: recursive decomposition of operations into (matrix, sites)
//     pairs, with measurement invert masks turned into corrective flips
//   - reconstruct.go: regrouping of the flat pair stream into maximal
//     batches of mutually site-disjoint applications
//   - simulator.go: axis-targeted contraction of each batch against the
//     state tensor with ping-pong double buffering, plus noise injection
//
// tensor.go holds the dense tensor representation and the contraction
// kernel. evaluate.go evaluates classical ternary circuit semantics and
// verifies gate decompositions against them.
//
// Entry points are ApplyUnitaryEffect (state-vector simulation, with or
// without a noise model) and ToUnitary (full unitary matrix of a circuit,
// noise necessarily disabled).
package sim
