package sim

import (
	"fmt"

	"github.com/epiqc/qutrits/circuit"
)

// TritState assigns a classical trit value in {0, 1, 2} to each site.
// Sites not present read as 0.
type TritState map[circuit.Site]int

// DefaultTritState returns the all-zero state over the given sites.
func DefaultTritState(sites []circuit.Site) TritState {
	state := make(TritState, len(sites))
	for _, s := range sites {
		state[s] = 0
	}
	return state
}

// Copy returns an independent copy of the state.
func (s TritState) Copy() TritState {
	out := make(TritState, len(s))
	for site, t := range s {
		out[site] = t
	}
	return out
}

// EvaluateTrits runs the circuit's classical ternary semantics on the input
// state, recursing into decompositions for gates without a direct trit
// effect. A nil input starts from all zeros over the circuit's sites. The
// input is not modified.
func EvaluateTrits(c *circuit.Circuit, input TritState) (TritState, error) {
	var state TritState
	if input == nil {
		state = DefaultTritState(c.AllSites())
	} else {
		state = input.Copy()
	}
	if err := evaluateOps(c.AllOperations(), state, 0); err != nil {
		return nil, err
	}
	return state, nil
}

func evaluateOps(ops []circuit.Operation, state TritState, depth int) error {
	if depth > maxDecomposeDepth {
		return fmt.Errorf("%w: decomposition exceeded depth %d", ErrUnsimulatable, maxDecomposeDepth)
	}
	for _, op := range ops {
		switch g := op.Gate().(type) {
		case circuit.TritEffect:
			if err := applyTritOp(g, op, state); err != nil {
				return err
			}
		case circuit.Composite:
			if err := evaluateOps(g.Decompose(op.Sites()), state, depth+1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v has no ternary semantics", ErrUnsimulatable, op)
		}
	}
	return nil
}

func applyTritOp(g circuit.TritEffect, op circuit.Operation, state TritState) error {
	sites := op.Sites()
	trits := make([]int, len(sites))
	for i, s := range sites {
		trits[i] = state[s]
	}
	out := g.AppliedToTrits(trits)
	if len(out) != len(trits) {
		return fmt.Errorf("gate %s returned %d trits for %d sites", g.Name(), len(out), len(trits))
	}
	for i, t := range out {
		if t < 0 || t > 2 {
			return fmt.Errorf("gate %s produced trit value %d on %v", g.Name(), t, sites[i])
		}
		state[sites[i]] = t
	}
	return nil
}

// VerifyGate checks a composite gate's decomposition against its direct
// ternary semantics for every binary input (up to maxCases), returning an
// error describing the first disagreement. This is the workhorse for testing
// gate-decomposition libraries.
func VerifyGate(g circuit.Gate, numSites, maxCases int) error {
	effect, ok := g.(circuit.TritEffect)
	if !ok {
		return fmt.Errorf("gate %s has no ternary semantics to verify against", g.Name())
	}
	comp, ok := g.(circuit.Composite)
	if !ok {
		return fmt.Errorf("gate %s has no decomposition to verify", g.Name())
	}
	sites := circuit.SiteRange(numSites)
	op := circuit.MustOperation(g, sites...)
	subOps := comp.Decompose(sites)

	cases := intPow(2, numSites)
	if cases > maxCases {
		cases = maxCases
	}
	for i := 0; i < cases; i++ {
		state := bitState(sites, i)
		direct := state.Copy()
		if err := applyTritOp(effect, op, direct); err != nil {
			return err
		}
		decomposed := state.Copy()
		if err := evaluateOps(subOps, decomposed, 0); err != nil {
			return err
		}
		for _, s := range sites {
			if direct[s] != decomposed[s] {
				return fmt.Errorf("gate %s decomposition is invalid for input %s: %s != %s",
					g.Name(), stateString(state, sites), stateString(direct, sites), stateString(decomposed, sites))
			}
		}
	}
	return nil
}

// VerifyGateInverse checks that applying a gate and then its inverse returns
// every binary input (up to maxCases) to itself.
func VerifyGateInverse(g circuit.Gate, numSites, maxCases int) error {
	effect, ok := g.(circuit.TritEffect)
	if !ok {
		return fmt.Errorf("gate %s has no ternary semantics to verify against", g.Name())
	}
	rev, ok := g.(circuit.Reversible)
	if !ok {
		return fmt.Errorf("gate %s has no inverse to verify", g.Name())
	}
	invEffect, ok := rev.Inverse().(circuit.TritEffect)
	if !ok {
		return fmt.Errorf("inverse of gate %s has no ternary semantics", g.Name())
	}
	sites := circuit.SiteRange(numSites)
	op := circuit.MustOperation(g, sites...)
	invOp := circuit.MustOperation(rev.Inverse(), sites...)

	cases := intPow(2, numSites)
	if cases > maxCases {
		cases = maxCases
	}
	for i := 0; i < cases; i++ {
		input := bitState(sites, i)
		state := input.Copy()
		if err := applyTritOp(effect, op, state); err != nil {
			return err
		}
		if err := applyTritOp(invEffect, invOp, state); err != nil {
			return err
		}
		for _, s := range sites {
			if state[s] != input[s] {
				return fmt.Errorf("gate %s inverse is invalid for input %s != %s",
					g.Name(), stateString(input, sites), stateString(state, sites))
			}
		}
	}
	return nil
}

// bitState spreads the binary digits of value over the sites, site 0 taking
// the least significant bit. Binary inputs suffice to exercise the reversible
// gate constructions, which move through trit space but start from bits.
func bitState(sites []circuit.Site, value int) TritState {
	state := make(TritState, len(sites))
	for _, s := range sites {
		state[s] = value & 1
		value >>= 1
	}
	return state
}

func stateString(state TritState, sites []circuit.Site) string {
	out := make([]byte, len(sites))
	for i, s := range sites {
		out[i] = byte('0' + state[s])
	}
	return string(out)
}
