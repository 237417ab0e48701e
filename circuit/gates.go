package circuit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A minimal gate library: enough to build and test circuits. The full
// reversible-logic construction library is a separate concern and lives
// outside this package.

// permCMatrix builds the d-dimensional permutation matrix mapping basis state
// j to basis state perm(j).
func permCMatrix(d int, perm func(j int) int) *mat.CDense {
	m := mat.NewCDense(d, d, nil)
	for j := 0; j < d; j++ {
		m.Set(perm(j), j, 1)
	}
	return m
}

// X is the qubit NOT gate.
var X Gate = xGate{}

type xGate struct{}

func (xGate) Name() string { return "X" }

func (xGate) Matrix() *mat.CDense {
	return permCMatrix(2, func(j int) int { return 1 - j })
}

func (g xGate) Inverse() Gate { return g }

// Plus returns the single-qutrit gate adding k (mod 3) to the trit value.
func Plus(k int) Gate {
	return plusGate{k: ((k % 3) + 3) % 3}
}

type plusGate struct {
	k int
}

func (g plusGate) Name() string { return fmt.Sprintf("[+%d]", g.k) }

func (g plusGate) Matrix() *mat.CDense {
	return permCMatrix(3, func(j int) int { return (j + g.k) % 3 })
}

func (g plusGate) Inverse() Gate { return Plus(3 - g.k) }

func (g plusGate) AppliedToTrits(trits []int) []int {
	return []int{(trits[0] + g.k) % 3}
}

// C2Plus is the two-qutrit controlled increment: when the first (control)
// site holds 2, the second (target) site is incremented mod 3.
var C2Plus Gate = c2PlusGate{}

type c2PlusGate struct{}

func (c2PlusGate) Name() string { return "C2[+1]" }

func (c2PlusGate) Matrix() *mat.CDense {
	// Basis index is control*3 + target.
	return permCMatrix(9, func(j int) int {
		control, target := j/3, j%3
		if control == 2 {
			target = (target + 1) % 3
		}
		return control*3 + target
	})
}

func (c2PlusGate) AppliedToTrits(trits []int) []int {
	control, target := trits[0], trits[1]
	if control == 2 {
		target = (target + 1) % 3
	}
	return []int{control, target}
}

func (c2PlusGate) Inverse() Gate { return c2MinusGate{} }

type c2MinusGate struct{}

func (c2MinusGate) Name() string { return "C2[-1]" }

func (c2MinusGate) Matrix() *mat.CDense {
	return permCMatrix(9, func(j int) int {
		control, target := j/3, j%3
		if control == 2 {
			target = (target + 2) % 3
		}
		return control*3 + target
	})
}

func (c2MinusGate) AppliedToTrits(trits []int) []int {
	control, target := trits[0], trits[1]
	if control == 2 {
		target = (target + 2) % 3
	}
	return []int{control, target}
}

func (c2MinusGate) Inverse() Gate { return c2PlusGate{} }

// ParallelPlus returns a composite gate adding k (mod 3) to every site it is
// applied to. It has no matrix of its own; it decomposes into one Plus gate
// per site.
func ParallelPlus(k int) Gate {
	return parallelPlusGate{k: ((k % 3) + 3) % 3}
}

type parallelPlusGate struct {
	k int
}

func (g parallelPlusGate) Name() string { return fmt.Sprintf("PAR[+%d]", g.k) }

func (g parallelPlusGate) Decompose(sites []Site) []Operation {
	ops := make([]Operation, len(sites))
	for i, s := range sites {
		ops[i] = MustOperation(Plus(g.k), s)
	}
	return ops
}

func (g parallelPlusGate) AppliedToTrits(trits []int) []int {
	out := make([]int, len(trits))
	for i, t := range trits {
		out[i] = (t + g.k) % 3
	}
	return out
}

func (g parallelPlusGate) Inverse() Gate { return ParallelPlus(3 - g.k) }

// Measure returns a measurement gate with the given per-site invert mask.
// Measurements contribute no unitary action beyond a corrective flip for each
// inverted site; the simulator requires them to be terminal.
func Measure(invertMask ...bool) Gate {
	mask := make([]bool, len(invertMask))
	copy(mask, invertMask)
	return measureGate{invert: mask}
}

type measureGate struct {
	invert []bool
}

func (measureGate) Name() string { return "M" }

func (g measureGate) InvertMask() []bool {
	mask := make([]bool, len(g.invert))
	copy(mask, g.invert)
	return mask
}
