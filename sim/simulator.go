package sim

import (
	"fmt"
	"math/cmplx"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/epiqc/qutrits/circuit"
	"github.com/epiqc/qutrits/noise"
)

// DefaultLevels is the qudit dimension assumed when Options.Levels is zero.
const DefaultLevels = 3

// Options configure a simulation run.
type Options struct {
	// Levels is the per-site dimension: 2 for qubits, 3 for qutrits.
	// Zero means DefaultLevels.
	Levels int

	// Noise, when non-nil, injects a sampled error operator after every
	// gate and an idle operator on every site after every batch. Must be
	// nil for ToUnitary.
	Noise noise.Model
}

func (o Options) levels() int {
	if o.Levels == 0 {
		return DefaultLevels
	}
	return o.Levels
}

// ApplyUnitaryEffect left-multiplies a state vector by the circuit's unitary
// effect, in site order given by order (the k'th site in order owns the k'th
// tensor axis). The initial state must have length levels^len(order).
// Terminal measurements are ignored; non-terminal measurements are an error.
// The returned slice is freshly allocated.
func ApplyUnitaryEffect(c *circuit.Circuit, initial []complex128, order []circuit.Site, opts Options) ([]complex128, error) {
	d := opts.levels()
	n := len(order)
	siteIndex, err := siteIndices(c, order)
	if err != nil {
		return nil, err
	}
	if len(initial) != intPow(d, n) {
		return nil, fmt.Errorf("%w: state has %d amplitudes, want %d^%d",
			ErrShapeMismatch, len(initial), d, n)
	}
	if !c.AreAllMeasurementsTerminal() {
		return nil, ErrNonTerminalMeasurement
	}

	state := &tensor{data: append([]complex128(nil), initial...), dim: d, rank: n}
	final, err := runCircuit(c, state, siteIndex, opts)
	if err != nil {
		return nil, err
	}
	return final.data, nil
}

// BasisState returns the state vector of the given computational basis state
// over n sites of the given dimension.
func BasisState(levels, n, index int) []complex128 {
	state := make([]complex128, intPow(levels, n))
	state[index] = 1
	return state
}

// ToUnitary computes the circuit's full unitary matrix by applying the same
// machinery to an identity tensor of doubled rank. Noise is nonsensical in
// this mode and must be disabled.
func ToUnitary(c *circuit.Circuit, order []circuit.Site, opts Options) (*mat.CDense, error) {
	if opts.Noise != nil {
		return nil, fmt.Errorf("noise must be disabled when computing a unitary matrix")
	}
	d := opts.levels()
	n := len(order)
	siteIndex, err := siteIndices(c, order)
	if err != nil {
		return nil, err
	}
	if !c.AreAllMeasurementsTerminal() {
		return nil, ErrNonTerminalMeasurement
	}

	size := intPow(d, n)
	state := newTensor(d, 2*n)
	for i := 0; i < size; i++ {
		state.data[i*size+i] = 1
	}
	final, err := runCircuit(c, state, siteIndex, opts)
	if err != nil {
		return nil, err
	}
	return mat.NewCDense(size, size, final.data), nil
}

// Fidelity returns |<a|b>|^2.
func Fidelity(a, b []complex128) float64 {
	var dot complex128
	for i := range a {
		dot += cmplx.Conj(a[i]) * b[i]
	}
	mag := cmplx.Abs(dot)
	return mag * mag
}

// siteIndices maps every site in order to its tensor axis, requiring the
// order to be duplicate-free and to cover every site the circuit touches.
func siteIndices(c *circuit.Circuit, order []circuit.Site) (map[circuit.Site]int, error) {
	siteIndex := make(map[circuit.Site]int, len(order))
	for i, s := range order {
		if _, dup := siteIndex[s]; dup {
			return nil, fmt.Errorf("site order lists %v twice", s)
		}
		siteIndex[s] = i
	}
	for _, s := range c.AllSites() {
		if _, ok := siteIndex[s]; !ok {
			return nil, fmt.Errorf("site order is missing circuit site %v", s)
		}
	}
	return siteIndex, nil
}

// runCircuit flattens, batches, and applies the circuit to the state tensor,
// returning whichever of the ping-pong buffers holds the final state.
func runCircuit(c *circuit.Circuit, state *tensor, siteIndex map[circuit.Site]int, opts Options) (*tensor, error) {
	d := opts.levels()
	apps, err := ExtractUnitaries(c.AllOperations(), d)
	if err != nil {
		return nil, err
	}
	batches := ReconstructBatches(apps)

	buffer := state.zeroLike()
	numSites := len(siteIndex)
	for bi, batch := range batches {
		logrus.Debugf("[batch %03d] applying %d gates", bi, len(batch))
		for _, app := range batch {
			k := len(app.Sites)
			m, err := flattenMatrix(app.Matrix, d, k)
			if err != nil {
				return nil, err
			}
			targets := make([]int, k)
			for i, s := range app.Sites {
				targets[i] = siteIndex[s]
			}
			applyMatrix(m, k, state, buffer, targets)
			state, buffer = buffer, state

			if opts.Noise != nil {
				state, buffer, err = applyGateError(state, buffer, targets, d, opts.Noise)
				if err != nil {
					return nil, err
				}
			}
		}

		if opts.Noise != nil {
			state, buffer, err = applyIdleErrors(state, buffer, batch, numSites, d, opts.Noise)
			if err != nil {
				return nil, err
			}
		}
	}
	return state, nil
}

// applyGateError samples and applies one error operator for the gate that
// just acted on targets.
func applyGateError(state, buffer *tensor, targets []int, d int, model noise.Model) (*tensor, *tensor, error) {
	var op *mat.CDense
	switch len(targets) {
	case 1:
		op = model.SingleGateChannel()
	case 2:
		op = model.TwoGateChannel()
	default:
		return nil, nil, fmt.Errorf("no gate-error channel for a %d-site gate", len(targets))
	}
	m, err := flattenMatrix(op, d, len(targets))
	if err != nil {
		return nil, nil, err
	}
	applyMatrix(m, len(targets), state, buffer, targets)
	return buffer, state, nil
}

// applyIdleErrors samples and applies one idle operator per site. The long
// channel is used when any two-site gate occurred in the batch, the short
// channel otherwise; this is a global per-batch decision applied uniformly
// to every site. Idle operators may be incoherent (non-trace-preserving), so
// the result is renormalized after each application.
func applyIdleErrors(state, buffer *tensor, batch []GateApplication, numSites, d int, model noise.Model) (*tensor, *tensor, error) {
	long := false
	for _, app := range batch {
		if len(app.Sites) == 2 {
			long = true
			break
		}
	}
	for axis := 0; axis < numSites; axis++ {
		var op *mat.CDense
		if long {
			op = model.LongIdleChannel()
		} else {
			op = model.ShortIdleChannel()
		}
		m, err := flattenMatrix(op, d, 1)
		if err != nil {
			return nil, nil, err
		}
		applyMatrix(m, 1, state, buffer, []int{axis})
		norm := buffer.norm()
		if norm == 0 {
			return nil, nil, fmt.Errorf("idle channel annihilated the state on axis %d", axis)
		}
		buffer.scale(1 / norm)
		state, buffer = buffer, state
	}
	return state, buffer, nil
}

// flattenMatrix copies a (d^k x d^k) matrix into row-major form, validating
// its shape against the site count.
func flattenMatrix(m *mat.CDense, d, k int) ([]complex128, error) {
	rows, cols := m.Dims()
	want := intPow(d, k)
	if rows != want || cols != want {
		return nil, fmt.Errorf("%w: %dx%d matrix for %d sites of dimension %d (want %dx%d)",
			ErrShapeMismatch, rows, cols, k, d, want, want)
	}
	flat := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			flat[i*cols+j] = m.At(i, j)
		}
	}
	return flat, nil
}
