package sim

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiqc/qutrits/circuit"
	"github.com/epiqc/qutrits/noise"
)

const amplitudeTolerance = 1e-9

func assertStatesClose(t *testing.T, want, got []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if cmplx.Abs(want[i]-got[i]) > amplitudeTolerance {
			t.Fatalf("amplitude %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplyUnitaryEffect_DoubleFlipIsIdentity(t *testing.T) {
	// GIVEN a qubit circuit applying NOT twice to the same site
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew,
		circuit.MustOperation(circuit.X, s),
		circuit.MustOperation(circuit.X, s))
	require.NoError(t, err)

	// WHEN it acts on |0>
	initial := BasisState(2, 1, 0)
	final, err := ApplyUnitaryEffect(c, initial, []circuit.Site{s}, Options{Levels: 2})
	require.NoError(t, err)

	// THEN the state comes back unchanged
	assertStatesClose(t, initial, final)
}

func TestApplyUnitaryEffect_ControlledIncrement(t *testing.T) {
	// GIVEN a circuit driving the control site to 2 and then incrementing
	// the target conditionally
	s0, s1 := circuit.Site(0), circuit.Site(1)
	c, err := circuit.FromOps(circuit.StrategyNew,
		circuit.MustOperation(circuit.Plus(2), s0),
		circuit.MustOperation(circuit.C2Plus, s0, s1))
	require.NoError(t, err)

	final, err := ApplyUnitaryEffect(c, BasisState(3, 2, 0), []circuit.Site{s0, s1}, Options{})
	require.NoError(t, err)

	// THEN the final state is |21>
	want := BasisState(3, 2, 2*3+1)
	assertStatesClose(t, want, final)
}

func TestApplyUnitaryEffect_IdealNoiseMatchesNoiseless(t *testing.T) {
	// GIVEN a three-site qutrit circuit with one- and two-site gates
	sites := circuit.SiteRange(3)
	c := circuit.New()
	require.NoError(t, c.Append(circuit.StrategyEarliest,
		circuit.MustOperation(circuit.Plus(1), sites[0]),
		circuit.MustOperation(circuit.Plus(1), sites[0]),
		circuit.MustOperation(circuit.C2Plus, sites[0], sites[1]),
		circuit.MustOperation(circuit.Plus(2), sites[2]),
		circuit.MustOperation(circuit.C2Plus, sites[2], sites[0])))

	initial := BasisState(3, 3, 0)

	// WHEN it is simulated without noise and with the identity-weight model
	ideal, err := ApplyUnitaryEffect(c, initial, sites, Options{})
	require.NoError(t, err)
	noisy, err := ApplyUnitaryEffect(c, initial, sites, Options{Noise: noise.Ideal(DefaultLevels)})
	require.NoError(t, err)

	// THEN the two final states agree
	assertStatesClose(t, ideal, noisy)
	assert.InDelta(t, 1.0, Fidelity(noisy, ideal), amplitudeTolerance)
}

func TestApplyUnitaryEffect_MeasurementInvertMaskFlips(t *testing.T) {
	// GIVEN a terminal measurement with an inverted site
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew,
		circuit.MustOperation(circuit.Measure(true), s))
	require.NoError(t, err)

	final, err := ApplyUnitaryEffect(c, BasisState(3, 1, 0), []circuit.Site{s}, Options{})
	require.NoError(t, err)

	// THEN the corrective flip advanced |0> to |1>
	assertStatesClose(t, BasisState(3, 1, 1), final)
}

func TestApplyUnitaryEffect_NonTerminalMeasurement_Errors(t *testing.T) {
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew,
		circuit.MustOperation(circuit.Measure(false), s),
		circuit.MustOperation(circuit.Plus(1), s))
	require.NoError(t, err)

	_, err = ApplyUnitaryEffect(c, BasisState(3, 1, 0), []circuit.Site{s}, Options{})

	assert.ErrorIs(t, err, ErrNonTerminalMeasurement)
}

func TestApplyUnitaryEffect_WrongStateLength_Errors(t *testing.T) {
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew, circuit.MustOperation(circuit.Plus(1), s))
	require.NoError(t, err)

	_, err = ApplyUnitaryEffect(c, make([]complex128, 4), []circuit.Site{s}, Options{})

	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestApplyUnitaryEffect_GateDimensionMismatch_Errors(t *testing.T) {
	// GIVEN a qubit gate simulated at the default qutrit dimension
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew, circuit.MustOperation(circuit.X, s))
	require.NoError(t, err)

	_, err = ApplyUnitaryEffect(c, BasisState(3, 1, 0), []circuit.Site{s}, Options{})

	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestApplyUnitaryEffect_SiteOrderValidation(t *testing.T) {
	s0, s1 := circuit.Site(0), circuit.Site(1)
	c, err := circuit.FromOps(circuit.StrategyNew, circuit.MustOperation(circuit.C2Plus, s0, s1))
	require.NoError(t, err)

	_, err = ApplyUnitaryEffect(c, BasisState(3, 1, 0), []circuit.Site{s0}, Options{})
	assert.Error(t, err, "order missing a circuit site must be rejected")

	_, err = ApplyUnitaryEffect(c, BasisState(3, 2, 0), []circuit.Site{s0, s0}, Options{})
	assert.Error(t, err, "duplicate sites in the order must be rejected")
}

func TestToUnitary_MatchesGateMatrix(t *testing.T) {
	// GIVEN a single Plus(1) gate
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew, circuit.MustOperation(circuit.Plus(1), s))
	require.NoError(t, err)

	u, err := ToUnitary(c, []circuit.Site{s}, Options{})
	require.NoError(t, err)

	// THEN the unitary is the gate's own permutation matrix
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			want := complex128(0)
			if row == (col+1)%3 {
				want = 1
			}
			assert.InDelta(t, 0, cmplx.Abs(u.At(row, col)-want), amplitudeTolerance,
				"entry (%d, %d)", row, col)
		}
	}
}

func TestToUnitary_InverseComposesToIdentity(t *testing.T) {
	// GIVEN Plus(1) followed by its inverse
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew,
		circuit.MustOperation(circuit.Plus(1), s),
		circuit.MustOperation(circuit.Plus(2), s))
	require.NoError(t, err)

	u, err := ToUnitary(c, []circuit.Site{s}, Options{})
	require.NoError(t, err)

	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			want := complex128(0)
			if row == col {
				want = 1
			}
			assert.InDelta(t, 0, cmplx.Abs(u.At(row, col)-want), amplitudeTolerance)
		}
	}
}

func TestToUnitary_RejectsNoise(t *testing.T) {
	s := circuit.Site(0)
	c, err := circuit.FromOps(circuit.StrategyNew, circuit.MustOperation(circuit.Plus(1), s))
	require.NoError(t, err)

	_, err = ToUnitary(c, []circuit.Site{s}, Options{Noise: noise.Ideal(DefaultLevels)})

	assert.Error(t, err)
}

func TestFidelity(t *testing.T) {
	zero := BasisState(3, 1, 0)
	one := BasisState(3, 1, 1)

	assert.InDelta(t, 1.0, Fidelity(zero, zero), amplitudeTolerance)
	assert.InDelta(t, 0.0, Fidelity(zero, one), amplitudeTolerance)
}

func TestBasisState(t *testing.T) {
	state := BasisState(3, 2, 5)

	require.Len(t, state, 9)
	for i, v := range state {
		want := complex128(0)
		if i == 5 {
			want = 1
		}
		assert.Equal(t, want, v, "amplitude %d", i)
	}
}

func TestApplyUnitaryEffect_NoisySimulationStaysNormalized(t *testing.T) {
	// GIVEN a seeded physical noise model
	rng := noise.NewPartitionedRNG(noise.NewSimulationKey(7))
	params, err := noise.PresetParams("current")
	require.NoError(t, err)
	model, err := noise.NewSuperconducting(params, rng)
	require.NoError(t, err)

	sites := circuit.SiteRange(2)
	c := circuit.New()
	require.NoError(t, c.Append(circuit.StrategyEarliest,
		circuit.MustOperation(circuit.Plus(1), sites[0]),
		circuit.MustOperation(circuit.C2Plus, sites[0], sites[1])))

	final, err := ApplyUnitaryEffect(c, BasisState(3, 2, 0), sites, Options{Noise: model})
	require.NoError(t, err)

	// THEN the state remains a unit vector: gate errors are unitary and
	// idle damping is renormalized
	var norm float64
	for _, v := range final {
		norm += real(v)*real(v) + imag(v)*imag(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}
