package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPauliBasis_IdentityFirstNineOperators(t *testing.T) {
	basis := pauliBasis()

	require.Len(t, basis, 9)
	// Identity must come first: its weight carries the no-error probability.
	assert.True(t, mat.CEqualApprox(basis[0], eye(3), 1e-12))
}

func TestMul_ShiftAndClockAlgebra(t *testing.T) {
	// X and Z are order-3: cubing either one returns the identity, which
	// only holds if the product accumulates full row-by-column sums.
	x, z := x3(), z3()

	assert.True(t, mat.CEqualApprox(mul(x, mul(x, x)), eye(3), 1e-12))
	assert.True(t, mat.CEqualApprox(mul(z, mul(z, z)), eye(3), 1e-12))

	// ZX = wXZ with w = e^(-2*pi*i/3): the Weyl commutation relation.
	w := z.At(1, 1)
	zx := mul(z, x)
	xz := mul(x, z)
	scaled := mat.NewCDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			scaled.Set(i, j, w*xz.At(i, j))
		}
	}
	assert.True(t, mat.CEqualApprox(zx, scaled, 1e-12))
}

func TestMul_RectangularShapes(t *testing.T) {
	a := mat.NewCDense(2, 3, []complex128{1, 0, 2, 0, 1, 0})
	b := mat.NewCDense(3, 1, []complex128{1, 1, 1})

	got := mul(a, b)

	r, c := got.Dims()
	require.Equal(t, [2]int{2, 1}, [2]int{r, c})
	assert.Equal(t, complex128(3), got.At(0, 0))
	assert.Equal(t, complex128(1), got.At(1, 0))
}

func TestDampingWeights_FormDistribution(t *testing.T) {
	g1, g2 := 0.01, 0.03

	w := dampingWeights(g1, g2)

	require.Len(t, w, 3)
	sum := 0.0
	for _, v := range w {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestGamma_DecayProbability(t *testing.T) {
	// No idle time means no decay
	assert.InDelta(t, 0.0, gamma(1, 0, 100), 1e-12)

	// Level 2 decays faster than level 1
	g1 := gamma(1, 300, 100)
	g2 := gamma(2, 300, 100)
	assert.Greater(t, g2, g1)

	// Longer idling decays more
	assert.Greater(t, gamma(1, 300, 100), gamma(1, 100, 100))

	// 1 - e^(-dt/T1) with dt and T1 in consistent units
	want := 1 - math.Exp(-300.0/100000.0)
	assert.InDelta(t, want, gamma(1, 300, 100), 1e-12)
}

func TestNewSuperconducting_BuildsFromPresets(t *testing.T) {
	for name := range presets {
		t.Run(name, func(t *testing.T) {
			params, err := PresetParams(name)
			require.NoError(t, err)

			model, err := NewSuperconducting(params, NewPartitionedRNG(NewSimulationKey(1)))
			require.NoError(t, err)

			// Channel dimensions match their contexts: 3x3 for one site,
			// 9x9 for two.
			r, c := model.SingleGateChannel().Dims()
			assert.Equal(t, [2]int{3, 3}, [2]int{r, c})
			r, c = model.TwoGateChannel().Dims()
			assert.Equal(t, [2]int{9, 9}, [2]int{r, c})
			r, c = model.ShortIdleChannel().Dims()
			assert.Equal(t, [2]int{3, 3}, [2]int{r, c})
			r, c = model.LongIdleChannel().Dims()
			assert.Equal(t, [2]int{3, 3}, [2]int{r, c})
		})
	}
}

func TestNewSuperconducting_SameSeedSameDraws(t *testing.T) {
	params, err := PresetParams("current")
	require.NoError(t, err)

	a, err := NewSuperconducting(params, NewPartitionedRNG(NewSimulationKey(42)))
	require.NoError(t, err)
	b, err := NewSuperconducting(params, NewPartitionedRNG(NewSimulationKey(42)))
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		assert.True(t, mat.CEqualApprox(a.SingleGateChannel(), b.SingleGateChannel(), 0),
			"single-gate draw %d diverged", i)
		assert.True(t, mat.CEqualApprox(a.LongIdleChannel(), b.LongIdleChannel(), 0),
			"idle draw %d diverged", i)
	}
}

func TestNewSuperconducting_GateAndIdleStreamsAreIsolated(t *testing.T) {
	// GIVEN two equal-seed models where only one interleaves gate draws
	params, err := PresetParams("current")
	require.NoError(t, err)
	a, err := NewSuperconducting(params, NewPartitionedRNG(NewSimulationKey(7)))
	require.NoError(t, err)
	b, err := NewSuperconducting(params, NewPartitionedRNG(NewSimulationKey(7)))
	require.NoError(t, err)

	// WHEN model a burns gate-error draws between its idle draws
	for i := 0; i < 50; i++ {
		a.SingleGateChannel()
		a.TwoGateChannel()
		idleA := a.ShortIdleChannel()
		idleB := b.ShortIdleChannel()

		// THEN the idle stream is unaffected
		assert.True(t, mat.CEqualApprox(idleA, idleB, 0), "idle draw %d perturbed", i)
	}
}

func TestIdeal_AlwaysReturnsIdentity(t *testing.T) {
	model := Ideal(3)

	for i := 0; i < 20; i++ {
		assert.True(t, mat.CEqualApprox(model.SingleGateChannel(), eye(3), 1e-12))
		assert.True(t, mat.CEqualApprox(model.TwoGateChannel(), eye(9), 1e-12))
		assert.True(t, mat.CEqualApprox(model.ShortIdleChannel(), eye(3), 1e-12))
		assert.True(t, mat.CEqualApprox(model.LongIdleChannel(), eye(3), 1e-12))
	}
}

func TestDampingOperators_Shapes(t *testing.T) {
	ops := dampingOperators(0.1, 0.2)

	require.Len(t, ops, 3)
	// The no-decay operator keeps |0> fixed and shrinks |1> and |2>.
	assert.Equal(t, complex128(1), ops[0].At(0, 0))
	assert.InDelta(t, math.Sqrt(0.9), real(ops[0].At(1, 1)), 1e-12)
	assert.InDelta(t, math.Sqrt(0.8), real(ops[0].At(2, 2)), 1e-12)
	// Decay operators move amplitude to |0>.
	assert.InDelta(t, math.Sqrt(0.1), real(ops[1].At(0, 1)), 1e-12)
	assert.InDelta(t, math.Sqrt(0.2), real(ops[2].At(0, 2)), 1e-12)
}
