package noise

import (
	"math"
	"math/cmplx"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// eye returns the d-dimensional identity.
func eye(d int) *mat.CDense {
	m := mat.NewCDense(d, d, nil)
	for i := 0; i < d; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// x3 is the qutrit shift operator |t> -> |t+1 mod 3>.
func x3() *mat.CDense {
	m := mat.NewCDense(3, 3, nil)
	m.Set(0, 2, 1)
	m.Set(1, 0, 1)
	m.Set(2, 1, 1)
	return m
}

// z3 is the qutrit clock operator diag(1, w, w^2) with w = e^(-2*pi*i/3).
func z3() *mat.CDense {
	m := mat.NewCDense(3, 3, nil)
	m.Set(0, 0, 1)
	m.Set(1, 1, cmplx.Exp(complex(0, -2*math.Pi/3)))
	m.Set(2, 2, cmplx.Exp(complex(0, -4*math.Pi/3)))
	return m
}

// mul returns the matrix product a*b. Like kron below, it is written out by
// hand: gonum's CDense carries no arithmetic methods.
func mul(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	_, bc := b.Dims()
	out := mat.NewCDense(ar, bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var acc complex128
			for k := 0; k < ac; k++ {
				acc += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, acc)
		}
	}
	return out
}

// kron returns the Kronecker product of a and b.
func kron(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	out := mat.NewCDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			v := a.At(i, j)
			for k := 0; k < br; k++ {
				for l := 0; l < bc; l++ {
					out.Set(i*br+k, j*bc+l, v*b.At(k, l))
				}
			}
		}
	}
	return out
}

// pauliBasis returns the nine single-qutrit Pauli-product operators
// [I, Z, Z2, X, XZ, XZ2, X2, X2Z, X2Z2], identity first.
func pauliBasis() []*mat.CDense {
	i3, x, z := eye(3), x3(), z3()
	x2, z2 := mul(x, x), mul(z, z)
	return []*mat.CDense{
		i3, z, z2,
		x, mul(x, z), mul(x, z2),
		x2, mul(x2, z), mul(x2, z2),
	}
}

// dampingOperators returns the three amplitude-damping Kraus operators for a
// qutrit idling for one time step: no-decay, |1>->|0> decay, and |2>->|0>
// decay. gamma1 and gamma2 are the decay probabilities of levels 1 and 2.
func dampingOperators(gamma1, gamma2 float64) []*mat.CDense {
	k0 := mat.NewCDense(3, 3, nil)
	k0.Set(0, 0, 1)
	k0.Set(1, 1, complex(math.Sqrt(1-gamma1), 0))
	k0.Set(2, 2, complex(math.Sqrt(1-gamma2), 0))
	k1 := mat.NewCDense(3, 3, nil)
	k1.Set(0, 1, complex(math.Sqrt(gamma1), 0))
	k2 := mat.NewCDense(3, 3, nil)
	k2.Set(0, 2, complex(math.Sqrt(gamma2), 0))
	return []*mat.CDense{k0, k1, k2}
}

// Params are the physical decay and error-rate constants that parameterize a
// superconducting noise model. This is configuration data; the sampling
// contract lives in Channel.
type Params struct {
	// SingleGateError is the total error probability of a one-site gate,
	// spread evenly over the non-identity error channels.
	SingleGateError float64 `yaml:"single_gate_error"`
	// TwoGateError is the total error probability of a two-site gate.
	TwoGateError float64 `yaml:"two_gate_error"`
	// T1Micros is the characteristic relaxation time in microseconds.
	T1Micros float64 `yaml:"t1_micros"`
	// SingleGateNanos is the duration of a one-site gate in nanoseconds;
	// batches without two-site gates idle for this long ("short").
	SingleGateNanos float64 `yaml:"single_gate_nanos"`
	// TwoGateNanos is the duration of a two-site gate in nanoseconds;
	// batches containing one idle for this long ("long").
	TwoGateNanos float64 `yaml:"two_gate_nanos"`
}

// gamma is the decay probability 1 - e^(-m*dt/T1) of level m after idling
// for dt.
func gamma(m, dtNanos, t1Micros float64) float64 {
	return 1 - math.Exp(-m*dtNanos/(t1Micros*1000))
}

// NewSuperconducting builds a qutrit noise model from physical constants:
// depolarizing Pauli-product channels for gate errors and amplitude-damping
// channels for idle decoherence. Gate-error and idle-error draws come from
// isolated RNG subsystems of rng.
func NewSuperconducting(p Params, rng *PartitionedRNG) (*ChannelModel, error) {
	basis := pauliBasis()

	// 3 error channels per qubit for one-site gates, 15 for two-site gates.
	p1 := p.SingleGateError / 3
	p2 := p.TwoGateError / 15

	singleWeights := make([]float64, len(basis))
	singleWeights[0] = 1 - 8*p1
	for i := 1; i < len(basis); i++ {
		singleWeights[i] = p1
	}

	twoOps := make([]*mat.CDense, 0, len(basis)*len(basis))
	for _, a := range basis {
		for _, b := range basis {
			twoOps = append(twoOps, kron(a, b))
		}
	}
	twoWeights := make([]float64, len(twoOps))
	twoWeights[0] = 1 - 80*p2
	for i := 1; i < len(twoOps); i++ {
		twoWeights[i] = p2
	}

	g1Short := gamma(1, p.SingleGateNanos, p.T1Micros)
	g2Short := gamma(2, p.SingleGateNanos, p.T1Micros)
	g1Long := gamma(1, p.TwoGateNanos, p.T1Micros)
	g2Long := gamma(2, p.TwoGateNanos, p.T1Micros)

	gateSrc := rng.ForSubsystem(SubsystemGateError)
	idleSrc := rng.ForSubsystem(SubsystemIdleError)

	singleGate, err := NewChannel(basis, singleWeights, gateSrc)
	if err != nil {
		return nil, err
	}
	twoGate, err := NewChannel(twoOps, twoWeights, gateSrc)
	if err != nil {
		return nil, err
	}
	shortIdle, err := NewChannel(dampingOperators(g1Short, g2Short), dampingWeights(g1Short, g2Short), idleSrc)
	if err != nil {
		return nil, err
	}
	longIdle, err := NewChannel(dampingOperators(g1Long, g2Long), dampingWeights(g1Long, g2Long), idleSrc)
	if err != nil {
		return nil, err
	}
	return NewChannelModel(singleGate, twoGate, shortIdle, longIdle), nil
}

// dampingWeights are the damping Kraus probabilities under the maximally
// mixed state, tr(K† K)/3, which sum to exactly 1. The applied operator is
// non-trace-preserving either way; the simulator renormalizes after each
// idle application.
func dampingWeights(gamma1, gamma2 float64) []float64 {
	return []float64{1 - (gamma1+gamma2)/3, gamma1 / 3, gamma2 / 3}
}

// Ideal returns a model whose four channels place probability 1 on the
// identity: simulation with it enabled must match noiseless simulation.
func Ideal(levels int) *ChannelModel {
	one := []float64{1}
	single, err := NewChannel([]*mat.CDense{eye(levels)}, one, rand.NewSource(1))
	if err != nil {
		panic(err)
	}
	two, err := NewChannel([]*mat.CDense{eye(levels * levels)}, one, rand.NewSource(1))
	if err != nil {
		panic(err)
	}
	idle, err := NewChannel([]*mat.CDense{eye(levels)}, one, rand.NewSource(1))
	if err != nil {
		panic(err)
	}
	return NewChannelModel(single, two, idle, idle)
}
