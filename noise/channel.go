// Package noise models stochastic physical noise as weighted finite sets of
// Kraus-type operators: one channel per context (single-site gate, two-site
// gate, short idle, long idle), each sampling one operator per draw.
package noise

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrMalformedWeights is returned at model construction when channel weights
// do not form a probability distribution. Sampling itself never fails.
var ErrMalformedWeights = errors.New("malformed channel weights")

// weightSumTolerance bounds how far channel weights may drift from summing
// to 1 before construction is rejected. Weights inside the tolerance are
// renormalized to sum exactly to 1.
const weightSumTolerance = 1e-3

// Channel is a fixed finite weighted set of Kraus-type operators. Sampling
// draws an operator index proportionally to its weight.
type Channel struct {
	operators []*mat.CDense
	dist      distuv.Categorical
}

// NewChannel validates the weights (nonnegative, summing to 1 within
// tolerance) and builds the weighted sampler over src.
func NewChannel(operators []*mat.CDense, weights []float64, src rand.Source) (*Channel, error) {
	if len(operators) == 0 {
		return nil, fmt.Errorf("%w: empty operator set", ErrMalformedWeights)
	}
	if len(operators) != len(weights) {
		return nil, fmt.Errorf("%w: %d operators but %d weights",
			ErrMalformedWeights, len(operators), len(weights))
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: weight %d is negative (%v)", ErrMalformedWeights, i, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return nil, fmt.Errorf("%w: sum is %v for weights %v", ErrMalformedWeights, sum, weights)
	}
	// Normalize anyway so the sum is exactly 1.
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / sum
	}
	held := make([]*mat.CDense, len(operators))
	copy(held, operators)
	return &Channel{
		operators: held,
		dist:      distuv.NewCategorical(normalized, src),
	}, nil
}

// Sample draws one operator, index chosen proportionally to its weight.
func (c *Channel) Sample() *mat.CDense {
	return c.operators[int(c.dist.Rand())]
}

// Len returns the number of operators in the channel.
func (c *Channel) Len() int {
	return len(c.operators)
}

// Model exposes the four sampling operations the simulator interleaves with
// gate application: gate error keyed by operand count, and idle decoherence
// keyed by batch duration.
type Model interface {
	SingleGateChannel() *mat.CDense
	TwoGateChannel() *mat.CDense
	ShortIdleChannel() *mat.CDense
	LongIdleChannel() *mat.CDense
}

// ChannelModel is a Model backed by four explicit channels.
type ChannelModel struct {
	singleGate *Channel
	twoGate    *Channel
	shortIdle  *Channel
	longIdle   *Channel
}

// NewChannelModel assembles a Model from its four channels.
func NewChannelModel(singleGate, twoGate, shortIdle, longIdle *Channel) *ChannelModel {
	return &ChannelModel{
		singleGate: singleGate,
		twoGate:    twoGate,
		shortIdle:  shortIdle,
		longIdle:   longIdle,
	}
}

func (m *ChannelModel) SingleGateChannel() *mat.CDense { return m.singleGate.Sample() }
func (m *ChannelModel) TwoGateChannel() *mat.CDense    { return m.twoGate.Sample() }
func (m *ChannelModel) ShortIdleChannel() *mat.CDense  { return m.shortIdle.Sample() }
func (m *ChannelModel) LongIdleChannel() *mat.CDense   { return m.longIdle.Sample() }
