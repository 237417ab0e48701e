package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestNewChannel_WeightValidation(t *testing.T) {
	ops := []*mat.CDense{eye(3), x3(), z3()}
	tests := []struct {
		name    string
		weights []float64
		wantErr bool
	}{
		{"exact distribution", []float64{0.8, 0.1, 0.1}, false},
		{"inside tolerance low", []float64{0.7995, 0.1, 0.1}, false},
		{"inside tolerance high", []float64{0.8005, 0.1, 0.1}, false},
		{"sum too low", []float64{0.7, 0.1, 0.1}, true},
		{"sum too high", []float64{0.9, 0.1, 0.1}, true},
		{"negative weight", []float64{1.1, -0.05, -0.05}, true},
		{"length mismatch", []float64{0.5, 0.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChannel(ops, tt.weights, rand.NewSource(1))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedWeights)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewChannel_EmptyOperatorSet_Rejected(t *testing.T) {
	_, err := NewChannel(nil, nil, rand.NewSource(1))

	assert.ErrorIs(t, err, ErrMalformedWeights)
}

func TestChannel_Sample_HonorsDegenerateWeights(t *testing.T) {
	// GIVEN a channel with all probability mass on the last operator
	ops := []*mat.CDense{eye(3), x3(), z3()}
	ch, err := NewChannel(ops, []float64{0, 0, 1}, rand.NewSource(1))
	require.NoError(t, err)

	// THEN every draw returns that operator
	for i := 0; i < 100; i++ {
		assert.Same(t, ops[2], ch.Sample())
	}
}

func TestChannel_Sample_IsDeterministicPerSeed(t *testing.T) {
	// GIVEN two channels over identical weights and seeds
	ops := []*mat.CDense{eye(3), x3(), z3()}
	weights := []float64{0.5, 0.3, 0.2}
	a, err := NewChannel(ops, weights, rand.NewSource(99))
	require.NoError(t, err)
	b, err := NewChannel(ops, weights, rand.NewSource(99))
	require.NoError(t, err)

	// THEN they produce the same draw sequence
	for i := 0; i < 200; i++ {
		assert.Same(t, a.Sample(), b.Sample(), "draw %d", i)
	}
}

func TestChannel_Len(t *testing.T) {
	ch, err := NewChannel([]*mat.CDense{eye(3)}, []float64{1}, rand.NewSource(1))
	require.NoError(t, err)

	assert.Equal(t, 1, ch.Len())
}
