package sim

import (
	"math"
	"testing"
)

func TestApplyMatrix_SingleAxisFlip(t *testing.T) {
	// GIVEN a one-qubit |0> state and the NOT matrix
	state := newTensor(2, 1)
	state.data[0] = 1
	out := state.zeroLike()
	not := []complex128{0, 1, 1, 0}

	applyMatrix(not, 1, state, out, []int{0})

	if out.data[0] != 0 || out.data[1] != 1 {
		t.Errorf("NOT |0> = %v, want |1>", out.data)
	}
}

func TestApplyMatrix_TargetsOnlyNamedAxis(t *testing.T) {
	// GIVEN the two-qutrit state |01> and the shift matrix on axis 1
	state := newTensor(3, 2)
	state.data[0*3+1] = 1
	out := state.zeroLike()
	shift := []complex128{
		0, 0, 1,
		1, 0, 0,
		0, 1, 0,
	}

	applyMatrix(shift, 1, state, out, []int{1})

	// THEN only the second digit advanced: |01> -> |02>
	for i, v := range out.data {
		want := complex128(0)
		if i == 0*3+2 {
			want = 1
		}
		if v != want {
			t.Fatalf("amplitude %d = %v, want %v", i, v, want)
		}
	}
}

func TestApplyMatrix_TwoAxisOrderFollowsTargets(t *testing.T) {
	// GIVEN the controlled increment on (control, target) = (axis 1, axis 0):
	// basis index is control*3 + target, so targets must be listed as {1, 0}
	inc := make([]complex128, 81)
	for j := 0; j < 9; j++ {
		control, target := j/3, j%3
		if control == 2 {
			target = (target + 1) % 3
		}
		inc[(control*3+target)*9+j] = 1
	}
	// State |t=0, c=2>: axis 0 holds the target, axis 1 the control.
	state := newTensor(3, 2)
	state.data[0*3+2] = 1
	out := state.zeroLike()

	applyMatrix(inc, 2, state, out, []int{1, 0})

	// THEN the target advanced: |t=1, c=2>
	if out.data[1*3+2] != 1 {
		t.Errorf("controlled increment produced %v", out.data)
	}
}

func TestTensorNormAndScale(t *testing.T) {
	state := newTensor(2, 1)
	state.data[0] = complex(3, 0)
	state.data[1] = complex(0, 4)

	if got := state.norm(); math.Abs(got-5) > 1e-12 {
		t.Fatalf("norm = %v, want 5", got)
	}
	state.scale(1 / state.norm())
	if got := state.norm(); math.Abs(got-1) > 1e-12 {
		t.Errorf("norm after scaling = %v, want 1", got)
	}
}
