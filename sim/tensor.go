package sim

import "math"

// tensor is a dense complex array with rank axes of uniform dimension dim.
// A pure state over n sites has rank n; a full linear map has rank 2n.
// Data is laid out row-major: axis 0 is the most significant digit of the
// flat index.
type tensor struct {
	data []complex128
	dim  int
	rank int
}

func newTensor(dim, rank int) *tensor {
	return &tensor{
		data: make([]complex128, intPow(dim, rank)),
		dim:  dim,
		rank: rank,
	}
}

func (t *tensor) zeroLike() *tensor {
	return newTensor(t.dim, t.rank)
}

func (t *tensor) norm() float64 {
	sum := 0.0
	for _, v := range t.data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

func (t *tensor) scale(f float64) {
	c := complex(f, 0)
	for i := range t.data {
		t.data[i] *= c
	}
}

// applyMatrix contracts the (dim^k x dim^k) row-major matrix m against the
// axes of state listed in targets, writing the result into out. targets[0]
// is the most significant digit of the matrix row/column indices. state and
// out must have identical shape and must not alias.
func applyMatrix(m []complex128, k int, state, out *tensor, targets []int) {
	d := state.dim
	dk := intPow(d, k)

	strides := make([]int, k)
	for i, axis := range targets {
		strides[i] = intPow(d, state.rank-1-axis)
	}

	for f := range out.data {
		// Decode the target digits of this output index; base is the flat
		// index with all target digits zeroed.
		row := 0
		base := f
		for i := 0; i < k; i++ {
			digit := (f / strides[i]) % d
			row = row*d + digit
			base -= digit * strides[i]
		}
		var acc complex128
		for col := 0; col < dk; col++ {
			idx := base
			rem := col
			for i := k - 1; i >= 0; i-- {
				idx += (rem % d) * strides[i]
				rem /= d
			}
			acc += m[row*dk+col] * state.data[idx]
		}
		out.data[f] = acc
	}
}

func intPow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
