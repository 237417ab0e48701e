package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/epiqc/qutrits/circuit"
)

// maxDecomposeDepth bounds decomposition recursion. Well-formed gate
// libraries terminate after a handful of levels; hitting the cap means a
// decomposition cycle.
const maxDecomposeDepth = 128

// GateApplication is one primitive unitary action: a matrix applied to an
// ordered tuple of sites.
type GateApplication struct {
	Matrix *mat.CDense
	Sites  []circuit.Site
}

// ExtractUnitaries flattens an operation stream into primitive gate
// applications, in emission order. Composite operations are decomposed
// recursively until every leaf has a known matrix. Measurements contribute a
// corrective flip for each site their invert mask marks and nothing else;
// collapse is out of scope here, so callers must ensure measurements are
// terminal or ignorable.
func ExtractUnitaries(ops []circuit.Operation, levels int) ([]GateApplication, error) {
	var apps []GateApplication
	if err := extractInto(&apps, ops, levels, 0); err != nil {
		return nil, err
	}
	return apps, nil
}

func extractInto(apps *[]GateApplication, ops []circuit.Operation, levels, depth int) error {
	if depth > maxDecomposeDepth {
		return fmt.Errorf("%w: decomposition exceeded depth %d", ErrUnsimulatable, maxDecomposeDepth)
	}
	for _, op := range ops {
		switch g := op.Gate().(type) {
		case circuit.KnownMatrix:
			*apps = append(*apps, GateApplication{Matrix: g.Matrix(), Sites: op.Sites()})

		case circuit.Composite:
			if err := extractInto(apps, g.Decompose(op.Sites()), levels, depth+1); err != nil {
				return err
			}

		case circuit.MeasurementGate:
			// Account for bit flips embedded into the measurement.
			sites := op.Sites()
			for i, inverted := range g.InvertMask() {
				if inverted {
					*apps = append(*apps, GateApplication{
						Matrix: flipMatrix(levels),
						Sites:  []circuit.Site{sites[i]},
					})
				}
			}

		default:
			return fmt.Errorf("%w: %v", ErrUnsimulatable, op)
		}
	}
	return nil
}

// flipMatrix is the d-level generalization of the corrective NOT applied for
// inverted measurement results: |t> -> |t+1 mod d>.
func flipMatrix(levels int) *mat.CDense {
	m := mat.NewCDense(levels, levels, nil)
	for j := 0; j < levels; j++ {
		m.Set((j+1)%levels, j, 1)
	}
	return m
}
