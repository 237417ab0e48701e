package circuit

// Device is the hardware-constraint collaborator consulted on every circuit
// mutation. Constraint policy itself is out of scope for this package; only
// the validation hook is consumed.
type Device interface {
	// ValidateOperation rejects operations the device cannot execute.
	ValidateOperation(op Operation) error

	// ValidateMoment rejects moments the device cannot schedule.
	ValidateMoment(m Moment) error

	// ValidateMoments rejects a whole moment sequence. Called after atomic
	// batch edits before the working copy is committed.
	ValidateMoments(moments []Moment) error

	// CanAddOperationInto reports whether op can join m without violating
	// device policy. Implementations must at least reject site collisions.
	CanAddOperationInto(op Operation, m Moment) bool

	// DecomposeOperation pre-expands an operation before insertion.
	// Returning nil keeps the operation as-is.
	DecomposeOperation(op Operation) []Operation
}

// Unconstrained is the zero-policy device: it accepts everything that keeps
// the disjoint-site-set invariant and never decomposes.
type Unconstrained struct{}

func (Unconstrained) ValidateOperation(Operation) error      { return nil }
func (Unconstrained) ValidateMoment(Moment) error            { return nil }
func (Unconstrained) ValidateMoments([]Moment) error         { return nil }
func (Unconstrained) DecomposeOperation(Operation) []Operation { return nil }

func (Unconstrained) CanAddOperationInto(op Operation, m Moment) bool {
	return !m.OperatesOn(op.sites...)
}
