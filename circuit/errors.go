package circuit

import "errors"

var (
	// ErrStructuralViolation is returned when a mutation would break the
	// disjoint-site-set invariant or is rejected by the attached device.
	// The circuit is left unchanged.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrIndexOutOfRange is returned for insertion or removal indices
	// outside the current moment sequence.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrAtomicBatchFailure is returned when any item of a batch edit fails
	// validation. The entire batch is rejected with no partial mutation.
	ErrAtomicBatchFailure = errors.New("atomic batch failure")
)
