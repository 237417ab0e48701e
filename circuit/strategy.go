package circuit

// InsertStrategy selects how Insert picks or creates the moment an operation
// lands in.
type InsertStrategy int

const (
	// StrategyNewThenInline opens a new moment for the first operation of a
	// call and places every subsequent operation inline. This is the
	// default strategy for batches.
	StrategyNewThenInline InsertStrategy = iota

	// StrategyNew always opens a brand-new moment at the insertion index.
	StrategyNew

	// StrategyInline reuses the moment immediately preceding the insertion
	// index when it can accept the operation, falling back to StrategyNew.
	StrategyInline

	// StrategyEarliest commutes the operation backward past moments that do
	// not touch its sites to the earliest moment that can accept it,
	// falling back to StrategyInline.
	StrategyEarliest
)

func (s InsertStrategy) String() string {
	switch s {
	case StrategyNewThenInline:
		return "NEW_THEN_INLINE"
	case StrategyNew:
		return "NEW"
	case StrategyInline:
		return "INLINE"
	case StrategyEarliest:
		return "EARLIEST"
	}
	return "UNKNOWN"
}
