package circuit

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Circuit is an ordered, mutable sequence of moments plus an optional device
// collaborator that validates every mutation. All mutating methods are
// all-or-nothing: on error the circuit is left exactly as it was.
type Circuit struct {
	moments []Moment
	device  Device
}

// New creates an empty circuit with no device constraints.
func New() *Circuit {
	return NewWithDevice(Unconstrained{})
}

// NewWithDevice creates an empty circuit validated by the given device.
func NewWithDevice(d Device) *Circuit {
	return &Circuit{device: d}
}

// FromOps builds a circuit by inserting the given operations with the given
// strategy, mirroring construction from an operation stream.
func FromOps(strategy InsertStrategy, ops ...Operation) (*Circuit, error) {
	c := New()
	if err := c.Append(strategy, ops...); err != nil {
		return nil, err
	}
	return c, nil
}

// Copy returns a circuit sharing the same device but an independent moment
// sequence. Moments themselves are immutable and safely shared.
func (c *Circuit) Copy() *Circuit {
	return &Circuit{moments: slices.Clone(c.moments), device: c.device}
}

// Len returns the number of moments.
func (c *Circuit) Len() int {
	return len(c.moments)
}

// MomentAt returns the moment at index i. The index must be in range.
func (c *Circuit) MomentAt(i int) Moment {
	return c.moments[i]
}

// Moments returns a copy of the moment sequence.
func (c *Circuit) Moments() []Moment {
	return slices.Clone(c.moments)
}

// Device returns the attached validation collaborator.
func (c *Circuit) Device() Device {
	return c.device
}

// AllSites returns every site acted on by the circuit, in ascending order.
func (c *Circuit) AllSites() []Site {
	seen := make(map[Site]struct{})
	for _, m := range c.moments {
		for s := range m.sites {
			seen[s] = struct{}{}
		}
	}
	sites := make([]Site, 0, len(seen))
	for s := range seen {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i] < sites[j] })
	return sites
}

// AllOperations returns the circuit's operations, earlier moments first and
// insertion order within a moment.
func (c *Circuit) AllOperations() []Operation {
	var ops []Operation
	for _, m := range c.moments {
		ops = append(ops, m.ops...)
	}
	return ops
}

// IndexedOperation names an operation at a specific moment index, as used by
// the atomic batch edits and the find queries.
type IndexedOperation struct {
	MomentIndex int
	Operation   Operation
}

// FindAllOperations returns every operation satisfying the predicate together
// with its moment index, in circuit order.
func (c *Circuit) FindAllOperations(pred func(Operation) bool) []IndexedOperation {
	var found []IndexedOperation
	for i, m := range c.moments {
		for _, op := range m.ops {
			if pred(op) {
				found = append(found, IndexedOperation{MomentIndex: i, Operation: op})
			}
		}
	}
	return found
}

// OperationAt returns the operation acting on the given site in the given
// moment, if any.
func (c *Circuit) OperationAt(site Site, momentIndex int) (Operation, bool) {
	if momentIndex < 0 || momentIndex >= len(c.moments) {
		return Operation{}, false
	}
	for _, op := range c.moments[momentIndex].ops {
		if op.TouchesAny(site) {
			return op, true
		}
	}
	return Operation{}, false
}

// NextMomentOperatingOn returns the index of the first moment at or after
// start that acts on any of the given sites.
func (c *Circuit) NextMomentOperatingOn(sites []Site, start int) (int, bool) {
	for i := start; i < len(c.moments); i++ {
		if c.moments[i].OperatesOn(sites...) {
			return i, true
		}
	}
	return 0, false
}

// NextMomentsOperatingOn returns, per site, the index of the first moment at
// or after start acting on it, or the circuit length when no such moment
// exists.
func (c *Circuit) NextMomentsOperatingOn(sites []Site, start int) map[Site]int {
	next := make(map[Site]int, len(sites))
	for _, s := range sites {
		if i, ok := c.NextMomentOperatingOn([]Site{s}, start); ok {
			next[s] = i
		} else {
			next[s] = len(c.moments)
		}
	}
	return next
}

// PrevMomentOperatingOn returns the index of the last moment before end that
// acts on any of the given sites.
func (c *Circuit) PrevMomentOperatingOn(sites []Site, end int) (int, bool) {
	if end > len(c.moments) {
		end = len(c.moments)
	}
	for i := end - 1; i >= 0; i-- {
		if c.moments[i].OperatesOn(sites...) {
			return i, true
		}
	}
	return 0, false
}

// AreAllMeasurementsTerminal reports whether every measurement is followed by
// no further operation on any of its sites.
func (c *Circuit) AreAllMeasurementsTerminal() bool {
	for _, found := range c.FindAllOperations(IsMeasurement) {
		if _, ok := c.NextMomentOperatingOn(found.Operation.Sites(), found.MomentIndex+1); ok {
			return false
		}
	}
	return true
}

// canAddOpAt reports whether op can be written into moment i. Out-of-range
// indices are addable because a new moment would be created there.
func (c *Circuit) canAddOpAt(i int, op Operation) bool {
	if i < 0 || i >= len(c.moments) {
		return true
	}
	if c.moments[i].OperatesOn(op.sites...) {
		return false
	}
	return c.device.CanAddOperationInto(op, c.moments[i])
}

// prevMomentAvailable walks backward from end past moments that do not touch
// op's sites, returning the earliest index that can accept op.
func (c *Circuit) prevMomentAvailable(op Operation, end int) int {
	lastAvailable := end
	for k := end - 1; k >= 0; k-- {
		if c.moments[k].OperatesOn(op.sites...) {
			return lastAvailable
		}
		if c.canAddOpAt(k, op) {
			lastAvailable = k
		}
	}
	return lastAvailable
}

// pickOrCreateInsertionIndex determines and prepares where an insertion will
// occur, creating a new moment for the NEW strategies.
func (c *Circuit) pickOrCreateInsertionIndex(splitter int, op Operation, strategy InsertStrategy) (int, error) {
	switch strategy {
	case StrategyNew, StrategyNewThenInline:
		c.moments = slices.Insert(c.moments, splitter, Moment{})
		return splitter, nil

	case StrategyInline:
		if splitter-1 >= 0 && splitter-1 < len(c.moments) && c.canAddOpAt(splitter-1, op) {
			return splitter - 1, nil
		}
		return c.pickOrCreateInsertionIndex(splitter, op, StrategyNew)

	case StrategyEarliest:
		if c.canAddOpAt(splitter, op) {
			return c.prevMomentAvailable(op, splitter), nil
		}
		return c.pickOrCreateInsertionIndex(splitter, op, StrategyInline)
	}
	return 0, fmt.Errorf("unrecognized insert strategy: %v", strategy)
}

// Insert places operations into the circuit starting at index, picking a
// target moment per operation according to the strategy. Operations are
// pre-expanded through the device's DecomposeOperation hook. Returns an index
// at or after every newly touched moment, suitable for chaining.
func (c *Circuit) Insert(index int, strategy InsertStrategy, ops ...Operation) (int, error) {
	if index < 0 || index > len(c.moments) {
		return 0, fmt.Errorf("%w: insert index %d not in [0, %d]", ErrIndexOutOfRange, index, len(c.moments))
	}

	expanded := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if sub := c.device.DecomposeOperation(op); sub != nil {
			expanded = append(expanded, sub...)
		} else {
			expanded = append(expanded, op)
		}
	}
	for _, op := range expanded {
		if err := c.device.ValidateOperation(op); err != nil {
			return 0, fmt.Errorf("%w: device rejected %v: %v", ErrStructuralViolation, op, err)
		}
	}

	saved := slices.Clone(c.moments)
	k := index
	for _, op := range expanded {
		p, err := c.pickOrCreateInsertionIndex(k, op, strategy)
		if err != nil {
			c.moments = saved
			return 0, err
		}
		for p >= len(c.moments) {
			c.moments = append(c.moments, Moment{})
		}
		merged, err := c.moments[p].WithOperation(op)
		if err != nil {
			c.moments = saved
			return 0, err
		}
		if derr := c.device.ValidateMoment(merged); derr != nil {
			c.moments = saved
			return 0, fmt.Errorf("%w: device rejected moment %d: %v", ErrStructuralViolation, p, derr)
		}
		c.moments[p] = merged
		if p+1 > k {
			k = p + 1
		}
		if strategy == StrategyNewThenInline {
			strategy = StrategyInline
		}
	}
	return k, nil
}

// Append inserts operations at the end of the circuit.
func (c *Circuit) Append(strategy InsertStrategy, ops ...Operation) error {
	_, err := c.Insert(len(c.moments), strategy, ops...)
	return err
}

// InsertIntoRange writes operations into existing moments within [start, end)
// wherever no collision occurs, scanning left to right. Operations that do
// not fit are appended after end via Insert. Returns an index after every
// placed operation.
func (c *Circuit) InsertIntoRange(ops []Operation, start, end int) (int, error) {
	if !(0 <= start && start <= end && end <= len(c.moments)) {
		return 0, fmt.Errorf("%w: bad insert range [%d, %d)", ErrIndexOutOfRange, start, end)
	}
	for _, op := range ops {
		if err := c.device.ValidateOperation(op); err != nil {
			return 0, fmt.Errorf("%w: device rejected %v: %v", ErrStructuralViolation, op, err)
		}
	}

	saved := slices.Clone(c.moments)
	i := start
	opIndex := 0
	for opIndex < len(ops) {
		op := ops[opIndex]
		for i < end && !c.canAddOpAt(i, op) {
			i++
		}
		if i >= end {
			break
		}
		merged, err := c.moments[i].WithOperation(op)
		if err != nil {
			c.moments = saved
			return 0, err
		}
		if derr := c.device.ValidateMoment(merged); derr != nil {
			c.moments = saved
			return 0, fmt.Errorf("%w: device rejected moment %d: %v", ErrStructuralViolation, i, derr)
		}
		c.moments[i] = merged
		opIndex++
	}

	if opIndex >= len(ops) {
		return end, nil
	}
	next, err := c.Insert(end, StrategyNewThenInline, ops[opIndex:]...)
	if err != nil {
		c.moments = saved
		return 0, err
	}
	return next, nil
}

// BatchRemove removes several operations atomically. Every removal is
// validated against a working copy first; if any operation is absent the
// whole call fails and the circuit is untouched.
func (c *Circuit) BatchRemove(removals []IndexedOperation) error {
	moments := slices.Clone(c.moments)
	for _, r := range removals {
		if r.MomentIndex < 0 || r.MomentIndex >= len(moments) {
			return fmt.Errorf("%w: %w: remove from moment %d of %d",
				ErrAtomicBatchFailure, ErrIndexOutOfRange, r.MomentIndex, len(moments))
		}
		without, found := moments[r.MomentIndex].Without(r.Operation)
		if !found {
			return fmt.Errorf("%w: can't remove %v @ %d because it doesn't exist",
				ErrAtomicBatchFailure, r.Operation, r.MomentIndex)
		}
		moments[r.MomentIndex] = without
	}
	if err := c.device.ValidateMoments(moments); err != nil {
		return fmt.Errorf("%w: device rejected edited circuit: %v", ErrAtomicBatchFailure, err)
	}
	c.moments = moments
	return nil
}

// BatchInsertInto writes operations into empty slots of existing moments
// atomically. Any collision fails the whole call with no mutation.
func (c *Circuit) BatchInsertInto(insertions []IndexedOperation) error {
	moments := slices.Clone(c.moments)
	for _, ins := range insertions {
		if ins.MomentIndex < 0 || ins.MomentIndex >= len(moments) {
			return fmt.Errorf("%w: %w: insert into moment %d of %d",
				ErrAtomicBatchFailure, ErrIndexOutOfRange, ins.MomentIndex, len(moments))
		}
		merged, err := moments[ins.MomentIndex].WithOperation(ins.Operation)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAtomicBatchFailure, err)
		}
		moments[ins.MomentIndex] = merged
	}
	if err := c.device.ValidateMoments(moments); err != nil {
		return fmt.Errorf("%w: device rejected edited circuit: %v", ErrAtomicBatchFailure, err)
	}
	c.moments = moments
	return nil
}

// Insertion is one request of a BatchInsert call.
type Insertion struct {
	Index int
	Ops   []Operation
}

// BatchInsert applies several insertions atomically with the EARLIEST
// strategy, accounting for moments created by earlier insertions when
// applying later ones.
func (c *Circuit) BatchInsert(insertions []Insertion) error {
	ordered := slices.Clone(insertions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	working := c.Copy()
	shift := 0
	for _, ins := range ordered {
		for _, op := range ins.Ops {
			next, err := working.Insert(ins.Index+shift, StrategyEarliest, op)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrAtomicBatchFailure, err)
			}
			if next > ins.Index {
				shift++
			}
		}
	}
	c.moments = working.moments
	return nil
}

// Frontier maps each site to the index of the earliest moment into which a
// new operation touching that site may be placed.
type Frontier map[Site]int

// pickInsertedOpsMomentIndices greedily assigns operations to moment indices
// no earlier than start or the frontier of any touched site, advancing the
// frontier past each assignment.
func pickInsertedOpsMomentIndices(ops []Operation, start int, frontier Frontier) []int {
	indices := make([]int, len(ops))
	for i, op := range ops {
		opStart := start
		for _, s := range op.sites {
			if frontier[s] > opStart {
				opStart = frontier[s]
			}
		}
		indices[i] = opStart
		for _, s := range op.sites {
			if opStart+1 > frontier[s] {
				frontier[s] = opStart + 1
			}
		}
	}
	return indices
}

// pushFrontier splices empty moments in so that the early frontier does not
// overrun the already-scheduled later operations, shifting early-frontier
// entries for sites outside the late frontier accordingly.
func (c *Circuit) pushFrontier(early Frontier, late map[Site]int) {
	if len(late) == 0 {
		return
	}
	nNew := math.MinInt
	for s, li := range late {
		if v := early[s] - li; v > nNew {
			nNew = v
		}
	}
	if nNew <= 0 {
		return
	}
	insertIndex := math.MaxInt
	for _, li := range late {
		if li < insertIndex {
			insertIndex = li
		}
	}
	c.moments = slices.Insert(c.moments, insertIndex, make([]Moment, nNew)...)
	for s := range early {
		if _, isLate := late[s]; isLate {
			continue
		}
		if early[s] > insertIndex {
			early[s] += nNew
		}
	}
}

// insertOperations writes operations into the given moment indices, appending
// empty moments as needed. Collisions among the operations or with existing
// content surface as structural violations.
func (c *Circuit) insertOperations(ops []Operation, indices []int) error {
	if len(ops) != len(indices) {
		return fmt.Errorf("operations and insertion indices must have the same length")
	}
	for _, idx := range indices {
		for idx >= len(c.moments) {
			c.moments = append(c.moments, Moment{})
		}
	}
	for i, idx := range indices {
		merged, err := c.moments[idx].WithOperation(ops[i])
		if err != nil {
			return err
		}
		c.moments[idx] = merged
	}
	return nil
}

// InsertAtFrontier inserts operations inline at the per-site frontier,
// splicing in empty moments where needed so that the relative temporal order
// of previously scheduled operations is preserved. A nil frontier starts
// empty. Returns the updated frontier.
func (c *Circuit) InsertAtFrontier(ops []Operation, start int, frontier Frontier) (Frontier, error) {
	if frontier == nil {
		frontier = make(Frontier)
	}
	if len(ops) == 0 {
		return frontier, nil
	}

	siteSet := make(map[Site]struct{})
	for _, op := range ops {
		for _, s := range op.sites {
			siteSet[s] = struct{}{}
		}
	}
	sites := make([]Site, 0, len(siteSet))
	for s := range siteSet {
		if frontier[s] > start {
			return nil, fmt.Errorf("the frontier for sites the operations act on cannot be after start (site %v: %d > %d)",
				s, frontier[s], start)
		}
		sites = append(sites, s)
	}

	late := c.NextMomentsOperatingOn(sites, start)
	indices := pickInsertedOpsMomentIndices(ops, start, frontier)

	saved := slices.Clone(c.moments)
	c.pushFrontier(frontier, late)
	if err := c.insertOperations(ops, indices); err != nil {
		c.moments = saved
		return nil, err
	}
	return frontier, nil
}

// ClearOperationsTouching removes every operation acting on any of the given
// sites from the given moments. Out-of-range indices are ignored.
func (c *Circuit) ClearOperationsTouching(sites []Site, momentIndices []int) {
	for _, k := range momentIndices {
		if k >= 0 && k < len(c.moments) {
			c.moments[k] = c.moments[k].WithoutOperationsTouching(sites...)
		}
	}
}
