package circuit

import (
	"fmt"
	"sort"
	"strings"
)

// Moment is a time-slice batch of operations whose site-sets are pairwise
// disjoint. Moments are immutable values: every change produces a new Moment
// and the owning Circuit replaces its slot.
type Moment struct {
	ops   []Operation
	sites map[Site]struct{}
}

// NewMoment constructs a moment, rejecting operations with overlapping sites.
func NewMoment(ops ...Operation) (Moment, error) {
	m := Moment{sites: make(map[Site]struct{})}
	for _, op := range ops {
		var err error
		m, err = m.WithOperation(op)
		if err != nil {
			return Moment{}, err
		}
	}
	return m, nil
}

// WithOperation returns a new moment containing op in addition to the
// receiver's operations, or ErrStructuralViolation on a site collision.
func (m Moment) WithOperation(op Operation) (Moment, error) {
	for _, s := range op.sites {
		if _, taken := m.sites[s]; taken {
			return Moment{}, fmt.Errorf("%w: site %v already occupied in moment", ErrStructuralViolation, s)
		}
	}
	sites := make(map[Site]struct{}, len(m.sites)+len(op.sites))
	for s := range m.sites {
		sites[s] = struct{}{}
	}
	for _, s := range op.sites {
		sites[s] = struct{}{}
	}
	ops := make([]Operation, len(m.ops), len(m.ops)+1)
	copy(ops, m.ops)
	return Moment{ops: append(ops, op), sites: sites}, nil
}

// WithoutOperationsTouching returns a new moment with every operation that
// acts on any of the given sites removed.
func (m Moment) WithoutOperationsTouching(sites ...Site) Moment {
	kept := make([]Operation, 0, len(m.ops))
	for _, op := range m.ops {
		if !op.TouchesAny(sites...) {
			kept = append(kept, op)
		}
	}
	out, err := NewMoment(kept...)
	if err != nil {
		// Removing operations cannot introduce a collision.
		panic(err)
	}
	return out
}

// Without returns a new moment with the given operation removed, and whether
// it was present.
func (m Moment) Without(op Operation) (Moment, bool) {
	kept := make([]Operation, 0, len(m.ops))
	found := false
	for _, existing := range m.ops {
		if !found && existing.Equal(op) {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return m, false
	}
	out, err := NewMoment(kept...)
	if err != nil {
		panic(err)
	}
	return out, true
}

// OperatesOn reports whether any operation in the moment acts on any of the
// given sites.
func (m Moment) OperatesOn(sites ...Site) bool {
	for _, s := range sites {
		if _, ok := m.sites[s]; ok {
			return true
		}
	}
	return false
}

// Contains reports whether the moment holds an operation equal to op.
func (m Moment) Contains(op Operation) bool {
	for _, existing := range m.ops {
		if existing.Equal(op) {
			return true
		}
	}
	return false
}

// Operations returns a copy of the moment's operations in insertion order.
func (m Moment) Operations() []Operation {
	ops := make([]Operation, len(m.ops))
	copy(ops, m.ops)
	return ops
}

// Sites returns the sites acted on by the moment, in ascending order.
func (m Moment) Sites() []Site {
	sites := make([]Site, 0, len(m.sites))
	for s := range m.sites {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i] < sites[j] })
	return sites
}

// Len returns the number of operations in the moment.
func (m Moment) Len() int {
	return len(m.ops)
}

func (m Moment) String() string {
	parts := make([]string, len(m.ops))
	for i, op := range m.ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
