package circuit

import (
	"fmt"
	"reflect"
	"strings"
)

// Operation binds a Gate to an ordered tuple of distinct sites. Operations
// are immutable once constructed.
type Operation struct {
	gate  Gate
	sites []Site
}

// NewOperation constructs an operation, rejecting repeated sites.
func NewOperation(g Gate, sites ...Site) (Operation, error) {
	seen := make(map[Site]struct{}, len(sites))
	for _, s := range sites {
		if _, dup := seen[s]; dup {
			return Operation{}, fmt.Errorf("%w: operation %s uses site %v more than once",
				ErrStructuralViolation, g.Name(), s)
		}
		seen[s] = struct{}{}
	}
	held := make([]Site, len(sites))
	copy(held, sites)
	return Operation{gate: g, sites: held}, nil
}

// MustOperation is NewOperation for sites known to be distinct, e.g. inside
// gate decompositions. Panics on a repeated site.
func MustOperation(g Gate, sites ...Site) Operation {
	op, err := NewOperation(g, sites...)
	if err != nil {
		panic(err)
	}
	return op
}

// Gate returns the operation's gate.
func (op Operation) Gate() Gate {
	return op.gate
}

// Sites returns a copy of the operation's ordered sites.
func (op Operation) Sites() []Site {
	sites := make([]Site, len(op.sites))
	copy(sites, op.sites)
	return sites
}

// NumSites returns how many sites the operation acts on.
func (op Operation) NumSites() int {
	return len(op.sites)
}

// TouchesAny reports whether the operation acts on any of the given sites.
func (op Operation) TouchesAny(sites ...Site) bool {
	for _, s := range op.sites {
		for _, other := range sites {
			if s == other {
				return true
			}
		}
	}
	return false
}

// Equal reports whether two operations have the same gate and the same sites
// in the same order. Gates compare structurally so that separately built but
// identical gate values (e.g. two Measure calls with the same mask) match.
func (op Operation) Equal(other Operation) bool {
	if !reflect.DeepEqual(op.gate, other.gate) || len(op.sites) != len(other.sites) {
		return false
	}
	for i, s := range op.sites {
		if s != other.sites[i] {
			return false
		}
	}
	return true
}

func (op Operation) String() string {
	parts := make([]string, len(op.sites))
	for i, s := range op.sites {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s(%s)", op.gate.Name(), strings.Join(parts, ", "))
}
