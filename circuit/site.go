package circuit

import "fmt"

// Site identifies a single quantum degree of freedom (a qubit or qutrit) on a
// line. Sites are externally supplied, hashable, and totally ordered by their
// integer position.
type Site int

func (s Site) String() string {
	return fmt.Sprintf("q%d", int(s))
}

// SiteRange returns the n sites [0, n).
func SiteRange(n int) []Site {
	sites := make([]Site, n)
	for i := range sites {
		sites[i] = Site(i)
	}
	return sites
}
