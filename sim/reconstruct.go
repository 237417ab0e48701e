package sim

import "github.com/epiqc/qutrits/circuit"

// ReconstructBatches regroups a flat gate-application stream into maximal
// batches of mutually site-disjoint applications, honoring emission order as
// a dependency order: two applications sharing a site keep their relative
// order across batches.
//
// The algorithm is a greedy forward scan. Per round, an application joins
// the current batch unless one of its sites is already blocked; either way
// its sites become blocked, so later applications depending on a deferred
// one are deferred too.
func ReconstructBatches(apps []GateApplication) [][]GateApplication {
	var batches [][]GateApplication
	remaining := apps
	for len(remaining) > 0 {
		blocked := make(map[circuit.Site]struct{})
		var batch []GateApplication
		var deferred []GateApplication
		for _, app := range remaining {
			if anyBlocked(app.Sites, blocked) {
				deferred = append(deferred, app)
			} else {
				batch = append(batch, app)
			}
			for _, s := range app.Sites {
				blocked[s] = struct{}{}
			}
		}
		remaining = deferred
		batches = append(batches, batch)
	}
	return batches
}

func anyBlocked(sites []circuit.Site, blocked map[circuit.Site]struct{}) bool {
	for _, s := range sites {
		if _, ok := blocked[s]; ok {
			return true
		}
	}
	return false
}
