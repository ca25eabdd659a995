// Package trace provides per-replica transition statistics for calibration
// and debugging of jump-process runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ReplicaRecord captures the transition counts of a single replica.
type ReplicaRecord struct {
	Replica   int
	SiteDraws int64            // uniformly selected sites, blocked ones included
	Attempts  int64            // draws that advanced the shot clock
	Proposed  map[string]int64 // transition kind -> times the pair was drawn
	Accepted  map[string]int64 // transition kind -> times the pair changed state
}
