package sim

// ReplicaStats counts what happened during one replica.
type ReplicaStats struct {
	SiteDraws int64 // uniformly selected sites, including blocked ones
	Attempts  int64 // draws that advanced the shot clock (left site not a hole)
	Proposed  [numTransitionKinds]int64
	Accepted  [numTransitionKinds]int64
}

// ProposedOf returns how often a pair of the given kind was drawn.
func (rs *ReplicaStats) ProposedOf(k TransitionKind) int64 { return rs.Proposed[k] }

// AcceptedOf returns how often a pair of the given kind changed state.
func (rs *ReplicaStats) AcceptedOf(k TransitionKind) int64 { return rs.Accepted[k] }

// Add folds other into rs.
func (rs *ReplicaStats) Add(other ReplicaStats) {
	rs.SiteDraws += other.SiteDraws
	rs.Attempts += other.Attempts
	for k := range rs.Proposed {
		rs.Proposed[k] += other.Proposed[k]
		rs.Accepted[k] += other.Accepted[k]
	}
}

// Engine runs the jump process on one ring for one replica at a time.
//
// One elementary step selects a uniformly random directed edge (ia, ia+1).
// If the left site is a hole nothing happens and no time elapses. Otherwise
// the step counts as one time unit and the pair's transition fires with its
// normalized probability. Every DtShot time units the ring is added into the
// shot table; the first shot is taken before any step.
//
// An Engine is owned by one goroutine.
type Engine struct {
	transitions TransitionTable
	dtShot      int
	shots       int
}

// NewEngine creates an engine for the given rates and shot schedule.
func NewEngine(rates RateTable, dtShot, shots int) *Engine {
	return &Engine{
		transitions: rates.Transitions(),
		dtShot:      dtShot,
		shots:       shots,
	}
}

// Run evolves ring in place until all shots of the replica are taken,
// accumulating each shot into table. It does not mark the replica complete.
func (e *Engine) Run(ring Ring, src RandomSource, table *ShotTable) ReplicaStats {
	var stats ReplicaStats
	n := len(ring)
	shot := 0
	dt := e.dtShot // save the initial state as well

	for {
		if dt == e.dtShot {
			table.AddRow(shot, ring)
			shot++
			dt = 0
			if shot == e.shots {
				return stats
			}
		}

		ia := int(src.Float64() * float64(n))
		if ia >= n {
			ia = n - 1
		}
		stats.SiteDraws++

		a := ring[ia]
		if a == Hole {
			stats.Proposed[Blocked]++
			continue
		}
		dt++
		stats.Attempts++

		ib := ia + 1
		if ib == n {
			ib = 0
		}
		tr := e.transitions.Lookup(a, ring[ib])
		stats.Proposed[tr.Kind]++
		if !tr.Reactive() {
			continue
		}
		if src.Float64() < tr.Prob {
			ring[ia] = tr.NextA
			ring[ib] = tr.NextB
			stats.Accepted[tr.Kind]++
		}
	}
}
