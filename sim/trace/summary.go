package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalReplicas   int
	TotalSiteDraws  int64
	TotalAttempts   int64
	BlockedFraction float64            // share of site draws that landed on a hole
	Proposed        map[string]int64   // transition kind -> total proposals
	Accepted        map[string]int64   // transition kind -> total acceptances
	AcceptanceRatio map[string]float64 // transition kind -> accepted / proposed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Proposed:        make(map[string]int64),
		Accepted:        make(map[string]int64),
		AcceptanceRatio: make(map[string]float64),
	}
	if st == nil {
		return summary
	}

	summary.TotalReplicas = len(st.Replicas)
	for _, r := range st.Replicas {
		summary.TotalSiteDraws += r.SiteDraws
		summary.TotalAttempts += r.Attempts
		for kind, n := range r.Proposed {
			summary.Proposed[kind] += n
		}
		for kind, n := range r.Accepted {
			summary.Accepted[kind] += n
		}
	}

	if summary.TotalSiteDraws > 0 {
		summary.BlockedFraction = float64(summary.TotalSiteDraws-summary.TotalAttempts) / float64(summary.TotalSiteDraws)
	}
	for kind, proposed := range summary.Proposed {
		if proposed > 0 {
			summary.AcceptanceRatio[kind] = float64(summary.Accepted[kind]) / float64(proposed)
		}
	}

	return summary
}
