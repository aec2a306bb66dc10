package sink

import "time"

// SpeedPercent is how much faster candidate was than baseline, as a
// percentage of baseline. A zero baseline yields zero.
func SpeedPercent(baseline, candidate time.Duration) float64 {
	if baseline == 0 {
		return 0
	}
	return float64(baseline-candidate) / float64(baseline) * 100
}

// ReductionRate is a's visited-node count as a percentage of b's.
func ReductionRate(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b) * 100
}

// VisitPercent is the share of total nodes that were visited.
func VisitPercent(visited, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(visited) / float64(total) * 100
}

// ExploitationRate is the share of total files that were infected.
func ExploitationRate(infected, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(infected) / float64(total) * 100
}
