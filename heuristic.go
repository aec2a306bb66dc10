package dirsearch

import (
	"math"

	"github.com/pdrpinto/dirsearch/namespace"
)

// ParentEdgeCost prices the synthetic move to the parent directory.
const ParentEdgeCost = 1.0

// Heuristic returns the estimated cost from node a to node b.
type Heuristic func(from string, to string) float64

// FileCountHeuristic estimates distance as the difference in file counts.
// An unreadable count makes the estimate +Inf; an empty target (marker-only
// search) makes it zero.
func FileCountHeuristic(ns namespace.Accessor) Heuristic {
	return func(from, to string) float64 {
		if to == "" {
			return 0
		}
		a, err := ns.FileCount(from)
		if err != nil {
			return math.Inf(1)
		}
		b, err := ns.FileCount(to)
		if err != nil {
			return math.Inf(1)
		}
		return math.Abs(float64(a - b))
	}
}

// ZeroHeuristic turns best-first search into uniform-cost search.
func ZeroHeuristic(string, string) float64 { return 0 }
