package dirsearch

import "sort"

// Reporter tracks file-count milestones. Each threshold is handed out at
// most once, the first time the observed count reaches it.
type Reporter struct {
	thresholds []int
	next       int
}

// NewReporter sorts and deduplicates thresholds. Negative values are dropped.
func NewReporter(thresholds []int) *Reporter {
	sorted := make([]int, 0, len(thresholds))
	for _, t := range thresholds {
		if t >= 0 {
			sorted = append(sorted, t)
		}
	}
	sort.Ints(sorted)
	unique := sorted[:0]
	for i, t := range sorted {
		if i == 0 || t != sorted[i-1] {
			unique = append(unique, t)
		}
	}
	return &Reporter{thresholds: unique}
}

// Crossed returns, in ascending order, the thresholds that files has reached
// and that were not returned before.
func (r *Reporter) Crossed(files int) []int {
	var crossed []int
	for r.next < len(r.thresholds) && files >= r.thresholds[r.next] {
		crossed = append(crossed, r.thresholds[r.next])
		r.next++
	}
	return crossed
}

// Pending lists thresholds not yet reached.
func (r *Reporter) Pending() []int {
	return append([]int(nil), r.thresholds[r.next:]...)
}
