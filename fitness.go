package dirsearch

import (
	"time"

	"github.com/pdrpinto/dirsearch/namespace"
)

// BlacklistedFitness is the score of a directory that failed inspection.
const BlacklistedFitness = -100.0

const (
	fileWeight       = 0.4
	recencyWeight    = 0.1
	similarityWeight = 0.5
)

// fitnessModel scores directories for the foraging engine. Scores are
// memoised per path; a path that cannot be inspected is blacklisted for the
// rest of the run.
type fitnessModel struct {
	ns          namespace.Accessor
	destination string
	destDepth   int
	now         time.Time

	scores    map[string]float64
	blacklist map[string]struct{}
}

func newFitnessModel(ns namespace.Accessor, destination string, now time.Time) *fitnessModel {
	m := &fitnessModel{
		ns:          ns,
		destination: destination,
		now:         now,
		scores:      make(map[string]float64),
		blacklist:   make(map[string]struct{}),
	}
	if destination != "" {
		m.destDepth = len(namespace.Segments(destination))
	}
	return m
}

func (m *fitnessModel) Blacklisted(path string) bool {
	_, ok := m.blacklist[path]
	return ok
}

func (m *fitnessModel) Blacklist(path string) {
	m.blacklist[path] = struct{}{}
	delete(m.scores, path)
}

// Evaluate combines a saturating file-count score, last-modified recency
// and how many leading segments path shares with the destination.
func (m *fitnessModel) Evaluate(path string) float64 {
	if m.Blacklisted(path) {
		return BlacklistedFitness
	}
	if score, ok := m.scores[path]; ok {
		return score
	}

	count, err := m.ns.FileCount(path)
	if err != nil {
		m.Blacklist(path)
		return BlacklistedFitness
	}
	modified, err := m.ns.ModTime(path)
	if err != nil {
		m.Blacklist(path)
		return BlacklistedFitness
	}

	files := float64(count) / float64(1+count)
	ageDays := m.now.Sub(modified).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	recency := 1 / (1 + ageDays)
	similarity := 0.0
	if m.destDepth > 0 {
		similarity = float64(namespace.SharedPrefixDepth(path, m.destination)) / float64(m.destDepth)
	}

	score := fileWeight*files + recencyWeight*recency + similarityWeight*similarity
	m.scores[path] = score
	return score
}
