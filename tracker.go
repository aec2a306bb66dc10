package dirsearch

import (
	"github.com/pdrpinto/dirsearch/namespace"
)

// Tracker accumulates the infected-node and infected-file metrics for one
// run. Both are deduplicated by path, so they only ever grow and never
// exceed what is reachable from the origin.
type Tracker struct {
	ns    namespace.Accessor
	nodes map[string]struct{}
	files map[string]struct{}
}

// NewTracker returns an empty tracker reading file listings from ns.
func NewTracker(ns namespace.Accessor) *Tracker {
	return &Tracker{
		ns:    ns,
		nodes: make(map[string]struct{}),
		files: make(map[string]struct{}),
	}
}

// Infect records dir as expanded and observes its files. It reports whether
// dir was new. A listing error is returned but the node still counts.
func (t *Tracker) Infect(dir string) (bool, error) {
	if _, seen := t.nodes[dir]; seen {
		return false, nil
	}
	t.nodes[dir] = struct{}{}

	files, err := t.ns.Files(dir)
	if err != nil {
		return true, err
	}
	for _, f := range files {
		t.files[f] = struct{}{}
	}
	return true, nil
}

// InfectedNodes is the number of distinct directories expanded.
func (t *Tracker) InfectedNodes() int { return len(t.nodes) }

// InfectedFiles is the number of distinct files observed.
func (t *Tracker) InfectedFiles() int { return len(t.files) }
