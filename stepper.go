package dirsearch

import (
	"github.com/pdrpinto/dirsearch/internal"
	"github.com/pdrpinto/dirsearch/namespace"
	"go.uber.org/zap"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current   string
	Open      map[string]bool
	Closed    map[string]bool
	CameFrom  map[string]string
	Done      bool
	Found     bool
	Path      []string
	StepIndex int
}

// StepOutcome is what a single expansion did.
type StepOutcome struct {
	// Node is the directory closed by this step, empty if none was.
	Node  string
	Found bool
	Done  bool
}

// StepperOption configures a Stepper.
type StepperOption func(*Stepper)

// WithMarker makes any directory holding a file called name a goal.
func WithMarker(name string) StepperOption {
	return func(s *Stepper) { s.marker = name }
}

// WithGrandparentFallback offers the grandparent when a dead end's parent
// is already closed.
func WithGrandparentFallback() StepperOption {
	return func(s *Stepper) { s.grandparentFallback = true }
}

// WithTracker shares metrics with other steppers of the same run.
func WithTracker(t *Tracker) StepperOption {
	return func(s *Stepper) {
		if t != nil {
			s.tracker = t
		}
	}
}

func withToxins(g *toxinGland) StepperOption {
	return func(s *Stepper) { s.toxins = g }
}

func withStepLogger(log *zap.Logger) StepperOption {
	return func(s *Stepper) {
		if log != nil {
			s.log = log
		}
	}
}

// Stepper is a single-direction best-first search driven one expansion at
// a time. It is not safe for concurrent use.
type Stepper struct {
	ns                  namespace.Accessor
	origin              string
	goal                string
	marker              string
	heuristic           Heuristic
	grandparentFallback bool
	tracker             *Tracker
	toxins              *toxinGland
	log                 *zap.Logger

	open     *frontier
	closed   map[string]bool
	gScore   map[string]float64
	fScore   map[string]float64
	cameFrom map[string]string

	last        string
	lastOffered []string
	stepCount   int
	done        bool
	found       bool
}

// NewStepper prepares a search from origin towards goal. Both paths should
// already be cleaned with namespace.Clean.
func NewStepper(
	ns namespace.Accessor,
	origin string,
	goal string,
	heuristic Heuristic,
	options ...StepperOption,
) *Stepper {
	if heuristic == nil {
		heuristic = ZeroHeuristic
	}
	s := &Stepper{
		ns:        ns,
		origin:    origin,
		goal:      goal,
		heuristic: heuristic,
		log:       zap.NewNop(),
		open:      newFrontier(),
		closed:    make(map[string]bool),
		gScore:    map[string]float64{origin: 0},
		fScore:    make(map[string]float64),
		cameFrom:  map[string]string{origin: internal.Root},
	}
	for _, option := range options {
		option(s)
	}
	if s.tracker == nil {
		s.tracker = NewTracker(ns)
	}

	s.fScore[origin] = heuristic(origin, goal)
	s.open.Upsert(origin, 0, s.fScore[origin])
	return s
}

// Step advances the search by one node expansion.
func (s *Stepper) Step() StepOutcome {
	if s.done {
		return StepOutcome{Done: true, Found: s.found}
	}
	for {
		currentItem, ok := s.open.PopMin()
		if !ok {
			s.done = true
			return StepOutcome{Done: true}
		}
		if s.closed[currentItem.Node] {
			continue
		}
		return s.expand(currentItem.Node)
	}
}

func (s *Stepper) expand(current string) StepOutcome {
	s.closed[current] = true
	s.stepCount++
	s.last = current
	s.lastOffered = s.lastOffered[:0]

	if _, err := s.tracker.Infect(current); err != nil {
		s.log.Debug("file listing failed", zap.String("dir", current), zap.Error(err))
	}
	if s.toxins != nil {
		s.toxins.inject(current)
	}

	if s.isGoal(current) {
		s.done = true
		s.found = true
		return StepOutcome{Node: current, Found: true, Done: true}
	}

	unvisited := 0
	for _, nb := range namespace.Neighbors(s.ns, current, s.Closed) {
		if nb.Status == namespace.Visited {
			continue
		}
		unvisited++
		s.offer(current, nb.Path, s.childCost(current, nb.FileCount))
	}
	if unvisited == 0 {
		s.offerParent(current)
	}
	return StepOutcome{Node: current}
}

func (s *Stepper) isGoal(node string) bool {
	if node == s.goal {
		return true
	}
	return s.marker != "" && s.ns.HasItem(node, s.marker)
}

// childCost is the child's file count, or the diffusion flux under venom.
func (s *Stepper) childCost(from string, childFiles int) float64 {
	if s.toxins != nil {
		return s.toxins.edgeCost(from, childFiles)
	}
	return float64(childFiles)
}

func (s *Stepper) offer(from, to string, cost float64) {
	s.lastOffered = append(s.lastOffered, to)
	s.apply(s.propose(from, to, cost))
}

// offerParent is the dead-end escape: move up one level, or two when the
// parent is already closed and grandparent fallback is enabled.
func (s *Stepper) offerParent(current string) {
	parent := namespace.Parent(current)
	if parent == current {
		return
	}
	if !s.closed[parent] {
		s.offer(current, parent, ParentEdgeCost)
		return
	}
	if !s.grandparentFallback {
		return
	}
	grandparent := namespace.Parent(parent)
	if grandparent == parent || s.discovered(grandparent) {
		return
	}
	s.offer(parent, grandparent, ParentEdgeCost)
}

// Closed reports whether node has been expanded by this stepper.
func (s *Stepper) Closed(node string) bool { return s.closed[node] }

// discovered reports whether node has a recorded predecessor, i.e. it is
// open or closed.
func (s *Stepper) discovered(node string) bool {
	_, ok := s.cameFrom[node]
	return ok
}

// Last is the most recently expanded node, or "" before the first step.
func (s *Stepper) Last() string { return s.last }

// LastOffered lists the neighbours offered by the most recent expansion.
func (s *Stepper) LastOffered() []string { return s.lastOffered }

// Expanded is the number of nodes this stepper has closed.
func (s *Stepper) Expanded() int { return s.stepCount }

// Cost is the best known cost from the origin to node.
func (s *Stepper) Cost(node string) float64 { return s.gScore[node] }

// Done reports whether the search has terminated.
func (s *Stepper) Done() bool { return s.done }

// Found reports whether the goal was reached.
func (s *Stepper) Found() bool { return s.found }

// PathTo rebuilds the best known path from the origin to node.
func (s *Stepper) PathTo(node string) ([]string, error) {
	return internal.ReconstructPath(s.cameFrom, node)
}

// Path rebuilds the path to the last expanded node, or to the origin
// before the first expansion.
func (s *Stepper) Path() ([]string, error) {
	if s.last == "" {
		return []string{s.origin}, nil
	}
	return s.PathTo(s.last)
}

// Snapshot copies the current search state.
func (s *Stepper) Snapshot() StepSnapshot {
	open := make(map[string]bool, s.open.Len())
	for _, node := range s.open.Nodes() {
		open[node] = true
	}
	snapshot := StepSnapshot{
		Current:   s.last,
		Open:      open,
		Closed:    copyMap(s.closed),
		CameFrom:  copyMap(s.cameFrom),
		Done:      s.done,
		Found:     s.found,
		StepIndex: s.stepCount,
	}
	if s.found {
		snapshot.Path, _ = s.Path()
	}
	return snapshot
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
