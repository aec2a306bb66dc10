package dirsearch

import (
	"fmt"
	"sort"

	"github.com/pdrpinto/dirsearch/internal"
	"github.com/pdrpinto/dirsearch/namespace"
	"go.uber.org/zap"
)

const (
	maxHealth    = 100.0
	depthPenalty = 10.0
)

// ForageParams tunes the bacterial foraging engine.
type ForageParams struct {
	Population           int
	Exploration          float64
	ReproductionEvery    int
	DispersalEvery       int
	DispersalProbability float64
	HealthGain           float64
	HealthDecrement      float64
	MaxRounds            int
	MaxDepth             int
}

// DefaultForageParams returns the stock colony settings.
func DefaultForageParams() ForageParams {
	return ForageParams{
		Population:           10,
		Exploration:          0.2,
		ReproductionEvery:    10,
		DispersalEvery:       50,
		DispersalProbability: 0.1,
		HealthGain:           10,
		HealthDecrement:      5,
		MaxRounds:            100_000,
		MaxDepth:             100,
	}
}

// Validate checks the colony settings.
func (p ForageParams) Validate() error {
	switch {
	case p.Population < 1:
		return fmt.Errorf("%w: population %d", ErrInvalidParams, p.Population)
	case p.Exploration < 0 || p.Exploration > 1:
		return fmt.Errorf("%w: exploration probability %v", ErrInvalidParams, p.Exploration)
	case p.DispersalProbability < 0 || p.DispersalProbability > 1:
		return fmt.Errorf("%w: dispersal probability %v", ErrInvalidParams, p.DispersalProbability)
	case p.ReproductionEvery < 1 || p.DispersalEvery < 1:
		return fmt.Errorf("%w: reproduction and dispersal periods must be positive", ErrInvalidParams)
	case p.MaxRounds < 1 || p.MaxDepth < 1:
		return fmt.Errorf("%w: round and depth limits must be positive", ErrInvalidParams)
	case p.HealthDecrement < 0 || p.HealthGain < 0:
		return fmt.Errorf("%w: negative health adjustment", ErrInvalidParams)
	}
	return nil
}

// Bacterium is one foraging agent.
type Bacterium struct {
	Position string
	Health   float64
	Path     []string
	Depth    int
}

func (b *Bacterium) clone() *Bacterium {
	return &Bacterium{
		Position: b.Position,
		Health:   maxHealth,
		Path:     append([]string(nil), b.Path...),
		Depth:    b.Depth,
	}
}

func (b *Bacterium) moveTo(dir string) {
	b.Position = dir
	b.Path = append(b.Path, dir)
	b.Depth++
}

type graded struct {
	path    string
	fitness float64
}

// colony is the population plus everything it has learned about the tree.
type colony struct {
	r       *run
	p       ForageParams
	fitness *fitnessModel
	agents  []*Bacterium

	// firstVisit maps a directory to the position it was first reached
	// from. Each entry points at an earlier visit, so chains are acyclic.
	firstVisit map[string]string
	visited    []string
}

func newColony(r *run) *colony {
	c := &colony{
		r:          r,
		p:          r.params.Forage,
		fitness:    newFitnessModel(r.ns, r.destination, r.start),
		firstVisit: make(map[string]string),
	}
	c.visit(r.origin, internal.Root)
	for i := 0; i < c.p.Population; i++ {
		c.agents = append(c.agents, c.fresh())
	}
	return c
}

func (c *colony) fresh() *Bacterium {
	return &Bacterium{Position: c.r.origin, Health: maxHealth, Path: []string{c.r.origin}}
}

// visit records the first time any agent reaches dir.
func (c *colony) visit(dir, from string) {
	if _, seen := c.firstVisit[dir]; !seen {
		c.firstVisit[dir] = from
		c.visited = append(c.visited, dir)
	}
}

// infect expands the directory an agent is standing on.
func (c *colony) infect(dir string) {
	if _, err := c.r.tracker.Infect(dir); err != nil {
		c.r.log.Debug("blacklisting unreadable directory", zap.String("dir", dir), zap.Error(err))
		c.fitness.Blacklist(dir)
	}
}

func (c *colony) atGoal(dir string) bool {
	if c.r.destination != "" && dir == c.r.destination {
		return true
	}
	return c.r.marker != "" && c.r.ns.HasItem(dir, c.r.marker)
}

// candidates grades the children and the parent of dir. Blacklisted paths
// are never returned.
func (c *colony) candidates(dir string) []graded {
	moves, err := c.r.ns.Children(dir)
	if err != nil {
		c.fitness.Blacklist(dir)
		moves = nil
	}
	if parent := namespace.Parent(dir); parent != dir {
		moves = append(moves, parent)
	}
	out := make([]graded, 0, len(moves))
	for _, move := range moves {
		if c.fitness.Blacklisted(move) {
			continue
		}
		f := c.fitness.Evaluate(move)
		if c.fitness.Blacklisted(move) {
			continue
		}
		out = append(out, graded{path: move, fitness: f})
	}
	return out
}

// chemotaxis expands and then moves every agent once. It returns the first
// agent standing on a goal, or nil.
func (c *colony) chemotaxis() *Bacterium {
	for _, b := range c.agents {
		if c.r.stop.Stopped() {
			return nil
		}
		c.infect(b.Position)
		if c.atGoal(b.Position) {
			return b
		}
		c.tumble(b)
	}
	return nil
}

func (c *colony) tumble(b *Bacterium) {
	if b.Depth >= c.p.MaxDepth {
		b.Health -= depthPenalty
		return
	}
	choices := c.candidates(b.Position)
	if len(choices) == 0 {
		return
	}

	var chosen string
	if c.r.rng.Float64() < c.p.Exploration {
		chosen = choices[c.r.rng.IntN(len(choices))].path
	} else {
		var ok bool
		if chosen, ok = c.roulette(choices); !ok {
			return
		}
	}
	from := b.Position
	b.moveTo(chosen)
	c.visit(chosen, from)
}

// roulette samples proportionally to positive fitness.
func (c *colony) roulette(choices []graded) (string, bool) {
	total := 0.0
	for _, o := range choices {
		if o.fitness > 0 {
			total += o.fitness
		}
	}
	if total <= 0 {
		return "", false
	}
	target := c.r.rng.Float64() * total
	cumulative := 0.0
	last := ""
	for _, o := range choices {
		if o.fitness <= 0 {
			continue
		}
		cumulative += o.fitness
		last = o.path
		if target < cumulative {
			return o.path, true
		}
	}
	return last, true
}

// updateHealth feeds or starves every agent. Agents whose health collapses
// are sent back to the origin; the return value reports whether any did.
func (c *colony) updateHealth() bool {
	collapsed := false
	for i, b := range c.agents {
		if f := c.fitness.Evaluate(b.Position); f > 0 {
			b.Health = min(maxHealth, b.Health+c.p.HealthGain*f)
		} else {
			b.Health -= c.p.HealthDecrement
		}
		if b.Health <= 0 {
			c.agents[i] = c.fresh()
			collapsed = true
		}
	}
	return collapsed
}

// reproduce keeps the healthier half and splits each survivor into an
// identical clone and one nudged to a random neighbour. Population size
// never changes.
func (c *colony) reproduce() {
	n := len(c.agents)
	ranked := append([]*Bacterium(nil), c.agents...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Health > ranked[j].Health })

	next := make([]*Bacterium, 0, n+1)
	for _, survivor := range ranked[:(n+1)/2] {
		next = append(next, survivor.clone())
		if len(next) == n {
			break
		}
		nudged := survivor.clone()
		if neighbor := c.randomNeighbor(survivor.Position); neighbor != survivor.Position {
			nudged.moveTo(neighbor)
			c.visit(neighbor, survivor.Position)
		}
		next = append(next, nudged)
		if len(next) == n {
			break
		}
	}
	c.agents = next
}

func (c *colony) randomNeighbor(dir string) string {
	var moves []string
	if children, err := c.r.ns.Children(dir); err == nil {
		for _, child := range children {
			if !c.fitness.Blacklisted(child) {
				moves = append(moves, child)
			}
		}
	}
	if parent := namespace.Parent(dir); parent != dir && !c.fitness.Blacklisted(parent) {
		moves = append(moves, parent)
	}
	if len(moves) == 0 {
		return dir
	}
	return moves[c.r.rng.IntN(len(moves))]
}

// disperse teleports a random subset of agents to the origin or to a
// directory some agent has already reached.
func (c *colony) disperse() error {
	for _, b := range c.agents {
		if c.r.rng.Float64() >= c.p.DispersalProbability {
			continue
		}
		target := c.r.origin
		if c.r.rng.Float64() >= 0.5 {
			if known := c.randomVisited(); known != "" {
				target = known
			}
		}
		path, err := internal.ReconstructPath(c.firstVisit, target)
		if err != nil {
			return fmt.Errorf("disperse to %s: %w", target, err)
		}
		b.Position = target
		b.Path = path
		b.Depth = len(path) - 1
		b.Health = maxHealth
	}
	return nil
}

func (c *colony) randomVisited() string {
	var known []string
	for _, dir := range c.visited {
		if !c.fitness.Blacklisted(dir) {
			known = append(known, dir)
		}
	}
	if len(known) == 0 {
		return ""
	}
	return known[c.r.rng.IntN(len(known))]
}

func (c *colony) healthiest() *Bacterium {
	best := c.agents[0]
	for _, b := range c.agents[1:] {
		if b.Health > best.Health {
			best = b
		}
	}
	return best
}

// forage runs the population until an agent stands on a goal, the round
// ceiling is hit, or the stop signal is raised.
func (r *run) forage() (Result, error) {
	c := newColony(r)
	p := c.p

	status := StatusExhausted
	var winner *Bacterium
	// milestone records carry the winner's path, or the healthiest agent's
	// while nobody has reached the goal
	leadPath := func() ([]string, error) {
		lead := winner
		if lead == nil {
			lead = c.healthiest()
		}
		return append([]string(nil), lead.Path...), nil
	}
	for round := 1; round <= p.MaxRounds; round++ {
		if r.stop.Stopped() {
			status = StatusCancelled
			break
		}

		winner = c.chemotaxis()
		// chemotaxis is the only phase that infects, so this sees every
		// crossing before the loop can exit
		if err := r.checkMilestones(leadPath); err != nil {
			return Result{}, err
		}
		if winner != nil {
			status = StatusFound
			r.log.Debug("agent reached goal", zap.Int("round", round), zap.String("dir", winner.Position))
			break
		}
		if r.stop.Stopped() {
			status = StatusCancelled
			break
		}

		collapsed := c.updateHealth()
		if round%p.ReproductionEvery == 0 {
			c.reproduce()
		}
		if round%p.DispersalEvery == 0 || collapsed {
			if err := c.disperse(); err != nil {
				return Result{}, err
			}
		}
	}

	if winner == nil {
		winner = c.healthiest()
	}
	return Result{
		Path:   append([]string(nil), winner.Path...),
		Status: status,
	}, nil
}
