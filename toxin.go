package dirsearch

import (
	"math"
	"math/rand/v2"

	"github.com/pdrpinto/dirsearch/namespace"
)

// Toxin rolls are drawn from [1, 100].
const (
	myotoxinCeiling = 5
	neurotoxinFloor = 95
	toxinRollSides  = 100
)

// Venom strength starts pure and loses one unit per expansion, never
// dropping below the floor.
const (
	initialConcentration = 100.0
	concentrationFloor   = 1.0
	concentrationDecay   = 1.0
	minDiffusion         = 0.01
	maxDiffusion         = 0.02
)

// ToxinCounts summarises the venom side effect of a run.
type ToxinCounts struct {
	Myotoxin   int `json:"myotoxin"`
	Neurotoxin int `json:"neurotoxin"`
	Bypassed   int `json:"bypassed"`
	Locked     int `json:"locked"`
}

// toxinGland drives the venom strategy. It prices edges and estimates by
// diffusion flux and applies one toxin decision per expansion, all from the
// engine's own RNG stream so a seed replays the same run.
type toxinGland struct {
	ns            namespace.Accessor
	rng           *rand.Rand
	concentration float64
	bypassed      map[string]struct{}
	locked        map[string]struct{}
	counts        ToxinCounts
}

func newToxinGland(ns namespace.Accessor, rng *rand.Rand) *toxinGland {
	return &toxinGland{
		ns:            ns,
		rng:           rng,
		concentration: initialConcentration,
		bypassed:      make(map[string]struct{}),
		locked:        make(map[string]struct{}),
	}
}

// flux is a random diffusion coefficient times the current concentration,
// divided by the file-count displacement between two directories. Equal
// counts diffuse for free.
func (g *toxinGland) flux(from, to int) float64 {
	displacement := from - to
	if displacement == 0 {
		return 0
	}
	coefficient := minDiffusion + (maxDiffusion-minDiffusion)*g.rng.Float64()
	concentration := max(g.concentration, concentrationFloor)
	return math.Abs(coefficient * concentration / float64(displacement))
}

// edgeCost prices the move from one directory to a child holding
// childFiles files.
func (g *toxinGland) edgeCost(from string, childFiles int) float64 {
	fromFiles, err := g.ns.FileCount(from)
	if err != nil {
		fromFiles = 0
	}
	return g.flux(fromFiles, childFiles)
}

// heuristic estimates the remaining flux towards the goal. It is zero for
// marker-only searches and +Inf when either count is unreadable.
func (g *toxinGland) heuristic(from, to string) float64 {
	if to == "" {
		return 0
	}
	a, err := g.ns.FileCount(from)
	if err != nil {
		return math.Inf(1)
	}
	b, err := g.ns.FileCount(to)
	if err != nil {
		return math.Inf(1)
	}
	return g.flux(a, b)
}

// inject weakens the venom and rolls for a toxin on the expanded directory.
func (g *toxinGland) inject(dir string) {
	g.concentration = max(g.concentration-concentrationDecay, concentrationFloor)

	roll := 1 + g.rng.IntN(toxinRollSides)
	var marked map[string]struct{}
	switch {
	case roll <= myotoxinCeiling:
		g.counts.Myotoxin++
		marked = g.bypassed
	case roll >= neurotoxinFloor:
		g.counts.Neurotoxin++
		marked = g.locked
	default:
		return
	}
	files, err := g.ns.Files(dir)
	if err != nil {
		return
	}
	for _, f := range files {
		marked[f] = struct{}{}
	}
}

func (g *toxinGland) Counts() ToxinCounts {
	c := g.counts
	c.Bypassed = len(g.bypassed)
	c.Locked = len(g.locked)
	return c
}
