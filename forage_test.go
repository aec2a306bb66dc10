package dirsearch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForageParams_Validate(t *testing.T) {
	require.NoError(t, DefaultForageParams().Validate())

	broken := []func(*ForageParams){
		func(p *ForageParams) { p.Population = 0 },
		func(p *ForageParams) { p.Exploration = -0.1 },
		func(p *ForageParams) { p.DispersalProbability = 2 },
		func(p *ForageParams) { p.ReproductionEvery = 0 },
		func(p *ForageParams) { p.MaxDepth = 0 },
		func(p *ForageParams) { p.HealthDecrement = -1 },
	}
	for i, breakIt := range broken {
		p := DefaultForageParams()
		breakIt(&p)
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams, "case %d", i)
	}
}

func TestFitness(t *testing.T) {
	ns := buildTree(t, "/o/a/one.txt", "/o/b")
	m := newFitnessModel(ns, "/o/a", time.Now())

	// one file, fresh, and the destination itself
	assert.InDelta(t, 0.4*0.5+0.1+0.5, m.Evaluate("/o/a"), 1e-9)
	// no files, fresh, shares "" and "o" with /o/a
	assert.InDelta(t, 0.1+0.5*2.0/3.0, m.Evaluate("/o/b"), 1e-9)

	assert.Equal(t, BlacklistedFitness, m.Evaluate("/o/missing"))
	assert.True(t, m.Blacklisted("/o/missing"))

	m.Blacklist("/o/a")
	assert.Equal(t, BlacklistedFitness, m.Evaluate("/o/a"))
}

func TestForage_NeverSelectsBlacklistedDirectory(t *testing.T) {
	ns := buildTree(t, "/o/open/f1.txt", "/o/open/deep/f2.txt", "/o/locked/secret.txt", "/o/other/f3.txt")
	deny := denyAccessor{Accessor: ns, denied: "/o/locked"}

	p := paramsFor(StrategyForage)
	p.Seed = 7
	p.Forage.Population = 1
	p.Forage.Exploration = 0
	p.Forage.DispersalProbability = 0
	p.Forage.MaxRounds = 90

	res, err := Run(context.Background(), deny, "/o", "", "nope.txt", p)
	require.NoError(t, err)
	assert.Equal(t, StatusExhausted, res.Status)
	// one move per round and no teleport, so the path is the full history
	require.Len(t, res.Path, 91)
	assert.NotContains(t, res.Path, "/o/locked")
	requireContiguous(t, res.Path)
	assert.LessOrEqual(t, res.InfectedFiles, 3)
}

func TestForage_FindsMarker(t *testing.T) {
	ns := buildTree(t, "/o/a/target.txt", "/o/b/x.txt", "/o/b/c/y.txt")
	p := paramsFor(StrategyForage)
	p.Forage.Population = 3
	p.Forage.MaxRounds = 5000

	res, err := Run(context.Background(), ns, "/o", "", "target.txt", p)
	require.NoError(t, err)
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "/o", res.Path[0])
	assert.Equal(t, "/o/a", res.Path[len(res.Path)-1])
	requireContiguous(t, res.Path)
	assert.Zero(t, res.TotalCost)
}

func TestForage_ReachesDestination(t *testing.T) {
	ns := buildTree(t, "/f/x/y/z", "/f/q/r.txt")
	p := paramsFor(StrategyForage)
	p.Forage.MaxRounds = 5000

	res, err := Run(context.Background(), ns, "/f", "/f/x/y/z", "", p)
	require.NoError(t, err)
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "/f/x/y/z", res.Path[len(res.Path)-1])
}

func TestForage_DeterministicPerSeed(t *testing.T) {
	ns := buildTree(t,
		"/s/a/1.txt", "/s/a/b/2.txt", "/s/a/b/c/3.txt",
		"/s/d/4.txt", "/s/d/5.txt", "/s/e/f/6.txt")
	p := paramsFor(StrategyForage)
	p.Forage.MaxRounds = 300

	first, err := Run(context.Background(), ns, "/s", "", "missing.txt", p)
	require.NoError(t, err)
	second, err := Run(context.Background(), ns, "/s", "", "missing.txt", p)
	require.NoError(t, err)

	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.InfectedNodes, second.InfectedNodes)
	assert.Equal(t, first.InfectedFiles, second.InfectedFiles)
}

func newTestColony(t *testing.T, p ForageParams, entries ...string) *colony {
	t.Helper()
	params := paramsFor(StrategyForage)
	params.Forage = p
	r, err := newRun(context.Background(), buildTree(t, entries...), "/c", "", "missing.txt", params, nil)
	require.NoError(t, err)
	t.Cleanup(r.stop.Disarm)
	return newColony(r)
}

func TestColony_ReproduceKeepsPopulation(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		p := DefaultForageParams()
		p.Population = n
		c := newTestColony(t, p, "/c/a/1.txt", "/c/b")
		for i, b := range c.agents {
			b.Health = float64(10 * (i + 1))
		}

		c.reproduce()
		require.Len(t, c.agents, n)
		for _, b := range c.agents {
			assert.Equal(t, maxHealth, b.Health)
			assert.Equal(t, b.Position, b.Path[len(b.Path)-1])
		}
	}
}

func TestColony_DisperseRebuildsHistory(t *testing.T) {
	p := DefaultForageParams()
	p.Population = 4
	p.DispersalProbability = 1
	c := newTestColony(t, p, "/c/a/b/1.txt", "/c/d")

	c.visit("/c/a", "/c")
	c.visit("/c/a/b", "/c/a")
	for _, b := range c.agents {
		b.Health = 1
	}

	require.NoError(t, c.disperse())
	for _, b := range c.agents {
		assert.Equal(t, maxHealth, b.Health)
		assert.Equal(t, "/c", b.Path[0])
		assert.Equal(t, b.Position, b.Path[len(b.Path)-1])
		assert.Equal(t, len(b.Path)-1, b.Depth)
		requireContiguous(t, b.Path)
	}
}

func TestColony_CollapseResetsToOrigin(t *testing.T) {
	p := DefaultForageParams()
	p.Population = 2
	c := newTestColony(t, p, "/c/a")

	c.agents[0].Position = "/c/gone"
	c.agents[0].Path = []string{"/c", "/c/gone"}
	c.agents[0].Health = 3

	assert.True(t, c.updateHealth())
	assert.Equal(t, "/c", c.agents[0].Position)
	assert.Equal(t, []string{"/c"}, c.agents[0].Path)
	assert.Equal(t, maxHealth, c.agents[0].Health)
}
