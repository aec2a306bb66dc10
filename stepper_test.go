package dirsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_TieBreakAndDecreaseKey(t *testing.T) {
	f := newFrontier()
	_, ok := f.PopMin()
	assert.False(t, ok)

	f.Upsert("a", 1, 1)
	f.Upsert("b", 1, 1)
	f.Upsert("c", 0, 0.5)
	f.Upsert("d", 3, 3)
	f.Upsert("d", 0, 0.1) // decrease-key
	f.Upsert("a", 1, 1)   // re-queued behind b
	assert.Equal(t, 4, f.Len())
	assert.Contains(t, f.Nodes(), "d")

	var order []string
	for {
		item, ok := f.PopMin()
		if !ok {
			break
		}
		order = append(order, item.Node)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, order)
	assert.Empty(t, f.Nodes())
}

func TestStepper_PathBeforeFirstStep(t *testing.T) {
	ns := buildTree(t, "/s/a")
	s := NewStepper(ns, "/s", "", ZeroHeuristic, WithMarker("x.txt"))

	path, err := s.Path()
	require.NoError(t, err)
	assert.Equal(t, []string{"/s"}, path)
	assert.Empty(t, s.Last())
	assert.True(t, s.discovered("/s"))
	assert.False(t, s.Closed("/s"))
}

func TestStepper_StepsToGoalAndSnapshots(t *testing.T) {
	ns := buildTree(t, "/s/a/x.txt", "/s/b/c/goal.txt")
	s := NewStepper(ns, "/s", "", ZeroHeuristic, WithMarker("goal.txt"))

	var steps int
	for !s.Done() {
		s.Step()
		steps++
		require.Less(t, steps, 20)
	}
	require.True(t, s.Found())

	snap := s.Snapshot()
	assert.True(t, snap.Done)
	assert.True(t, snap.Found)
	assert.Equal(t, "/s/b/c", snap.Current)
	assert.Equal(t, []string{"/s", "/s/b", "/s/b/c"}, snap.Path)
	assert.True(t, snap.Closed["/s/b"])
	assert.Equal(t, "/s/b", snap.CameFrom["/s/b/c"])
	assert.Equal(t, s.Expanded(), snap.StepIndex)

	again := s.Step()
	assert.True(t, again.Done)
	assert.True(t, again.Found)
	assert.Empty(t, again.Node)
}

func TestStepper_GrandparentFallback(t *testing.T) {
	ns := buildTree(t, "/g/p/c")

	plain := NewStepper(ns, "/g/p", "", ZeroHeuristic, WithMarker("x.txt"))
	plain.Step() // /g/p offers its child
	plain.Step() // /g/p/c is a dead end under a closed parent
	assert.True(t, plain.Step().Done)
	assert.False(t, plain.discovered("/g"))

	climbing := NewStepper(ns, "/g/p", "", ZeroHeuristic, WithMarker("x.txt"), WithGrandparentFallback())
	climbing.Step()
	climbing.Step()
	assert.Equal(t, []string{"/g"}, climbing.LastOffered())
	require.True(t, climbing.discovered("/g"))
	path, err := climbing.PathTo("/g")
	require.NoError(t, err)
	assert.Equal(t, []string{"/g/p", "/g"}, path)

	out := climbing.Step()
	assert.Equal(t, "/g", out.Node)
}

func TestStepper_RelaxKeepsBestCost(t *testing.T) {
	ns := buildTree(t, "/k")
	s := NewStepper(ns, "/k", "", ZeroHeuristic)

	assert.True(t, s.apply(s.propose("/k", "/k/a", 5)))
	assert.False(t, s.apply(s.propose("/k", "/k/a", 7)))
	assert.True(t, s.apply(s.propose("/k", "/k/a", 2)))
	assert.Equal(t, 2.0, s.Cost("/k/a"))

	s.closed["/k/b"] = true
	assert.False(t, s.apply(s.propose("/k", "/k/b", 0)))
	assert.False(t, s.discovered("/k/b"))
}
