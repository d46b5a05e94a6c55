package astar_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astar_router/pkg/astar"
	"astar_router/pkg/graph"
	"astar_router/pkg/routing"
)

func newGraph(t *testing.T, n int, edges map[[2]int]float64) *graph.Graph {
	t.Helper()
	g, err := graph.New(n)
	require.NoError(t, err)
	for e, w := range edges {
		g.SetEdge(e[0], e[1], w)
	}
	return g
}

func triangle(t *testing.T) *graph.Graph {
	return newGraph(t, 3, map[[2]int]float64{
		{0, 1}: 1,
		{1, 2}: 1,
		{0, 2}: 5,
	})
}

var frontiers = []astar.FrontierKind{astar.LinearFrontier, astar.HeapFrontier}

func TestTriangle(t *testing.T) {
	for _, kind := range frontiers {
		t.Run(kind.String(), func(t *testing.T) {
			res, err := astar.Search(triangle(t), 0, 2, astar.WithFrontier(kind))
			require.NoError(t, err)
			assert.Equal(t, astar.StatusFound, res.Status)
			assert.Equal(t, []int{0, 1, 2}, res.Path)
			assert.Equal(t, 2.0, res.Cost)
			assert.Equal(t, 3, res.Expanded)
		})
	}
}

func TestUnreachable(t *testing.T) {
	g := triangle(t)
	g.SetEdge(0, 1, 0)
	g.SetEdge(1, 2, 0)
	g.SetEdge(0, 2, 0)

	for _, kind := range frontiers {
		t.Run(kind.String(), func(t *testing.T) {
			e, err := astar.NewEngine(g, 0, 2, astar.WithFrontier(kind))
			require.NoError(t, err)
			res, err := e.Run()
			require.NoError(t, err)

			assert.Equal(t, astar.StatusUnreachable, res.Status)
			assert.False(t, res.Found())
			assert.Nil(t, res.Path)
			assert.True(t, math.IsInf(res.Cost, 1))
			assert.True(t, math.IsInf(e.State().Entry(2).BestCost, 1))
			_, ok := e.State().Entry(2).Previous.Node()
			assert.False(t, ok)
		})
	}
}

func TestUnreachableThroughOneWay(t *testing.T) {
	// 0 reaches 1, but nothing reachable leads to 2; 2 -> 0 exists.
	g := newGraph(t, 3, map[[2]int]float64{
		{0, 1}: 1,
		{2, 0}: 1,
	})
	res, err := astar.Search(g, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, astar.StatusUnreachable, res.Status)
	assert.Equal(t, 2, res.Expanded)
}

func TestSingleEdge(t *testing.T) {
	g := newGraph(t, 2, map[[2]int]float64{{0, 1}: 3.5})
	res, err := astar.Search(g, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.Path)
	assert.Equal(t, 3.5, res.Cost)
}

func TestTieBreakLowestIndex(t *testing.T) {
	tests := []struct {
		name  string
		edges map[[2]int]float64
		want  []int
		cost  float64
	}{
		{
			// Both intermediates reach the frontier with equal estimates;
			// node 1 is expanded first and claims 3.
			name: "equal estimates",
			edges: map[[2]int]float64{
				{0, 1}: 1, {0, 2}: 1,
				{1, 3}: 1, {2, 3}: 1,
			},
			want: []int{0, 1, 3},
			cost: 2,
		},
		{
			// Node 2 is cheaper to reach so it is expanded first; the equal
			// cost found later via 1 does not replace it.
			name: "first discovery kept",
			edges: map[[2]int]float64{
				{0, 1}: 2, {0, 2}: 1,
				{1, 3}: 1, {2, 3}: 2,
			},
			want: []int{0, 2, 3},
			cost: 3,
		},
	}
	for _, tt := range tests {
		for _, kind := range frontiers {
			t.Run(tt.name+"/"+kind.String(), func(t *testing.T) {
				res, err := astar.Search(newGraph(t, 4, tt.edges), 0, 3, astar.WithFrontier(kind))
				require.NoError(t, err)
				assert.Equal(t, tt.want, res.Path)
				assert.Equal(t, tt.cost, res.Cost)
			})
		}
	}
}

func TestStartEqualsEnd(t *testing.T) {
	res, err := astar.Search(triangle(t), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Path)
	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, 1, res.Expanded)
}

func TestHeuristicPrunesExpansion(t *testing.T) {
	// Straight line 0-1-2-3 plus a dead end 0-4. A perfect heuristic keeps
	// the search off node 4.
	g := newGraph(t, 5, map[[2]int]float64{
		{0, 1}: 1, {1, 2}: 1, {2, 3}: 1, {0, 4}: 1,
	})
	g.Heuristic = [graph.MaxNodes]float64{3, 2, 1, 0, 10}

	res, err := astar.Search(g, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Path)
	assert.Equal(t, 4, res.Expanded)

	g.ZeroHeuristic()
	res, err = astar.Search(g, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Expanded)
}

func TestNewEngineRejectsBadNodes(t *testing.T) {
	g := triangle(t)
	_, err := astar.NewEngine(g, 3, 0)
	assert.True(t, errors.Is(err, graph.ErrNodeOutOfRange))
	_, err = astar.NewEngine(g, 0, -1)
	assert.True(t, errors.Is(err, graph.ErrNodeOutOfRange))
	_, err = astar.NewEngine(nil, 0, 0)
	assert.Error(t, err)
	_, err = astar.NewEngine(g, 0, 1, astar.WithFrontier(astar.FrontierKind(7)))
	assert.Error(t, err)
}

func TestResultBeforeDone(t *testing.T) {
	e, err := astar.NewEngine(triangle(t), 0, 2)
	require.NoError(t, err)
	_, err = e.Result()
	assert.ErrorIs(t, err, astar.ErrSearchNotDone)
}

func TestStepInvariants(t *testing.T) {
	g := triangle(t)
	e, err := astar.NewEngine(g, 0, 2)
	require.NoError(t, err)

	st := e.State()
	assert.Equal(t, 0.0, st.Entry(0).BestCost)
	prev, ok := st.Entry(0).Previous.Node()
	assert.True(t, ok)
	assert.Equal(t, 0, prev)
	for i := 1; i < 3; i++ {
		assert.True(t, math.IsInf(st.Entry(i).BestCost, 1))
		assert.Equal(t, "none", st.Entry(i).Previous.String())
	}

	visited := 0
	for !e.Done() {
		ev, _ := e.Step()
		if ev.Node >= 0 {
			visited++
		}
		assert.Equal(t, visited, st.NumVisited(), "visited set grows by one per step")
		assert.Equal(t, 0.0, st.Entry(0).BestCost, "start cost never changes")
	}

	ev, more := e.Step()
	assert.False(t, more)
	assert.Equal(t, -1, ev.Node)
	assert.Equal(t, astar.StatusFound, e.Status())
}

func TestObserver(t *testing.T) {
	var events []astar.StepEvent
	_, err := astar.Search(triangle(t), 0, 2, astar.WithObserver(func(ev astar.StepEvent) {
		events = append(events, ev)
	}))
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, 0, events[0].Node)
	assert.Equal(t, 2, events[0].Improved)
	assert.Equal(t, 1, events[1].Node)
	assert.Equal(t, 1, events[1].Improved)
	assert.Equal(t, 2, events[2].Node)
	assert.Equal(t, astar.StatusFound, events[2].Status)
	assert.Equal(t, 3, events[2].Step)
}

func TestIdempotent(t *testing.T) {
	g := randomGraph(rand.New(rand.NewPCG(7, 7)), 20, 0.2)
	before := *g

	first, err := astar.Search(g, 0, 19)
	require.NoError(t, err)
	second, err := astar.Search(g, 0, 19)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before.Adjacency, g.Adjacency, "search must not modify the graph")
}

// randomGraph builds a directed graph with edge probability p and weights in
// [0.5, 10.5).
func randomGraph(rng *rand.Rand, n int, p float64) *graph.Graph {
	g, _ := graph.New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && rng.Float64() < p {
				g.SetEdge(i, j, 0.5+rng.Float64()*10)
			}
		}
	}
	return g
}

// setConsistentHeuristic sets h(i) = scale * true cost from i to end, which is
// consistent for scale in [0, 1].
func setConsistentHeuristic(g *graph.Graph, end int, scale float64) {
	toEnd := routing.ShortestCosts(routing.Transpose(g), end)
	for i := 0; i < g.NumNodes; i++ {
		if math.IsInf(toEnd[i], 1) {
			g.Heuristic[i] = 0
			continue
		}
		g.Heuristic[i] = scale * toEnd[i]
	}
}

func checkPath(t *testing.T, g *graph.Graph, res astar.Result, start, end int) {
	t.Helper()
	require.NotEmpty(t, res.Path)
	assert.Equal(t, start, res.Path[0])
	assert.Equal(t, end, res.Path[len(res.Path)-1])
	assert.LessOrEqual(t, len(res.Path), g.NumNodes)

	sum := 0.0
	for k := 1; k < len(res.Path); k++ {
		w := g.Weight(res.Path[k-1], res.Path[k])
		require.NotZero(t, w, "edge %d->%d missing", res.Path[k-1], res.Path[k])
		sum += w
	}
	assert.InDelta(t, res.Cost, sum, 1e-9)
}

func TestOptimalityRandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.IntN(graph.MaxNodes-1)
		g := randomGraph(rng, n, 0.05+rng.Float64()*0.3)
		start, end := rng.IntN(n), rng.IntN(n)
		setConsistentHeuristic(g, end, rng.Float64())

		want := routing.ShortestCosts(g, start)[end]
		for _, kind := range frontiers {
			res, err := astar.Search(g, start, end, astar.WithFrontier(kind))
			require.NoError(t, err)

			if math.IsInf(want, 1) {
				assert.Equal(t, astar.StatusUnreachable, res.Status, "trial %d", trial)
				continue
			}
			require.Equal(t, astar.StatusFound, res.Status, "trial %d", trial)
			assert.InDelta(t, want, res.Cost, 1e-9, "trial %d (%s)", trial, kind)
			checkPath(t, g, res, start, end)
		}
	}
}

func TestFrontiersAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.IntN(graph.MaxNodes-1)
		g := randomGraph(rng, n, 0.05+rng.Float64()*0.3)
		// Integer weights and heuristics force many exact ties.
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if g.HasEdge(i, j) {
					g.SetEdge(i, j, math.Ceil(g.Weight(i, j)/4))
				}
			}
			g.Heuristic[i] = float64(rng.IntN(3))
		}
		start, end := rng.IntN(n), rng.IntN(n)

		var linear, heap []astar.StepEvent
		resL, errL := astar.Search(g, start, end, astar.WithObserver(func(ev astar.StepEvent) { linear = append(linear, ev) }))
		resH, errH := astar.Search(g, start, end, astar.WithHeapFrontier(), astar.WithObserver(func(ev astar.StepEvent) { heap = append(heap, ev) }))
		require.NoError(t, errL)
		require.NoError(t, errH)

		assert.Equal(t, resL, resH, "trial %d", trial)
		assert.Equal(t, linear, heap, "trial %d", trial)
	}
}

func TestInfiniteHeuristicNeverSelected(t *testing.T) {
	// Node 1 is only reachable with an infinite estimate, so 2 is unreachable.
	g := newGraph(t, 3, map[[2]int]float64{{0, 1}: 1, {1, 2}: 1})
	g.Heuristic[1] = math.Inf(1)

	for _, kind := range frontiers {
		res, err := astar.Search(g, 0, 2, astar.WithFrontier(kind))
		require.NoError(t, err)
		assert.Equal(t, astar.StatusUnreachable, res.Status, kind.String())
		assert.Equal(t, 1, res.Expanded)
	}
}

func BenchmarkSearch(b *testing.B) {
	g := randomGraph(rand.New(rand.NewPCG(5, 6)), graph.MaxNodes, 0.2)
	for _, kind := range frontiers {
		b.Run(kind.String(), func(b *testing.B) {
			for b.Loop() {
				astar.Search(g, 0, graph.MaxNodes-1, astar.WithFrontier(kind))
			}
		})
	}
}
