package routing

import (
	"math"
	"testing"
)

// floydWarshall computes all-pairs costs for cross-checking ShortestCosts.
func floydWarshall(n int, w func(i, j int) float64) [][]float64 {
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := range d[i] {
			switch {
			case i == j:
				d[i][j] = 0
			case w(i, j) != 0:
				d[i][j] = w(i, j)
			default:
				d[i][j] = math.Inf(1)
			}
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if d[i][k]+d[k][j] < d[i][j] {
					d[i][j] = d[i][k] + d[k][j]
				}
			}
		}
	}
	return d
}

func TestShortestCostsCorrectness(t *testing.T) {
	g := buildTestGraph(t).Clone()
	g.SetEdge(5, 0, 0) // no-op, already absent
	g.SetEdge(2, 5, 0) // make the grid asymmetric

	want := floydWarshall(g.NumNodes, g.Weight)
	for s := 0; s < g.NumNodes; s++ {
		got := ShortestCosts(g, s)
		for d := 0; d < g.NumNodes; d++ {
			if got[d] != want[s][d] {
				t.Errorf("s=%d d=%d: Dijkstra=%v, Floyd-Warshall=%v", s, d, got[d], want[s][d])
			}
		}
	}
}

func TestShortestCostsUnreachable(t *testing.T) {
	g := buildTestGraph(t).Clone()
	for i := 0; i < g.NumNodes; i++ {
		g.SetEdge(i, 4, 0)
	}
	if c := ShortestCosts(g, 0)[4]; !math.IsInf(c, 1) {
		t.Errorf("cost to isolated node = %v, want +Inf", c)
	}
}

func TestTranspose(t *testing.T) {
	g := buildTestGraph(t).Clone()
	g.SetEdge(2, 5, 0)
	tr := Transpose(g)
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			if g.Weight(i, j) != tr.Weight(j, i) {
				t.Fatalf("Transpose(%d,%d) mismatch", i, j)
			}
		}
	}
}

func TestDistHeap(t *testing.T) {
	var h distHeap

	h.Push(1, 30)
	h.Push(2, 10)
	h.Push(3, 20)

	item := h.Pop()
	if item.node != 2 || item.dist != 10 {
		t.Errorf("Pop = {%d, %v}, want {2, 10}", item.node, item.dist)
	}

	item = h.Pop()
	if item.node != 3 || item.dist != 20 {
		t.Errorf("Pop = {%d, %v}, want {3, 20}", item.node, item.dist)
	}

	item = h.Pop()
	if item.node != 1 || item.dist != 30 {
		t.Errorf("Pop = {%d, %v}, want {1, 30}", item.node, item.dist)
	}

	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}
