package routing

import (
	"math"

	"astar_router/pkg/graph"
)

// distHeapItem is an entry in the reference Dijkstra min-heap.
type distHeapItem struct {
	node int
	dist float64
}

// distHeap is a concrete-typed binary min-heap with lazy deletion.
type distHeap struct {
	items []distHeapItem
}

func (h *distHeap) Len() int { return len(h.items) }

func (h *distHeap) Push(node int, dist float64) {
	h.items = append(h.items, distHeapItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *distHeap) Pop() distHeapItem {
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top
}

// siftUp uses hole-sift: saves the floating item and does 1 assignment per
// level instead of 3 (swap).
func (h *distHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if item.dist >= h.items[parent].dist {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *distHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.items[right].dist < h.items[child].dist {
			child = right
		}
		if item.dist <= h.items[child].dist {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}

// ShortestCosts runs plain Dijkstra from start and returns the optimal cost
// to every node (+Inf when unreachable). It ignores the heuristic entirely and
// serves as the ground truth for A* results.
func ShortestCosts(g *graph.Graph, start int) []float64 {
	n := g.NumNodes
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[start] = 0

	h := distHeap{items: make([]distHeapItem, 0, n)}
	h.Push(start, 0)

	for h.Len() > 0 {
		cur := h.Pop()

		// Skip stale entries.
		if cur.dist > dist[cur.node] {
			continue
		}

		for v := 0; v < n; v++ {
			w := g.Adjacency[cur.node][v]
			if w == 0 || v == cur.node {
				continue
			}
			if d := cur.dist + w; d < dist[v] {
				dist[v] = d
				h.Push(v, d)
			}
		}
	}
	return dist
}

// Transpose returns g with every edge reversed and heuristics cleared.
// ShortestCosts on the transpose gives each node's cost to reach start.
func Transpose(g *graph.Graph) *graph.Graph {
	t := &graph.Graph{NumNodes: g.NumNodes, NodeLat: g.NodeLat, NodeLon: g.NodeLon}
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			t.Adjacency[j][i] = g.Adjacency[i][j]
		}
	}
	return t
}
