package astar

import (
	"math"

	"astar_router/pkg/graph"
)

// FrontierKind selects how the next node to expand is found. Both kinds pick
// the unvisited node with the lowest finite estimated total cost, preferring
// the lowest index on ties, so they produce identical searches.
type FrontierKind int

const (
	// LinearFrontier scans every node per step: O(n²) per search.
	LinearFrontier FrontierKind = iota
	// HeapFrontier keeps reached nodes in an indexed binary heap.
	HeapFrontier
)

func (k FrontierKind) String() string {
	switch k {
	case LinearFrontier:
		return "linear"
	case HeapFrontier:
		return "heap"
	default:
		return "unknown"
	}
}

type frontier interface {
	// reset is called after the state has been initialized.
	reset(s *State)
	// decreased is called after node's estimate was lowered by relaxation.
	decreased(s *State, node int)
	// next removes and returns the node to expand, or false if no unvisited
	// node has a finite estimate.
	next(s *State) (int, bool)
}

type linearFrontier struct{}

func (linearFrontier) reset(*State)          {}
func (linearFrontier) decreased(*State, int) {}

// next scans in index order with a strict less-than, so ties go to the lowest
// index and nodes with an infinite or NaN estimate are never chosen.
func (linearFrontier) next(s *State) (int, bool) {
	best := -1
	bestF := math.Inf(1)
	for i := 0; i < s.n; i++ {
		e := &s.entries[i]
		if !e.Visited && e.EstimatedTotalCost < bestF {
			best = i
			bestF = e.EstimatedTotalCost
		}
	}
	return best, best >= 0
}

// heapFrontier is an indexed min-heap ordered by (estimate, node). Estimates
// only ever decrease, so an update is a sift up. All storage is fixed-size.
type heapFrontier struct {
	items [graph.MaxNodes]int
	slot  [graph.MaxNodes]int // position in items plus one; 0 when absent
	n     int
}

func (h *heapFrontier) reset(s *State) {
	h.n = 0
	h.slot = [graph.MaxNodes]int{}
	for i := 0; i < s.n; i++ {
		h.decreased(s, i)
	}
}

func (h *heapFrontier) decreased(s *State, node int) {
	if !(s.entries[node].EstimatedTotalCost < math.Inf(1)) {
		return
	}
	if h.slot[node] == 0 {
		h.items[h.n] = node
		h.slot[node] = h.n + 1
		h.n++
	}
	h.siftUp(s, h.slot[node]-1)
}

func (h *heapFrontier) next(s *State) (int, bool) {
	if h.n == 0 {
		return -1, false
	}
	top := h.items[0]
	h.slot[top] = 0
	h.n--
	if h.n > 0 {
		h.items[0] = h.items[h.n]
		h.slot[h.items[0]] = 1
		h.siftDown(s, 0)
	}
	return top, true
}

func less(s *State, a, b int) bool {
	fa, fb := s.entries[a].EstimatedTotalCost, s.entries[b].EstimatedTotalCost
	return fa < fb || (fa == fb && a < b)
}

func (h *heapFrontier) siftUp(s *State, i int) {
	node := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if !less(s, node, h.items[parent]) {
			break
		}
		h.items[i] = h.items[parent]
		h.slot[h.items[i]] = i + 1
		i = parent
	}
	h.items[i] = node
	h.slot[node] = i + 1
}

func (h *heapFrontier) siftDown(s *State, i int) {
	node := h.items[i]
	for {
		child := 2*i + 1
		if child >= h.n {
			break
		}
		if right := child + 1; right < h.n && less(s, h.items[right], h.items[child]) {
			child = right
		}
		if !less(s, h.items[child], node) {
			break
		}
		h.items[i] = h.items[child]
		h.slot[h.items[i]] = i + 1
		i = child
	}
	h.items[i] = node
	h.slot[node] = i + 1
}
