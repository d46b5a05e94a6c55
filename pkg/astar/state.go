package astar

import (
	"math"
	"strconv"

	"astar_router/pkg/graph"
)

// Predecessor is the node a best cost was reached from.
// The zero value means "none".
type Predecessor struct {
	node  int
	valid bool
}

// From returns a Predecessor pointing at node.
func From(node int) Predecessor {
	return Predecessor{node: node, valid: true}
}

// Node returns the predecessor node and whether there is one.
func (p Predecessor) Node() (int, bool) {
	return p.node, p.valid
}

func (p Predecessor) String() string {
	if !p.valid {
		return "none"
	}
	return strconv.Itoa(p.node)
}

// NodeEntry is the search bookkeeping for one node.
type NodeEntry struct {
	BestCost           float64 // g: cheapest known cost from start
	EstimatedTotalCost float64 // f: BestCost + heuristic
	Previous           Predecessor
	Visited            bool
}

// State is the per-search bookkeeping for every node of a graph. It is a
// fixed-size value: initializing it does not allocate.
type State struct {
	n       int
	visited int
	entries [graph.MaxNodes]NodeEntry
}

// Init resets s for a search of g from start. Every node is unreached except
// start, which has cost 0, its own heuristic as estimate, and itself as
// predecessor.
func (s *State) Init(g *graph.Graph, start int) {
	s.n = g.NumNodes
	s.visited = 0
	inf := math.Inf(1)
	for i := 0; i < s.n; i++ {
		s.entries[i] = NodeEntry{BestCost: inf, EstimatedTotalCost: inf}
	}
	s.entries[start] = NodeEntry{
		BestCost:           0,
		EstimatedTotalCost: g.Heuristic[start],
		Previous:           From(start),
	}
}

// Len returns the number of nodes tracked.
func (s *State) Len() int { return s.n }

// Entry returns a copy of node i's bookkeeping.
func (s *State) Entry(i int) NodeEntry { return s.entries[i] }

// NumVisited returns how many nodes have been marked visited.
func (s *State) NumVisited() int { return s.visited }

func (s *State) markVisited(i int) {
	if !s.entries[i].Visited {
		s.entries[i].Visited = true
		s.visited++
	}
}
