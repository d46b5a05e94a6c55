package astar

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNoPath is returned when the end node was never reached.
	ErrNoPath = errors.New("no path to end node")
	// ErrCorruptPredecessors is returned when the predecessor chain is broken
	// or cyclic, which a correct search never produces.
	ErrCorruptPredecessors = errors.New("corrupt predecessor chain")
)

// Reconstruct walks predecessors from end back to start and returns the
// path in start-to-end order. The walk is bounded by the node count.
func Reconstruct(s *State, start, end int) ([]int, error) {
	if start == end {
		return []int{start}, nil
	}

	last := s.entries[end]
	if _, ok := last.Previous.Node(); !ok || math.IsInf(last.BestCost, 1) {
		return nil, fmt.Errorf("%w: %d to %d", ErrNoPath, start, end)
	}

	path := make([]int, 0, s.n)
	cur := end
	for cur != start {
		if len(path) >= s.n {
			return nil, fmt.Errorf("%w: no route back to %d within %d steps", ErrCorruptPredecessors, start, s.n)
		}
		path = append(path, cur)
		prev, ok := s.entries[cur].Previous.Node()
		if !ok {
			return nil, fmt.Errorf("%w: node %d has no predecessor", ErrCorruptPredecessors, cur)
		}
		if prev < 0 || prev >= s.n {
			return nil, fmt.Errorf("%w: node %d points at %d", ErrCorruptPredecessors, cur, prev)
		}
		cur = prev
	}
	path = append(path, start)
	slices.Reverse(path)
	return path, nil
}
