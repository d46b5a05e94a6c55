package graph

import (
	"errors"

	"astar_router/pkg/geo"
)

// ErrNoCoordinates is returned when a coordinate-based operation is applied to
// a graph without node coordinates.
var ErrNoCoordinates = errors.New("graph has no node coordinates")

// SetStraightLineHeuristic sets Heuristic[i] to the great-circle distance from
// node i to end. For graphs whose weights are great-circle edge lengths this
// heuristic never overestimates and is consistent.
func (g *Graph) SetStraightLineHeuristic(end int) error {
	if !g.HasCoordinates() {
		return ErrNoCoordinates
	}
	if err := g.CheckNode(end); err != nil {
		return err
	}
	for i := 0; i < g.NumNodes; i++ {
		g.Heuristic[i] = geo.Distance(g.NodeLat[i], g.NodeLon[i], g.NodeLat[end], g.NodeLon[end])
	}
	return nil
}

// ZeroHeuristic clears every heuristic value, which turns A* into Dijkstra.
func (g *Graph) ZeroHeuristic() {
	for i := range g.Heuristic {
		g.Heuristic[i] = 0
	}
}
