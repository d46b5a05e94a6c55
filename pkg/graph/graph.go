package graph

import (
	"errors"
	"fmt"
)

// MaxNodes is the fixed node capacity of a Graph.
const MaxNodes = 64

var (
	// ErrTooFewNodes is returned when a graph would have no nodes.
	ErrTooFewNodes = errors.New("graph needs at least one node")
	// ErrTooManyNodes is returned when a graph would exceed MaxNodes.
	ErrTooManyNodes = errors.New("too many graph nodes")
	// ErrNodeOutOfRange is returned for a node index outside [0, NumNodes).
	ErrNodeOutOfRange = errors.New("node index out of range")
)

// Graph is a dense weighted directed graph with a per-node heuristic.
//
// Adjacency[i][j] is the weight of the edge i→j; 0 means there is no edge.
// Heuristic[i] estimates the remaining cost from i to the destination of the
// search the graph is prepared for. Entries at or beyond NumNodes are never read.
type Graph struct {
	NumNodes  int
	Adjacency [MaxNodes][MaxNodes]float64
	Heuristic [MaxNodes]float64

	// Optional node coordinates (graphs built from OSM extracts).
	// Either both are nil or both have length NumNodes.
	NodeLat []float64
	NodeLon []float64
}

// New returns an edgeless graph with n nodes and zero heuristics.
func New(n int) (*Graph, error) {
	if n < 1 {
		return nil, ErrTooFewNodes
	}
	if n > MaxNodes {
		return nil, fmt.Errorf("%w: %d (maximum %d)", ErrTooManyNodes, n, MaxNodes)
	}
	return &Graph{NumNodes: n}, nil
}

// CheckNode returns ErrNodeOutOfRange if i is not a node of g.
func (g *Graph) CheckNode(i int) error {
	if i < 0 || i >= g.NumNodes {
		return fmt.Errorf("%w: %d (0 to %d)", ErrNodeOutOfRange, i, g.NumNodes-1)
	}
	return nil
}

// Weight returns the weight of edge i→j, 0 if absent.
func (g *Graph) Weight(i, j int) float64 {
	return g.Adjacency[i][j]
}

// HasEdge reports whether there is an edge i→j.
func (g *Graph) HasEdge(i, j int) bool {
	return g.Adjacency[i][j] != 0
}

// SetEdge sets the weight of edge i→j. A weight of 0 removes the edge.
func (g *Graph) SetEdge(i, j int, weight float64) {
	g.Adjacency[i][j] = weight
}

// SetUndirectedEdge sets both i→j and j→i.
func (g *Graph) SetUndirectedEdge(i, j int, weight float64) {
	g.Adjacency[i][j] = weight
	g.Adjacency[j][i] = weight
}

// NumEdges counts the directed edges of g.
func (g *Graph) NumEdges() int {
	n := 0
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			if g.Adjacency[i][j] != 0 {
				n++
			}
		}
	}
	return n
}

// HasCoordinates reports whether every node carries a lat/lon.
func (g *Graph) HasCoordinates() bool {
	return len(g.NodeLat) == g.NumNodes && len(g.NodeLon) == g.NumNodes && g.NumNodes > 0
}

// Clone returns a deep copy of g. The fixed-size arrays are copied by value.
func (g *Graph) Clone() *Graph {
	c := *g
	if g.NodeLat != nil {
		c.NodeLat = append([]float64(nil), g.NodeLat...)
	}
	if g.NodeLon != nil {
		c.NodeLon = append([]float64(nil), g.NodeLon...)
	}
	return &c
}
