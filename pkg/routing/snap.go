package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"astar_router/pkg/geo"
	"astar_router/pkg/graph"
)

// DefaultMaxSnapMeters is the snapping radius used when none is configured.
const DefaultMaxSnapMeters = 500.0

// ErrPointTooFar is returned when the query point is too far from any node.
var ErrPointTooFar = errors.New("point too far from node")

// ErrNoCoordinates is returned for coordinate queries on a graph without
// node coordinates.
var ErrNoCoordinates = graph.ErrNoCoordinates

// SnapResult is a query point matched to a graph node.
type SnapResult struct {
	Node int
	Dist float64 // metres from the query point to the node
}

// Snapper finds the graph node nearest to a coordinate using an R-tree of
// node positions. Longitudes are scaled by the cosine of the graph's mean
// latitude so that box distances rank nodes like ground distance does.
type Snapper struct {
	tr       rtree.RTreeG[int]
	g        *graph.Graph
	lonScale float64
	maxDist  float64
}

// NewSnapper indexes the nodes of g. maxDistMeters <= 0 selects
// DefaultMaxSnapMeters.
func NewSnapper(g *graph.Graph, maxDistMeters float64) (*Snapper, error) {
	if !g.HasCoordinates() {
		return nil, ErrNoCoordinates
	}
	if maxDistMeters <= 0 {
		maxDistMeters = DefaultMaxSnapMeters
	}

	b := geo.Bound(g.NodeLat, g.NodeLon)
	meanLat := (b.Min[1] + b.Max[1]) / 2
	s := &Snapper{
		g:        g,
		lonScale: math.Cos(meanLat * math.Pi / 180),
		maxDist:  maxDistMeters,
	}
	for i := 0; i < g.NumNodes; i++ {
		p := s.project(g.NodeLat[i], g.NodeLon[i])
		s.tr.Insert(p, p, i)
	}
	return s, nil
}

func (s *Snapper) project(lat, lng float64) [2]float64 {
	return [2]float64{lng * s.lonScale, lat}
}

// Snap returns the node nearest to lat/lng.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	q := s.project(lat, lng)

	best := SnapResult{Node: -1, Dist: math.Inf(1)}
	s.tr.Nearby(
		rtree.BoxDist[float64, int](q, q, nil),
		func(_, _ [2]float64, node int, _ float64) bool {
			best = SnapResult{
				Node: node,
				Dist: geo.Distance(lat, lng, s.g.NodeLat[node], s.g.NodeLon[node]),
			}
			return false
		},
	)

	if best.Node < 0 || best.Dist > s.maxDist {
		return SnapResult{}, ErrPointTooFar
	}
	return best, nil
}
