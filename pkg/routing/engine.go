package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"astar_router/pkg/astar"
	"astar_router/pkg/graph"
	"astar_router/pkg/uncertainty"
)

// ErrNoRoute is returned when the end node is unreachable from the start.
var ErrNoRoute = errors.New("no route found")

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Query is one route request. When StartCoord/EndCoord are set they are
// snapped to the nearest node and replace Start/End.
type Query struct {
	Start, End           int
	StartCoord, EndCoord *LatLng

	Uncertainty uncertainty.Coefficients
	Seed        uint64 // 0 seeds from the clock
	Verify      bool
	Frontier    astar.FrontierKind
}

// RouteResult is the output of a route query.
type RouteResult struct {
	Start, End  int
	Path        []int
	Cost        float64
	Expanded    int
	Coordinates []LatLng // nil when the graph has no coordinates

	// Snap distances in metres; zero when the query named nodes directly.
	StartSnapMeters float64
	EndSnapMeters   float64

	// OptimalCost is the plain Dijkstra cost on the searched graph, set only
	// when the query asked for verification.
	OptimalCost *float64
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, q Query) (*RouteResult, error)
}

// Options configures an Engine.
type Options struct {
	MaxSnapMeters float64
	// StraightLineHeuristic replaces the stored heuristic with great-circle
	// distance to each query's end node.
	StraightLineHeuristic bool
}

// Engine implements Router over one read-only graph. It is safe for
// concurrent use: every query gets its own search state, and queries that
// change weights or heuristics work on a copy.
type Engine struct {
	g       *graph.Graph
	opts    Options
	snapper *Snapper // nil without coordinates
}

// NewEngine creates a routing engine. Coordinate queries and the
// straight-line heuristic need a graph with coordinates.
func NewEngine(g *graph.Graph, opts Options) *Engine {
	e := &Engine{g: g, opts: opts}
	if g.HasCoordinates() {
		e.snapper, _ = NewSnapper(g, opts.MaxSnapMeters)
	} else {
		e.opts.StraightLineHeuristic = false
	}
	return e
}

// Graph returns the graph the engine routes on.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Route computes the lowest-cost path for q.
func (e *Engine) Route(ctx context.Context, q Query) (*RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &RouteResult{Start: q.Start, End: q.End}

	// Step 1: resolve endpoints.
	if q.StartCoord != nil || q.EndCoord != nil {
		if e.snapper == nil {
			return nil, ErrNoCoordinates
		}
	}
	if q.StartCoord != nil {
		snap, err := e.snapper.Snap(q.StartCoord.Lat, q.StartCoord.Lng)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		res.Start, res.StartSnapMeters = snap.Node, snap.Dist
	}
	if q.EndCoord != nil {
		snap, err := e.snapper.Snap(q.EndCoord.Lat, q.EndCoord.Lng)
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		res.End, res.EndSnapMeters = snap.Node, snap.Dist
	}
	if err := e.g.CheckNode(res.Start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := e.g.CheckNode(res.End); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	// Step 2: prepare the graph this query searches.
	g := e.g
	if e.opts.StraightLineHeuristic || q.Uncertainty.Enabled() {
		g = e.g.Clone()
	}
	if e.opts.StraightLineHeuristic {
		if err := g.SetStraightLineHeuristic(res.End); err != nil {
			return nil, err
		}
	}
	if q.Uncertainty.Enabled() {
		uncertainty.Apply(g, q.Uncertainty, uncertainty.Gaussian(uncertainty.NewSource(q.Seed)))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: search.
	out, err := astar.Search(g, res.Start, res.End, astar.WithFrontier(q.Frontier))
	if err != nil {
		return nil, err
	}
	res.Expanded = out.Expanded
	if !out.Found() {
		return nil, fmt.Errorf("%w: %d to %d", ErrNoRoute, res.Start, res.End)
	}
	res.Path = out.Path
	res.Cost = out.Cost

	// Step 4: geometry and verification.
	if g.HasCoordinates() {
		res.Coordinates = make([]LatLng, len(out.Path))
		for i, n := range out.Path {
			res.Coordinates[i] = LatLng{Lat: g.NodeLat[n], Lng: g.NodeLon[n]}
		}
	}
	if q.Verify {
		opt := ShortestCosts(g, res.Start)[res.End]
		res.OptimalCost = &opt
	}

	return res, nil
}

// Gap returns how much the found cost exceeds the optimal one, or 0 when the
// result was not verified.
func (r *RouteResult) Gap() float64 {
	if r.OptimalCost == nil || math.IsInf(*r.OptimalCost, 1) {
		return 0
	}
	return r.Cost - *r.OptimalCost
}

// BatchItem is the outcome of one query in a batch.
type BatchItem struct {
	Result *RouteResult
	Err    error
}

// RouteBatch runs queries with at most workers in flight. Items are returned
// in query order; a failing query only fails its own item. The returned error
// is non-nil only if ctx ends before every query has run.
func (e *Engine) RouteBatch(ctx context.Context, queries []Query, workers int) ([]BatchItem, error) {
	if workers < 1 {
		workers = 1
	}
	items := make([]BatchItem, len(queries))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for i := range queries {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Route(ctx, queries[i])
			items[i] = BatchItem{Result: res, Err: err}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
