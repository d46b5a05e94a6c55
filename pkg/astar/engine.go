// Package astar finds lowest-cost paths in a dense graph with A*.
//
// An Engine owns all per-search state and never writes to the graph, so one
// graph may be searched from many goroutines as long as each has its own
// Engine. The search itself does not allocate; only the final path does.
package astar

import (
	"errors"
	"fmt"
	"math"

	"astar_router/pkg/graph"
)

// Status is the phase or outcome of a search.
type Status int

const (
	StatusSearching Status = iota
	StatusFound
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusSearching:
		return "searching"
	case StatusFound:
		return "found"
	case StatusUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status by name for JSON and YAML reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrSearchNotDone is returned by Engine.Result before the search has ended.
var ErrSearchNotDone = errors.New("search has not finished")

// Result is the outcome of a finished search.
type Result struct {
	Status Status
	// Path runs from start to end. Nil unless Status is StatusFound.
	Path []int
	// Cost is the end node's best cost; +Inf when unreachable.
	Cost float64
	// Expanded is the number of nodes marked visited.
	Expanded int
}

// Found reports whether a path was found.
func (r Result) Found() bool { return r.Status == StatusFound }

// StepEvent describes one iteration of the search loop.
type StepEvent struct {
	Step     int // 1-based
	Node     int // selected node, -1 when the frontier was exhausted
	BestCost float64
	Estimate float64
	Improved int // neighbours whose cost was lowered
	Status   Status
}

// Options configures an Engine.
type Options struct {
	Frontier FrontierKind
	Observer func(StepEvent)
}

// Option modifies Options.
type Option func(*Options)

// WithFrontier selects the frontier implementation.
func WithFrontier(kind FrontierKind) Option {
	return func(o *Options) { o.Frontier = kind }
}

// WithHeapFrontier is shorthand for WithFrontier(HeapFrontier).
func WithHeapFrontier() Option {
	return WithFrontier(HeapFrontier)
}

// WithObserver registers fn to be called after every step.
func WithObserver(fn func(StepEvent)) Option {
	return func(o *Options) { o.Observer = fn }
}

// Engine runs one A* search step by step.
type Engine struct {
	g          *graph.Graph
	start, end int
	opts       Options

	state  State
	linear linearFrontier
	heap   heapFrontier
	fr     frontier

	status Status
	steps  int
}

// NewEngine prepares a search of g from start to end. g must not be modified
// until the search is done.
func NewEngine(g *graph.Graph, start, end int, options ...Option) (*Engine, error) {
	if g == nil {
		return nil, errors.New("nil graph")
	}
	if err := g.CheckNode(start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := g.CheckNode(end); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	e := &Engine{g: g, start: start, end: end}
	for _, o := range options {
		o(&e.opts)
	}
	switch e.opts.Frontier {
	case LinearFrontier:
		e.fr = &e.linear
	case HeapFrontier:
		e.fr = &e.heap
	default:
		return nil, fmt.Errorf("unknown frontier kind %d", e.opts.Frontier)
	}

	e.state.Init(g, start)
	e.fr.reset(&e.state)
	return e, nil
}

// Step runs one iteration: select the next node, then either finish or relax
// its edges and mark it visited. It returns false once the search is done;
// further calls do nothing.
func (e *Engine) Step() (StepEvent, bool) {
	if e.status != StatusSearching {
		return StepEvent{Step: e.steps, Node: -1, Status: e.status}, false
	}
	e.steps++

	node, ok := e.fr.next(&e.state)
	if !ok {
		e.status = StatusUnreachable
		return e.emit(StepEvent{Step: e.steps, Node: -1, Status: e.status}), false
	}

	ev := StepEvent{
		Step:     e.steps,
		Node:     node,
		BestCost: e.state.entries[node].BestCost,
		Estimate: e.state.entries[node].EstimatedTotalCost,
	}
	if node == e.end {
		e.state.markVisited(node)
		e.status = StatusFound
		ev.Status = e.status
		return e.emit(ev), false
	}

	ev.Improved = relax(e.g, &e.state, e.fr, node)
	e.state.markVisited(node)
	ev.Status = e.status
	return e.emit(ev), true
}

func (e *Engine) emit(ev StepEvent) StepEvent {
	if e.opts.Observer != nil {
		e.opts.Observer(ev)
	}
	return ev
}

// Done reports whether the search has ended.
func (e *Engine) Done() bool { return e.status != StatusSearching }

// Status returns the current phase or outcome.
func (e *Engine) Status() Status { return e.status }

// State exposes the search bookkeeping. Callers must not modify it.
func (e *Engine) State() *State { return &e.state }

// Run steps until the search is done and returns its result.
func (e *Engine) Run() (Result, error) {
	for {
		if _, more := e.Step(); !more {
			break
		}
	}
	return e.Result()
}

// Result builds the outcome of a finished search. An unreachable end node is
// a regular result, not an error.
func (e *Engine) Result() (Result, error) {
	res := Result{
		Status:   e.status,
		Cost:     e.state.entries[e.end].BestCost,
		Expanded: e.state.visited,
	}
	switch e.status {
	case StatusSearching:
		return Result{}, ErrSearchNotDone
	case StatusUnreachable:
		res.Cost = math.Inf(1)
		return res, nil
	}

	path, err := Reconstruct(&e.state, e.start, e.end)
	if err != nil {
		return Result{}, err
	}
	res.Path = path
	return res, nil
}

// Search runs A* on g from start to end.
func Search(g *graph.Graph, start, end int, options ...Option) (Result, error) {
	e, err := NewEngine(g, start, end, options...)
	if err != nil {
		return Result{}, err
	}
	return e.Run()
}
