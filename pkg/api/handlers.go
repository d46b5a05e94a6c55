package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"astar_router/pkg/astar"
	"astar_router/pkg/config"
	"astar_router/pkg/geo"
	"astar_router/pkg/graph"
	"astar_router/pkg/routing"
	"astar_router/pkg/uncertainty"
)

const (
	maxRouteBody = 1024
	maxBatchBody = 64 << 10
)

// Router is what the handlers need from the routing engine.
type Router interface {
	routing.Router
	RouteBatch(ctx context.Context, queries []routing.Query, workers int) ([]routing.BatchItem, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router       Router
	stats        StatsResponse
	batchWorkers int
	maxBatch     int
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router Router, stats StatsResponse, batchWorkers, maxBatch int) *Handlers {
	return &Handlers{
		router:       router,
		stats:        stats,
		batchWorkers: batchWorkers,
		maxBatch:     maxBatch,
	}
}

// requestError is a client error with its API code.
type requestError struct {
	status int
	code   string
	field  string
}

func (e *requestError) Error() string { return e.code }

func badRequest(code, field string) *requestError {
	return &requestError{status: http.StatusBadRequest, code: code, field: field}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if rerr := decodeJSON(w, r, maxRouteBody, &req); rerr != nil {
		routeQueriesTotal.WithLabelValues("invalid").Inc()
		writeError(w, rerr.status, rerr.code, rerr.field)
		return
	}

	q, rerr := toQuery(&req)
	if rerr != nil {
		routeQueriesTotal.WithLabelValues("invalid").Inc()
		writeError(w, rerr.status, rerr.code, rerr.field)
		return
	}

	result, err := h.router.Route(r.Context(), q)
	if err != nil {
		rerr := classify(err)
		writeError(w, rerr.status, rerr.code, rerr.field)
		return
	}

	routeQueriesTotal.WithLabelValues("found").Inc()
	routeExpandedNodes.Observe(float64(result.Expanded))
	writeJSON(w, http.StatusOK, toResponse(result))
}

// HandleBatch handles POST /api/v1/route/batch.
func (h *Handlers) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if rerr := decodeJSON(w, r, maxBatchBody, &req); rerr != nil {
		writeError(w, rerr.status, rerr.code, rerr.field)
		return
	}
	if len(req.Queries) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "batch_too_large", "queries")
		return
	}

	results := make([]BatchResult, len(req.Queries))
	queries := make([]routing.Query, 0, len(req.Queries))
	index := make([]int, 0, len(req.Queries))
	for i := range req.Queries {
		q, rerr := toQuery(&req.Queries[i])
		if rerr != nil {
			routeQueriesTotal.WithLabelValues("invalid").Inc()
			results[i] = BatchResult{Error: rerr.code, Field: rerr.field}
			continue
		}
		queries = append(queries, q)
		index = append(index, i)
	}

	items, err := h.router.RouteBatch(r.Context(), queries, h.batchWorkers)
	if err != nil {
		rerr := classify(err)
		writeError(w, rerr.status, rerr.code, rerr.field)
		return
	}
	for k, item := range items {
		i := index[k]
		if item.Err != nil {
			rerr := classify(item.Err)
			results[i] = BatchResult{Error: rerr.code, Field: rerr.field}
			continue
		}
		routeQueriesTotal.WithLabelValues("found").Inc()
		routeExpandedNodes.Observe(float64(item.Result.Expanded))
		resp := toResponse(item.Result)
		results[i] = BatchResult{Route: &resp}
	}

	writeJSON(w, http.StatusOK, BatchResponse{Results: results})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats)
}

// StatsFor summarizes g for the stats endpoint.
func StatsFor(g *graph.Graph) StatsResponse {
	return StatsResponse{
		NumNodes:       g.NumNodes,
		NumEdges:       g.NumEdges(),
		MaxNodes:       graph.MaxNodes,
		HasCoordinates: g.HasCoordinates(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) *requestError {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return badRequest("invalid_request", "")
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(dst); err != nil {
		return badRequest("invalid_request", "")
	}
	if err := config.Struct(dst); err != nil {
		return badRequest("invalid_request", "")
	}
	return nil
}

// toQuery checks that each endpoint is given exactly one way and converts the
// request to a routing query.
func toQuery(req *RouteRequest) (routing.Query, *requestError) {
	q := routing.Query{
		Uncertainty: uncertainty.Coefficients{
			Heuristic:  req.HeuristicCoeff,
			EdgeWeight: req.EdgeWeightCoeff,
		},
		Seed:   req.Seed,
		Verify: req.Verify,
	}
	if req.Frontier == "heap" {
		q.Frontier = astar.HeapFrontier
	}

	var rerr *requestError
	q.Start, q.StartCoord, rerr = endpoint(req.Start, req.StartCoord, "start")
	if rerr != nil {
		return q, rerr
	}
	q.End, q.EndCoord, rerr = endpoint(req.End, req.EndCoord, "end")
	if rerr != nil {
		return q, rerr
	}
	return q, nil
}

func endpoint(node *int, coord *LatLngJSON, field string) (int, *routing.LatLng, *requestError) {
	switch {
	case node != nil && coord != nil:
		return 0, nil, badRequest("invalid_request", field)
	case node != nil:
		return *node, nil, nil
	case coord != nil:
		if !geo.ValidLatLng(coord.Lat, coord.Lng) {
			return 0, nil, badRequest("invalid_coordinates", field)
		}
		return 0, &routing.LatLng{Lat: coord.Lat, Lng: coord.Lng}, nil
	default:
		return 0, nil, badRequest("invalid_request", field)
	}
}

// classify maps a routing error to its HTTP status and API code, and counts
// the outcome.
func classify(err error) *requestError {
	var rerr *requestError
	switch {
	case errors.Is(err, graph.ErrNodeOutOfRange):
		routeQueriesTotal.WithLabelValues("invalid").Inc()
		rerr = badRequest("invalid_node", "")
	case errors.Is(err, routing.ErrPointTooFar):
		routeQueriesTotal.WithLabelValues("invalid").Inc()
		rerr = &requestError{status: http.StatusUnprocessableEntity, code: "point_too_far_from_node"}
	case errors.Is(err, routing.ErrNoCoordinates):
		routeQueriesTotal.WithLabelValues("invalid").Inc()
		rerr = &requestError{status: http.StatusUnprocessableEntity, code: "no_coordinates"}
	case errors.Is(err, routing.ErrNoRoute):
		routeQueriesTotal.WithLabelValues("no_route").Inc()
		rerr = &requestError{status: http.StatusNotFound, code: "no_route_found"}
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		routeQueriesTotal.WithLabelValues("timeout").Inc()
		rerr = &requestError{status: http.StatusServiceUnavailable, code: "request_timeout"}
	default:
		routeQueriesTotal.WithLabelValues("error").Inc()
		rerr = &requestError{status: http.StatusInternalServerError, code: "internal_error"}
	}
	return rerr
}

func toResponse(result *routing.RouteResult) RouteResponse {
	resp := RouteResponse{
		Start:           result.Start,
		End:             result.End,
		Path:            result.Path,
		TotalCost:       result.Cost,
		ExpandedNodes:   result.Expanded,
		StartSnapMeters: result.StartSnapMeters,
		EndSnapMeters:   result.EndSnapMeters,
		OptimalCost:     result.OptimalCost,
	}
	if len(result.Coordinates) > 0 {
		resp.Coordinates = make([]LatLngJSON, len(result.Coordinates))
		for i, ll := range result.Coordinates {
			resp.Coordinates[i] = LatLngJSON{Lat: ll.Lat, Lng: ll.Lng}
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field, RequestID: w.Header().Get(requestIDHeader)})
}
