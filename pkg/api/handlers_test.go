package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"astar_router/pkg/astar"
	"astar_router/pkg/graph"
	"astar_router/pkg/routing"
)

// mockRouter implements Router for testing.
type mockRouter struct {
	result *routing.RouteResult
	err    error
	got    []routing.Query
}

func (m *mockRouter) Route(ctx context.Context, q routing.Query) (*routing.RouteResult, error) {
	m.got = append(m.got, q)
	return m.result, m.err
}

func (m *mockRouter) RouteBatch(ctx context.Context, queries []routing.Query, workers int) ([]routing.BatchItem, error) {
	items := make([]routing.BatchItem, len(queries))
	for i, q := range queries {
		res, err := m.Route(ctx, q)
		items[i] = routing.BatchItem{Result: res, Err: err}
	}
	return items, nil
}

func newTestHandlers(m *mockRouter) *Handlers {
	return NewHandlers(m, StatsResponse{NumNodes: 6}, 2, 10)
}

func postRoute(h *Handlers, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, w.Body.String())
	}
	return resp
}

func TestHandleRoute_Success(t *testing.T) {
	opt := 2.0
	mock := &mockRouter{
		result: &routing.RouteResult{
			Start:       0,
			End:         2,
			Path:        []int{0, 1, 2},
			Cost:        2,
			Expanded:    3,
			Coordinates: []routing.LatLng{{Lat: 1.3, Lng: 103.8}, {Lat: 1.31, Lng: 103.8}, {Lat: 1.32, Lng: 103.8}},
			OptimalCost: &opt,
		},
	}
	h := newTestHandlers(mock)

	w := postRoute(h, `{"start":0,"end":2,"edge_weight_coeff":0.1,"seed":5,"verify":true,"frontier":"heap"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCost != 2 || len(resp.Path) != 3 || resp.ExpandedNodes != 3 {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Coordinates) != 3 || resp.OptimalCost == nil || *resp.OptimalCost != 2 {
		t.Errorf("coordinates/optimal cost missing: %+v", resp)
	}

	q := mock.got[0]
	if q.Start != 0 || q.End != 2 || q.Uncertainty.EdgeWeight != 0.1 || q.Seed != 5 || !q.Verify || q.Frontier != astar.HeapFrontier {
		t.Errorf("query = %+v", q)
	}
}

func TestHandleRoute_Coordinates(t *testing.T) {
	mock := &mockRouter{result: &routing.RouteResult{Path: []int{3, 4}}}
	h := newTestHandlers(mock)

	w := postRoute(h, `{"start_coord":{"lat":1.3,"lng":103.8},"end":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	q := mock.got[0]
	if q.StartCoord == nil || q.StartCoord.Lat != 1.3 || q.EndCoord != nil || q.End != 4 {
		t.Errorf("query = %+v", q)
	}
}

func TestHandleRoute_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantField string
	}{
		{name: "invalid json", body: "not json", wantCode: "invalid_request"},
		{name: "missing start", body: `{"end":1}`, wantCode: "invalid_request", wantField: "start"},
		{name: "both forms", body: `{"start":0,"start_coord":{"lat":1,"lng":2},"end":1}`, wantCode: "invalid_request", wantField: "start"},
		{name: "negative node", body: `{"start":-1,"end":1}`, wantCode: "invalid_request"},
		{name: "negative coefficient", body: `{"start":0,"end":1,"heuristic_coeff":-1}`, wantCode: "invalid_request"},
		{name: "bad frontier", body: `{"start":0,"end":1,"frontier":"fib"}`, wantCode: "invalid_request"},
		{name: "latitude out of range", body: `{"start":0,"end_coord":{"lat":91,"lng":103.8}}`, wantCode: "invalid_coordinates", wantField: "end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockRouter{}
			w := postRoute(newTestHandlers(mock), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			resp := decodeError(t, w)
			if resp.Error != tt.wantCode || resp.Field != tt.wantField {
				t.Errorf("error = %+v, want %s/%s", resp, tt.wantCode, tt.wantField)
			}
			if len(mock.got) != 0 {
				t.Error("router should not be called")
			}
		})
	}
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := newTestHandlers(&mockRouter{})

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(`{"start":0,"end":1}`))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_RouterErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("start: %w", graph.ErrNodeOutOfRange), http.StatusBadRequest, "invalid_node"},
		{routing.ErrNoRoute, http.StatusNotFound, "no_route_found"},
		{fmt.Errorf("end: %w", routing.ErrPointTooFar), http.StatusUnprocessableEntity, "point_too_far_from_node"},
		{routing.ErrNoCoordinates, http.StatusUnprocessableEntity, "no_coordinates"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "request_timeout"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			w := postRoute(newTestHandlers(&mockRouter{err: tt.err}), `{"start":0,"end":1}`)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if resp := decodeError(t, w); resp.Error != tt.wantCode {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleBatch(t *testing.T) {
	mock := &mockRouter{result: &routing.RouteResult{Path: []int{0, 1}, Cost: 1}}
	h := newTestHandlers(mock)

	body := `{"queries":[{"start":0,"end":1},{"end":1},{"start":1,"end":0}]}`
	req := httptest.NewRequest("POST", "/api/v1/route/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleBatch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	var resp BatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(resp.Results))
	}
	if resp.Results[0].Route == nil || resp.Results[2].Route == nil {
		t.Errorf("valid queries should have routes: %+v", resp.Results)
	}
	if resp.Results[1].Error != "invalid_request" || resp.Results[1].Field != "start" {
		t.Errorf("result 1 = %+v", resp.Results[1])
	}
	if len(mock.got) != 2 || mock.got[1].Start != 1 {
		t.Errorf("router got %+v", mock.got)
	}
}

func TestHandleBatch_TooLarge(t *testing.T) {
	h := NewHandlers(&mockRouter{}, StatsResponse{}, 1, 1)

	body := `{"queries":[{"start":0,"end":1},{"start":1,"end":0}]}`
	req := httptest.NewRequest("POST", "/api/v1/route/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.HandleBatch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandlers(&mockRouter{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	g, _ := graph.New(3)
	g.SetEdge(0, 1, 1)
	g.SetUndirectedEdge(1, 2, 1)
	h := NewHandlers(&mockRouter{}, StatsFor(g), 1, 1)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 3 || resp.NumEdges != 3 || resp.MaxNodes != graph.MaxNodes || resp.HasCoordinates {
		t.Errorf("stats = %+v", resp)
	}
}
