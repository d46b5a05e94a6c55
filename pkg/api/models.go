package api

// RouteRequest is the JSON body for POST /api/v1/route. Each endpoint is
// given either as a node index or as a coordinate, not both.
type RouteRequest struct {
	Start      *int        `json:"start,omitempty" validate:"omitempty,gte=0"`
	End        *int        `json:"end,omitempty" validate:"omitempty,gte=0"`
	StartCoord *LatLngJSON `json:"start_coord,omitempty"`
	EndCoord   *LatLngJSON `json:"end_coord,omitempty"`

	HeuristicCoeff  float64 `json:"heuristic_coeff" validate:"gte=0"`
	EdgeWeightCoeff float64 `json:"edge_weight_coeff" validate:"gte=0"`
	Seed            uint64  `json:"seed"`
	Verify          bool    `json:"verify"`
	Frontier        string  `json:"frontier" validate:"omitempty,oneof=linear heap"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	Start           int          `json:"start"`
	End             int          `json:"end"`
	Path            []int        `json:"path"`
	TotalCost       float64      `json:"total_cost"`
	ExpandedNodes   int          `json:"expanded_nodes"`
	Coordinates     []LatLngJSON `json:"coordinates,omitempty"`
	StartSnapMeters float64      `json:"start_snap_meters,omitempty"`
	EndSnapMeters   float64      `json:"end_snap_meters,omitempty"`
	OptimalCost     *float64     `json:"optimal_cost,omitempty"`
}

// BatchRequest is the JSON body for POST /api/v1/route/batch.
type BatchRequest struct {
	Queries []RouteRequest `json:"queries" validate:"required,min=1,dive"`
}

// BatchResult is one entry of a BatchResponse: a route or an error code.
type BatchResult struct {
	Route *RouteResponse `json:"route,omitempty"`
	Error string         `json:"error,omitempty"`
	Field string         `json:"field,omitempty"`
}

// BatchResponse is the JSON response for POST /api/v1/route/batch, in
// request order.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes       int  `json:"num_nodes"`
	NumEdges       int  `json:"num_edges"`
	MaxNodes       int  `json:"max_nodes"`
	HasCoordinates bool `json:"has_coordinates"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
