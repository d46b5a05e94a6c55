package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal counts requests by route pattern and status code.
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astar_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astar_http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"route"})

	// routeQueriesTotal counts route queries by outcome.
	// Labels: "found", "no_route", "invalid", "timeout", "error"
	routeQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astar_route_queries_total",
		Help: "Route queries by outcome",
	}, []string{"result"})

	routeExpandedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "astar_route_expanded_nodes",
		Help:    "Nodes expanded per successful route query",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "astar_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)
