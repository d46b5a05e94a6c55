package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"astar_router/pkg/config"
)

const requestIDHeader = "X-Request-ID"

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg config.Server, handlers *Handlers) *http.Server {
	mux := http.NewServeMux()

	// Concurrency limiter.
	sem := make(chan struct{}, cfg.MaxConcurrent)

	// Global token bucket; nil when disabled.
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	m := middleware{cfg: cfg, sem: sem, limiter: limiter}

	// Routes.
	mux.HandleFunc("POST /api/v1/route", m.wrap("/api/v1/route", handlers.HandleRoute))
	mux.HandleFunc("POST /api/v1/route/batch", m.wrap("/api/v1/route/batch", handlers.HandleBatch))
	mux.HandleFunc("GET /api/v1/health", m.wrap("/api/v1/health", handlers.HandleHealth))
	mux.HandleFunc("GET /api/v1/stats", m.wrap("/api/v1/stats", handlers.HandleStats))
	mux.Handle("GET /metrics", promhttp.Handler())

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts the server and blocks until shutdown signal.
func ListenAndServe(srv *http.Server) error {
	// Graceful shutdown on SIGTERM/SIGINT.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

type middleware struct {
	cfg     config.Server
	sem     chan struct{}
	limiter *rate.Limiter
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// wrap adds security headers, CORS, a request ID, rate and concurrency
// limiting, recovery, a request timeout, metrics and an access log line.
func (m middleware) wrap(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Security headers.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		// CORS.
		if m.cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", m.cfg.CORSOrigin)
		}

		reqID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			elapsed := time.Since(start)
			httpRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
			log.Printf("%s %s %d %s id=%s", r.Method, r.URL.Path, rec.status, elapsed.Round(time.Microsecond), reqID)
		}()

		// Rate limiter.
		if m.limiter != nil && !m.limiter.Allow() {
			rateLimitedTotal.Inc()
			rec.Header().Set("Retry-After", "1")
			writeError(rec, http.StatusTooManyRequests, "rate_limited", "")
			return
		}

		// Concurrency limiter.
		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		default:
			rec.Header().Set("Retry-After", "1")
			writeError(rec, http.StatusServiceUnavailable, "service_unavailable", "")
			return
		}

		// Recovery.
		defer func() {
			if p := recover(); p != nil {
				log.Printf("panic: %v id=%s", p, reqID)
				writeError(rec, http.StatusInternalServerError, "internal_error", "")
			}
		}()

		// Request timeout.
		ctx, cancel := context.WithTimeout(r.Context(), m.cfg.RequestTimeout)
		defer cancel()

		handler(rec, r.WithContext(ctx))
	}
}
