package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server is the configuration of the HTTP server.
type Server struct {
	Addr       string `mapstructure:"addr" validate:"required"`
	GraphPath  string `mapstructure:"graph" validate:"required"`
	CORSOrigin string `mapstructure:"cors_origin"`

	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	MaxConcurrent  int           `mapstructure:"max_concurrent" validate:"min=1"`

	// RateLimit is requests per second across all clients; 0 disables it.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`

	BatchWorkers  int     `mapstructure:"batch_workers" validate:"min=1"`
	MaxBatch      int     `mapstructure:"max_batch" validate:"min=1"`
	MaxSnapMeters float64 `mapstructure:"max_snap_meters" validate:"gt=0"`
	// StraightLineHeuristic replaces the stored heuristic with great-circle
	// distance to each query's end node on graphs with coordinates.
	StraightLineHeuristic bool `mapstructure:"straight_line_heuristic"`
}

// DefaultServer returns the server defaults.
func DefaultServer() Server {
	return Server{
		Addr:           ":8080",
		GraphPath:      "graph.bin",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
		RateLimit:      0,
		RateBurst:      20,
		BatchWorkers:   runtime.NumCPU(),
		MaxBatch:       100,
		MaxSnapMeters:  500,
	}
}

// LoadServer reads the server configuration. Values come from the defaults,
// then the YAML file at path (skipped when path is empty), then ASTAR_*
// environment variables such as ASTAR_GRAPH or ASTAR_RATE_LIMIT.
func LoadServer(path string) (*Server, error) {
	v := viper.New()

	d := DefaultServer()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("graph", d.GraphPath)
	v.SetDefault("cors_origin", d.CORSOrigin)
	v.SetDefault("read_timeout", d.ReadTimeout)
	v.SetDefault("write_timeout", d.WriteTimeout)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("max_concurrent", d.MaxConcurrent)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_burst", d.RateBurst)
	v.SetDefault("batch_workers", d.BatchWorkers)
	v.SetDefault("max_batch", d.MaxBatch)
	v.SetDefault("max_snap_meters", d.MaxSnapMeters)
	v.SetDefault("straight_line_heuristic", d.StraightLineHeuristic)

	v.SetEnvPrefix("ASTAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (s *Server) Validate() error {
	return Struct(s)
}
