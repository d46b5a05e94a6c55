package main

import (
	"flag"
	"log"
	"os"
	"time"

	"astar_router/pkg/api"
	"astar_router/pkg/config"
	"astar_router/pkg/graph"
	"astar_router/pkg/routing"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	graphPath := flag.String("graph", "", "Path to graph file, .bin or .csv (overrides config)")
	addr := flag.String("addr", "", "Listen address, e.g. :8080 (overrides config)")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (overrides config; empty = same-origin)")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Only flags given on the command line override the file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "graph":
			cfg.GraphPath = *graphPath
		case "addr":
			cfg.Addr = *addr
		case "cors-origin":
			cfg.CORSOrigin = *corsOrigin
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	start := time.Now()

	log.Printf("Loading graph from %s...", cfg.GraphPath)
	g, err := graph.Load(cfg.GraphPath, 0)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges, coordinates=%t", g.NumNodes, g.NumEdges(), g.HasCoordinates())

	if cfg.StraightLineHeuristic && !g.HasCoordinates() {
		log.Println("WARNING: straight_line_heuristic set but the graph has no coordinates; using stored heuristics")
	}

	engine := routing.NewEngine(g, routing.Options{
		MaxSnapMeters:         cfg.MaxSnapMeters,
		StraightLineHeuristic: cfg.StraightLineHeuristic,
	})
	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	handlers := api.NewHandlers(engine, api.StatsFor(g), cfg.BatchWorkers, cfg.MaxBatch)
	srv := api.NewServer(*cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
