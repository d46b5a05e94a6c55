package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"astar_router/pkg/graph"
	osmparser "astar_router/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm or .osm.pbf file")
	output := flag.String("output", "graph.bin", "Output graph file (.bin or .csv)")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.2995,103.8450,1.3010,103.8470)")
	profile := flag.String("profile", "car", "Routing profile: car or foot")
	heuristicEnd := flag.Int("heuristic-end", -1, "Store straight-line distances to this node as the heuristic (-1 = zero heuristic)")
	idsPath := flag.String("ids", "", "Optional CSV file mapping node index to OSM node ID and coordinates")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess -input <file.osm|file.osm.pbf> [-output graph.bin] [-bbox minLat,minLng,maxLat,maxLng] [-profile car|foot] [-heuristic-end N] [-ids ids.csv]")
		os.Exit(1)
	}

	p, err := osmparser.ProfileByName(*profile)
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}
	opts := osmparser.ParseOptions{
		Format:  osmparser.FormatFromPath(*input),
		Profile: p,
	}
	if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		_, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng)
		if err != nil {
			log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	start := time.Now()

	// Step 1: Parse OSM data.
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	log.Printf("Parsing OSM data (%s profile)...", p.Name)
	parseResult, err := osmparser.Parse(context.Background(), f, opts)
	if err != nil {
		log.Fatalf("Failed to parse OSM data: %v", err)
	}
	log.Printf("Parsed %d edges, %d nodes", len(parseResult.Edges), len(parseResult.NodeLat))

	// Step 2: Build the dense graph from the largest connected component.
	built, err := graph.Build(parseResult)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	g := built.Graph
	log.Printf("Graph: %d nodes, %d edges (%d nodes outside the largest component dropped)",
		g.NumNodes, g.NumEdges(), built.Dropped)

	// Step 3: Heuristic.
	if *heuristicEnd >= 0 {
		if err := g.SetStraightLineHeuristic(*heuristicEnd); err != nil {
			log.Fatalf("Failed to set heuristic: %v", err)
		}
		log.Printf("Heuristic: straight-line distance to node %d", *heuristicEnd)
	}

	// Step 4: Write.
	log.Printf("Writing graph to %s...", *output)
	if err := graph.Save(*output, g); err != nil {
		log.Fatalf("Failed to write graph: %v", err)
	}
	if *idsPath != "" {
		if err := writeIDs(*idsPath, built); err != nil {
			log.Fatalf("Failed to write node IDs: %v", err)
		}
	}

	info, _ := os.Stat(*output)
	log.Printf("Done in %s. Output: %s (%d bytes)", time.Since(start).Round(time.Millisecond), *output, info.Size())
}

// writeIDs writes one "index,osm_id,lat,lon" row per graph node.
func writeIDs(path string, built *graph.BuildResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"index", "osm_id", "lat", "lon"}); err != nil {
		return err
	}
	g := built.Graph
	for i, id := range built.NodeIDs {
		err := w.Write([]string{
			strconv.Itoa(i),
			strconv.FormatInt(int64(id), 10),
			strconv.FormatFloat(g.NodeLat[i], 'f', -1, 64),
			strconv.FormatFloat(g.NodeLon[i], 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
