// Command visualize runs the linear and heap A* frontiers and the Dijkstra
// reference side by side on one graph and draws the result, either as a
// coloured adjacency matrix on the terminal or as Graphviz DOT.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"astar_router/pkg/astar"
	"astar_router/pkg/graph"
	"astar_router/pkg/routing"
)

type runResult struct {
	Name     string
	Path     []int
	Cost     float64
	Expanded int
	Visited  []bool
	Latency  time.Duration
	Err      error
}

func main() {
	input := flag.String("i", "input.csv", "Graph file (.csv or .bin)")
	nodes := flag.Int("n", 0, "Number of nodes to read from a CSV file (0 = infer)")
	start := flag.Int("s", 0, "Start node")
	end := flag.Int("e", 5, "End node")
	dot := flag.Bool("dot", false, "Write Graphviz DOT instead of the terminal view")
	noColor := flag.Bool("no-color", false, "Disable colour output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	g, err := graph.Load(*input, *nodes)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	if err := g.CheckNode(*start); err != nil {
		log.Fatalf("Invalid start: %v", err)
	}
	if err := g.CheckNode(*end); err != nil {
		log.Fatalf("Invalid end: %v", err)
	}

	results := compare(g, *start, *end)

	if *dot {
		writeDOT(os.Stdout, g, results[0].Path)
		return
	}
	writeSummary(os.Stdout, results)
	fmt.Println()
	writeMatrix(os.Stdout, g, results[0].Path, results[0].Visited)
}

// compare runs every method concurrently. results[0] is the linear A* run.
func compare(g *graph.Graph, start, end int) []runResult {
	results := make([]runResult, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		results[0] = runAStar(g, start, end, astar.LinearFrontier)
	}()

	go func() {
		defer wg.Done()
		results[1] = runAStar(g, start, end, astar.HeapFrontier)
	}()

	go func() {
		defer wg.Done()
		results[2] = runReference(g, start, end)
	}()

	wg.Wait()
	return results
}

func runAStar(g *graph.Graph, start, end int, kind astar.FrontierKind) runResult {
	t := time.Now()
	res := runResult{Name: "astar/" + kind.String()}

	eng, err := astar.NewEngine(g, start, end, astar.WithFrontier(kind))
	if err != nil {
		res.Err = err
		return res
	}
	out, err := eng.Run()
	res.Latency = time.Since(t)
	if err != nil {
		res.Err = err
		return res
	}

	res.Path, res.Cost, res.Expanded = out.Path, out.Cost, out.Expanded
	state := eng.State()
	res.Visited = make([]bool, g.NumNodes)
	for i := range res.Visited {
		res.Visited[i] = state.Entry(i).Visited
	}
	return res
}

func runReference(g *graph.Graph, start, end int) runResult {
	t := time.Now()
	costs := routing.ShortestCosts(g, start)
	return runResult{
		Name:     "dijkstra",
		Cost:     costs[end],
		Expanded: -1,
		Latency:  time.Since(t),
	}
}

func writeSummary(w io.Writer, results []runResult) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%-14s %12s %9s %10s  %s\n", "METHOD", "COST", "EXPANDED", "LATENCY", "PATH")
	for _, r := range results {
		if r.Err != nil {
			color.New(color.FgRed).Fprintf(w, "%-14s error: %v\n", r.Name, r.Err)
			continue
		}
		expanded := "-"
		if r.Expanded >= 0 {
			expanded = fmt.Sprint(r.Expanded)
		}
		cost := "unreachable"
		if !math.IsInf(r.Cost, 1) {
			cost = fmt.Sprintf("%.6g", r.Cost)
		}
		fmt.Fprintf(w, "%-14s %12s %9s %10s  %s\n", r.Name, cost, expanded, r.Latency.Round(time.Microsecond), joinPath(r.Path))
	}
}

func joinPath(path []int) string {
	if len(path) == 0 {
		return "-"
	}
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "->")
}

// pathEdges returns the set of (from, to) pairs along path.
func pathEdges(path []int) map[[2]int]bool {
	edges := make(map[[2]int]bool, len(path))
	for i := 0; i+1 < len(path); i++ {
		edges[[2]int{path[i], path[i+1]}] = true
	}
	return edges
}

// writeMatrix prints the adjacency matrix. Path edges are highlighted, nodes
// the search expanded are marked with '*' in the row header.
func writeMatrix(w io.Writer, g *graph.Graph, path []int, visited []bool) {
	onPath := pathEdges(path)
	highlight := color.New(color.FgGreen, color.Bold)
	absent := color.New(color.Faint)
	header := color.New(color.FgCyan)

	fmt.Fprintf(w, "%5s", "")
	for j := 0; j < g.NumNodes; j++ {
		header.Fprintf(w, " %7d", j)
	}
	fmt.Fprintln(w)

	for i := 0; i < g.NumNodes; i++ {
		mark := " "
		if i < len(visited) && visited[i] {
			mark = "*"
		}
		header.Fprintf(w, "%s%4d", mark, i)
		for j := 0; j < g.NumNodes; j++ {
			wt := g.Weight(i, j)
			switch {
			case onPath[[2]int{i, j}]:
				highlight.Fprintf(w, " %7.4g", wt)
			case wt == 0:
				absent.Fprintf(w, " %7s", ".")
			default:
				fmt.Fprintf(w, " %7.4g", wt)
			}
		}
		fmt.Fprintln(w)
	}
}

// writeDOT writes g as a Graphviz digraph with the path drawn in red.
func writeDOT(w io.Writer, g *graph.Graph, path []int) {
	onPath := pathEdges(path)
	inPath := make(map[int]bool, len(path))
	for _, n := range path {
		inPath[n] = true
	}

	fmt.Fprintln(w, "digraph astar {")
	fmt.Fprintln(w, "  node [shape=circle];")
	for i := 0; i < g.NumNodes; i++ {
		attrs := fmt.Sprintf("label=\"%d\\nh=%g\"", i, g.Heuristic[i])
		if inPath[i] {
			attrs += ", color=red"
		}
		fmt.Fprintf(w, "  n%d [%s];\n", i, attrs)
	}
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			wt := g.Weight(i, j)
			if wt == 0 || i == j {
				continue
			}
			attrs := fmt.Sprintf("label=\"%g\"", wt)
			if onPath[[2]int{i, j}] {
				attrs += ", color=red, penwidth=2"
			}
			fmt.Fprintf(w, "  n%d -> n%d [%s];\n", i, j, attrs)
		}
	}
	fmt.Fprintln(w, "}")
}
