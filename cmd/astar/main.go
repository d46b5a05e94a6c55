// Command astar finds the lowest-cost path between two nodes of a graph read
// from a CSV (or binary) file, optionally perturbing weights and heuristics
// with Gaussian noise first.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"astar_router/pkg/astar"
	"astar_router/pkg/config"
	"astar_router/pkg/graph"
	"astar_router/pkg/routing"
	"astar_router/pkg/uncertainty"
)

const (
	exitOK          = 0
	exitError       = 1
	exitUnreachable = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// report is the machine-readable result for -format json|yaml.
type report struct {
	Start         int                      `json:"start" yaml:"start"`
	End           int                      `json:"end" yaml:"end"`
	Status        astar.Status             `json:"status" yaml:"status"`
	Path          []int                    `json:"path,omitempty" yaml:"path,omitempty"`
	TotalCost     *float64                 `json:"total_cost,omitempty" yaml:"total_cost,omitempty"`
	ExpandedNodes int                      `json:"expanded_nodes" yaml:"expanded_nodes"`
	Frontier      string                   `json:"frontier" yaml:"frontier"`
	Uncertainty   uncertainty.Coefficients `json:"uncertainty" yaml:"uncertainty"`
	Seed          uint64                   `json:"seed,omitempty" yaml:"seed,omitempty"`
	OptimalCost   *float64                 `json:"optimal_cost,omitempty" yaml:"optimal_cost,omitempty"`
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Example implementing the A* search algorithm.

Usage is:
astar [-i file] [-n number of nodes] [-s start node] [-e end node] [-f heuristic uncertainty] [-w edge uncertainty] [-h]

-i file: path to input data CSV file, or a .bin graph. (Default: "input.csv")

-n number of nodes: number of nodes/vertices in the graph, 0 to infer from the file. (Default: 6)

-s start node: index of start node (zero indexed). (Default: 0)

-e end node: index of destination node (zero indexed). (Default: 5)

-f heuristic standard deviation coefficient: add Gaussian noise proportional to the heuristic value. (Default: 0.1)

-w edge weight standard deviation coefficient: add Gaussian noise proportional to the edge weight. (Default: 0.05)

-seed n: random seed for the noise, 0 for a time-based seed. (Default: 0)

-format text|json|yaml: output format. (Default: text)

-verify: also compute the optimal cost with Dijkstra and report the gap.

-trace: print every search step.

-heap: use the heap frontier instead of the linear scan.

-h: display this help message.

`)
}

func run(argv []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)

	args := config.DefaultArguments()
	fs := flag.NewFlagSet("astar", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&args.InputFile, "i", args.InputFile, "input file")
	fs.IntVar(&args.NodeCount, "n", args.NodeCount, "number of nodes")
	fs.IntVar(&args.Start, "s", args.Start, "start node")
	fs.IntVar(&args.End, "e", args.End, "end node")
	fs.Float64Var(&args.HeuristicCoeff, "f", args.HeuristicCoeff, "heuristic standard deviation coefficient")
	fs.Float64Var(&args.EdgeWeightCoeff, "w", args.EdgeWeightCoeff, "edge weight standard deviation coefficient")
	fs.Uint64Var(&args.Seed, "seed", 0, "random seed")
	fs.StringVar(&args.Format, "format", args.Format, "output format")
	fs.BoolVar(&args.Verify, "verify", false, "verify against Dijkstra")
	fs.BoolVar(&args.Trace, "trace", false, "print every step")
	fs.BoolVar(&args.Heap, "heap", false, "use the heap frontier")
	help := fs.Bool("h", false, "display help")

	if err := fs.Parse(argv); err != nil {
		logger.Printf("Error: %v", err)
		usage(stderr)
		return exitError
	}
	if *help {
		usage(stdout)
		return exitOK
	}
	if err := args.Validate(); err != nil {
		logger.Printf("Error: %v", err)
		return exitError
	}

	g, err := graph.Load(args.InputFile, args.NodeCount)
	if err != nil {
		logger.Printf("Error: failed to load graph: %v", err)
		return exitError
	}
	if args.NodeCount != 0 && g.NumNodes != args.NodeCount {
		logger.Printf("Error: %s has %d nodes, expected %d", args.InputFile, g.NumNodes, args.NodeCount)
		return exitError
	}
	if err := args.CheckNodeCount(g.NumNodes); err != nil {
		logger.Printf("Error: %v", err)
		return exitError
	}

	coeffs := args.Coefficients()
	if coeffs.Enabled() {
		if args.Seed == 0 {
			args.Seed = uint64(time.Now().UnixNano())
		}
		uncertainty.Apply(g, coeffs, uncertainty.Gaussian(uncertainty.NewSource(args.Seed)))
	}

	opts := []astar.Option{}
	kind := astar.LinearFrontier
	if args.Heap {
		kind = astar.HeapFrontier
	}
	opts = append(opts, astar.WithFrontier(kind))
	if args.Trace {
		opts = append(opts, astar.WithObserver(func(ev astar.StepEvent) {
			printStep(stdout, ev)
		}))
	}

	res, err := astar.Search(g, args.Start, args.End, opts...)
	if err != nil {
		logger.Printf("Error: %v", err)
		return exitError
	}

	rep := report{
		Start:         args.Start,
		End:           args.End,
		Status:        res.Status,
		Path:          res.Path,
		ExpandedNodes: res.Expanded,
		Frontier:      kind.String(),
		Uncertainty:   coeffs,
	}
	if coeffs.Enabled() {
		rep.Seed = args.Seed
	}
	if res.Found() {
		rep.TotalCost = &res.Cost
	}
	if args.Verify {
		if opt := routing.ShortestCosts(g, args.Start)[args.End]; res.Found() {
			rep.OptimalCost = &opt
		}
	}

	if err := writeReport(stdout, args.Format, rep); err != nil {
		logger.Printf("Error: %v", err)
		return exitError
	}
	if !res.Found() {
		return exitUnreachable
	}
	return exitOK
}

func printStep(w io.Writer, ev astar.StepEvent) {
	if ev.Node < 0 {
		fmt.Fprintf(w, "step %d: frontier empty\n", ev.Step)
		return
	}
	fmt.Fprintf(w, "step %d: expand %d (g=%g f=%g), improved %d\n",
		ev.Step, ev.Node, ev.BestCost, ev.Estimate, ev.Improved)
}

func writeReport(w io.Writer, format string, rep report) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatText:
		return writeText(w, rep)
	default:
		return errors.New("unknown format " + format)
	}
}

func writeText(w io.Writer, rep report) error {
	if rep.Status != astar.StatusFound {
		_, err := fmt.Fprintf(w, "No path from vertex %d to vertex %d.\n", rep.Start, rep.End)
		return err
	}

	nodes := make([]string, len(rep.Path))
	for i, n := range rep.Path {
		nodes[i] = fmt.Sprint(n)
	}
	fmt.Fprintf(w, "Shortest path from vertex %d to vertex %d is:\n", rep.Start, rep.End)
	fmt.Fprintf(w, "%s\n\n", strings.Join(nodes, "->"))
	_, err := fmt.Fprintf(w, "Total path cost: %f\n", *rep.TotalCost)
	if err != nil || rep.OptimalCost == nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Optimal path cost: %f (gap %g)\n", *rep.OptimalCost, *rep.TotalCost-*rep.OptimalCost)
	return err
}
