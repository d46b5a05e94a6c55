package config

import (
	"fmt"

	"astar_router/pkg/graph"
	"astar_router/pkg/uncertainty"
)

// Output formats accepted by Arguments.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Arguments are the inputs of one command-line search.
type Arguments struct {
	InputFile string `validate:"required"`
	// NodeCount is the number of nodes to read; 0 infers it from the input.
	NodeCount       int     `validate:"gte=0"`
	Start           int     `validate:"gte=0"`
	End             int     `validate:"gte=0"`
	HeuristicCoeff  float64 `validate:"gte=0"`
	EdgeWeightCoeff float64 `validate:"gte=0"`
	Seed            uint64
	Format          string `validate:"oneof=text json yaml"`
	Verify          bool
	Trace           bool
	Heap            bool
}

// DefaultArguments returns the defaults of the command-line program.
func DefaultArguments() Arguments {
	return Arguments{
		InputFile:       "input.csv",
		NodeCount:       6,
		Start:           0,
		End:             5,
		HeuristicCoeff:  0.1,
		EdgeWeightCoeff: 0.05,
		Format:          FormatText,
	}
}

// Validate checks the arguments before any input is read. A zero NodeCount
// defers the node range checks to CheckNodeCount.
func (a *Arguments) Validate() error {
	if err := Struct(a); err != nil {
		return err
	}
	if a.NodeCount == 0 {
		return nil
	}
	return a.CheckNodeCount(a.NodeCount)
}

// CheckNodeCount checks n and the start/end indices against it.
func (a *Arguments) CheckNodeCount(n int) error {
	var messages []string
	if n < 2 {
		messages = append(messages, fmt.Sprintf("node_count must be at least 2 (got: %d)", n))
	}
	if n > graph.MaxNodes {
		messages = append(messages, fmt.Sprintf("node_count must be at most %d (got: %d)", graph.MaxNodes, n))
	}
	if a.Start >= n {
		messages = append(messages, fmt.Sprintf("start must be less than node_count %d (got: %d)", n, a.Start))
	}
	if a.End >= n {
		messages = append(messages, fmt.Sprintf("end must be less than node_count %d (got: %d)", n, a.End))
	}
	if len(messages) > 0 {
		return failed(messages)
	}
	return nil
}

// Coefficients returns the perturbation coefficients.
func (a *Arguments) Coefficients() uncertainty.Coefficients {
	return uncertainty.Coefficients{Heuristic: a.HeuristicCoeff, EdgeWeight: a.EdgeWeightCoeff}
}
