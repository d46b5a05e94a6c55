// Package uncertainty perturbs graph weights and heuristics to model
// measurement noise before a search runs. The search itself never sees
// anything but plain numbers.
package uncertainty

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"astar_router/pkg/graph"
)

// Perturbation maps a value and a non-negative coefficient to a perturbed
// value. It is only called with coefficient > 0.
type Perturbation func(value, coefficient float64) float64

// Identity returns value unchanged.
func Identity(value, _ float64) float64 { return value }

// Gaussian returns a Perturbation that samples from a normal distribution with
// mean value and standard deviation coefficient×|value|, drawing from src.
// The returned function is not safe for concurrent use.
func Gaussian(src rand.Source) Perturbation {
	return func(value, coefficient float64) float64 {
		normal := distuv.Normal{Mu: value, Sigma: coefficient * math.Abs(value), Src: src}
		return normal.Rand()
	}
}

// NewSource returns a PCG source seeded with seed, or with the current time
// when seed is 0.
func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Coefficients are the relative standard deviations applied to heuristics and
// to edge weights. Zero disables perturbation for that category.
type Coefficients struct {
	Heuristic  float64 `json:"heuristic" yaml:"heuristic" validate:"gte=0"`
	EdgeWeight float64 `json:"edge_weight" yaml:"edge_weight" validate:"gte=0"`
}

// Enabled reports whether either coefficient is positive.
func (c Coefficients) Enabled() bool {
	return c.Heuristic > 0 || c.EdgeWeight > 0
}

// Apply perturbs g in place. Heuristics are clamped at zero. Absent edges stay
// absent, and an existing edge never becomes absent or negative: samples at or
// below zero are clamped to the smallest positive float64.
//
// Values are visited in a fixed order (all heuristics, then the adjacency
// matrix row by row) so a seeded source reproduces the same graph.
func Apply(g *graph.Graph, c Coefficients, p Perturbation) {
	n := g.NumNodes
	if c.Heuristic > 0 {
		for i := 0; i < n; i++ {
			h := p(g.Heuristic[i], c.Heuristic)
			if h < 0 || math.IsNaN(h) {
				h = 0
			}
			g.Heuristic[i] = h
		}
	}
	if c.EdgeWeight > 0 {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				w := g.Adjacency[i][j]
				if w == 0 {
					continue
				}
				w = p(w, c.EdgeWeight)
				if !(w > 0) {
					w = math.SmallestNonzeroFloat64
				}
				g.Adjacency[i][j] = w
			}
		}
	}
}

// Perturbed returns a perturbed copy of g, leaving g untouched.
func Perturbed(g *graph.Graph, c Coefficients, p Perturbation) *graph.Graph {
	out := g.Clone()
	Apply(out, c, p)
	return out
}
