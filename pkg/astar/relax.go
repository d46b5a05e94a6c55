package astar

import "astar_router/pkg/graph"

// relax examines every edge node→j to an unvisited j and lowers j's cost
// when going through node is strictly cheaper. It returns how many
// neighbours improved. Only neighbour entries are written.
func relax(g *graph.Graph, s *State, fr frontier, node int) int {
	cost := s.entries[node].BestCost
	row := &g.Adjacency[node]
	improved := 0
	for j := 0; j < s.n; j++ {
		w := row[j]
		if w == 0 || j == node {
			continue
		}
		e := &s.entries[j]
		if e.Visited {
			continue
		}
		candidate := cost + w
		if candidate < e.BestCost {
			e.BestCost = candidate
			e.Previous = From(node)
			e.EstimatedTotalCost = candidate + g.Heuristic[j]
			fr.decreased(s, j)
			improved++
		}
	}
	return improved
}
