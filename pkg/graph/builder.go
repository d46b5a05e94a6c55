package graph

import (
	"fmt"
	"sort"

	"github.com/paulmach/osm"

	osmparser "astar_router/pkg/osm"
)

// BuildResult is a dense graph built from OSM edges plus the OSM node ID of
// every graph node.
type BuildResult struct {
	Graph   *Graph
	NodeIDs []osm.NodeID // NodeIDs[i] is the OSM ID of graph node i
	// Dropped counts nodes outside the largest connected component.
	Dropped int
}

// Build creates a dense Graph from parsed OSM edges. Only the largest weakly
// connected component is kept; if it still has more than MaxNodes nodes the
// extract is too large and ErrTooManyNodes is returned. Parallel edges keep the
// cheapest weight. Heuristics are left at zero.
func Build(result *osmparser.ParseResult) (*BuildResult, error) {
	edges := result.Edges
	if len(edges) == 0 {
		return nil, fmt.Errorf("%w: extract has no usable edges", ErrTooFewNodes)
	}

	// Compact index per OSM node, in ascending ID order so builds are stable.
	var nodeIDs []osm.NodeID
	seen := make(map[osm.NodeID]bool)
	for _, e := range edges {
		for _, id := range [2]osm.NodeID{e.FromNodeID, e.ToNodeID} {
			if !seen[id] {
				seen[id] = true
				nodeIDs = append(nodeIDs, id)
			}
		}
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	index := make(map[osm.NodeID]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}

	uf := NewUnionFind(len(nodeIDs))
	for _, e := range edges {
		uf.Union(index[e.FromNodeID], index[e.ToNodeID])
	}
	component := uf.Largest()

	if len(component) > MaxNodes {
		return nil, fmt.Errorf("%w: largest component has %d nodes (maximum %d); use a smaller bounding box",
			ErrTooManyNodes, len(component), MaxNodes)
	}

	g, err := New(len(component))
	if err != nil {
		return nil, err
	}

	oldToNew := make(map[int]int, len(component))
	keptIDs := make([]osm.NodeID, len(component))
	g.NodeLat = make([]float64, len(component))
	g.NodeLon = make([]float64, len(component))
	for newIdx, oldIdx := range component {
		oldToNew[oldIdx] = newIdx
		id := nodeIDs[oldIdx]
		keptIDs[newIdx] = id
		g.NodeLat[newIdx] = result.NodeLat[id]
		g.NodeLon[newIdx] = result.NodeLon[id]
	}

	for _, e := range edges {
		u, okU := oldToNew[index[e.FromNodeID]]
		v, okV := oldToNew[index[e.ToNodeID]]
		if !okU || !okV || u == v {
			continue
		}
		if cur := g.Adjacency[u][v]; cur == 0 || e.Weight < cur {
			g.Adjacency[u][v] = e.Weight
		}
	}

	return &BuildResult{
		Graph:   g,
		NodeIDs: keptIDs,
		Dropped: len(nodeIDs) - len(component),
	}, nil
}
