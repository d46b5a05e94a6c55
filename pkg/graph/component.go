package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []byte
	size   []int
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in x's set.
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}

// Largest returns the members of the largest set in ascending order. Ties go
// to the set containing the lowest element.
func (uf *UnionFind) Largest() []int {
	n := len(uf.parent)
	if n == 0 {
		return nil
	}

	bestRoot, bestSize := 0, 0
	for i := 0; i < n; i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	members := make([]int, 0, bestSize)
	for i := 0; i < n; i++ {
		if uf.Find(i) == bestRoot {
			members = append(members, i)
		}
	}
	return members
}

// Components groups the nodes of g into weakly connected components, treating
// every edge as undirected.
func Components(g *Graph) *UnionFind {
	uf := NewUnionFind(g.NumNodes)
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			if g.Adjacency[i][j] != 0 {
				uf.Union(i, j)
			}
		}
	}
	return uf
}

// Connected reports whether a and b share a weakly connected component.
// A false result proves b is unreachable from a; true proves nothing about
// edge direction.
func Connected(g *Graph, a, b int) bool {
	uf := Components(g)
	return uf.Find(a) == uf.Find(b)
}
