package pcst

// UnionFind is a disjoint-set structure over integer-indexed cluster records,
// used for fast membership queries during the growth phase
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind creates a union-find over n singleton sets
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &UnionFind{
		parent: parent,
		rank:   rank,
	}
}

// Find returns the root of the set containing x, with path compression
func (u *UnionFind) Find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// Union merges the sets containing a and b and returns the new root.
// Merging a set with itself returns its root unchanged.
func (u *UnionFind) Union(a, b int) int {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return ra
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
	return ra
}

// Connected reports whether a and b are in the same set
func (u *UnionFind) Connected(a, b int) bool {
	return u.Find(a) == u.Find(b)
}
