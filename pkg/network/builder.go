package network

import (
	"sort"
	"strings"
)

type pairKey struct{ a, b int }

// Builder accumulates nodes and edges and produces an immutable Network.
// Duplicate edges (same unordered pair, either orientation) are merged by
// keeping the maximum weight, so the result does not depend on row order.
type Builder struct {
	index map[string]int
	ids   []string
	edges map[pairKey]float64
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		index: make(map[string]int),
		edges: make(map[pairKey]float64),
	}
}

// AddNode registers id and returns its provisional index. Whitespace around
// the identifier is trimmed.
func (b *Builder) AddNode(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, ErrEmptyID
	}
	if i, ok := b.index[id]; ok {
		return i, nil
	}
	i := len(b.ids)
	b.ids = append(b.ids, id)
	b.index[id] = i
	return i, nil
}

// AddEdge adds the undirected edge u-v. It reports whether the pair was
// already present (and therefore merged). Self-loops are rejected with
// ErrSelfLoop without registering the node.
func (b *Builder) AddEdge(u, v string, weight float64) (merged bool, err error) {
	u, v = strings.TrimSpace(u), strings.TrimSpace(v)
	if u == "" || v == "" {
		return false, ErrEmptyID
	}
	if u == v {
		return false, ErrSelfLoop
	}
	a, _ := b.AddNode(u)
	c, _ := b.AddNode(v)
	if a > c {
		a, c = c, a
	}
	key := pairKey{a, c}
	if old, ok := b.edges[key]; ok {
		if weight > old {
			b.edges[key] = weight
		}
		return true, nil
	}
	b.edges[key] = weight
	return false, nil
}

// NodeCount returns the number of distinct identifiers seen so far.
func (b *Builder) NodeCount() int { return len(b.ids) }

// EdgeCount returns the number of distinct edges seen so far.
func (b *Builder) EdgeCount() int { return len(b.edges) }

// Build freezes the builder into a Network. Identifiers are re-indexed in
// ascending lexicographic order.
func (b *Builder) Build() *Network {
	n := len(b.ids)
	ids := make([]string, n)
	copy(ids, b.ids)
	sort.Strings(ids)

	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}
	remap := make([]int, n)
	for old, id := range b.ids {
		remap[old] = index[id]
	}

	degree := make([]int, n)
	for k := range b.edges {
		degree[remap[k.a]]++
		degree[remap[k.b]]++
	}
	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + degree[i]
	}

	adj := make([]int, offsets[n])
	weights := make([]float64, offsets[n])
	fill := make([]int, n)
	copy(fill, offsets[:n])
	for k, w := range b.edges {
		a, c := remap[k.a], remap[k.b]
		adj[fill[a]], weights[fill[a]] = c, w
		fill[a]++
		adj[fill[c]], weights[fill[c]] = a, w
		fill[c]++
	}

	net := &Network{
		ids:      ids,
		index:    index,
		offsets:  offsets,
		adj:      adj,
		weights:  weights,
		strength: make([]float64, n),
		edges:    len(b.edges),
	}
	for i := 0; i < n; i++ {
		lo, hi := offsets[i], offsets[i+1]
		sort.Sort(neighborSorter{adj: adj[lo:hi], w: weights[lo:hi]})
		if hi > lo {
			net.active++
		}
		s := 0.0
		for _, w := range weights[lo:hi] {
			s += w
		}
		net.strength[i] = s
	}
	return net
}

// neighborSorter orders one adjacency row by neighbour index, carrying weights along.
type neighborSorter struct {
	adj []int
	w   []float64
}

func (s neighborSorter) Len() int           { return len(s.adj) }
func (s neighborSorter) Less(i, j int) bool { return s.adj[i] < s.adj[j] }
func (s neighborSorter) Swap(i, j int) {
	s.adj[i], s.adj[j] = s.adj[j], s.adj[i]
	s.w[i], s.w[j] = s.w[j], s.w[i]
}
