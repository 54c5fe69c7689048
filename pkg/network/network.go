// Package network holds the immutable protein-protein interaction graph used
// by the propagation engines, and the loaders that build it from edge tables.
//
// Nodes live in an index arena: identifiers are sorted once at build time and
// mapped to dense indices, so ascending index order is ascending identifier
// order. Adjacency is stored CSR-style with neighbours sorted by index.
package network

import (
	"sort"
)

// Network is an undirected weighted graph without self-loops or parallel
// edges. It is safe for concurrent readers; nothing mutates it after Build.
type Network struct {
	ids      []string
	index    map[string]int
	offsets  []int // len(ids)+1, neighbours of i are adj[offsets[i]:offsets[i+1]]
	adj      []int
	weights  []float64
	strength []float64
	active   int
	edges    int
}

// Len returns the number of nodes, isolated ones included.
func (n *Network) Len() int { return len(n.ids) }

// ActiveLen returns the number of nodes with at least one edge.
func (n *Network) ActiveLen() int { return n.active }

// EdgeCount returns the number of undirected edges.
func (n *Network) EdgeCount() int { return n.edges }

// ID returns the identifier of node i.
func (n *Network) ID(i int) string { return n.ids[i] }

// IDs returns all identifiers in index (ascending) order. The slice is shared.
func (n *Network) IDs() []string { return n.ids }

// Index returns the dense index of id.
func (n *Network) Index(id string) (int, bool) {
	i, ok := n.index[id]
	return i, ok
}

// Degree returns the number of neighbours of node i.
func (n *Network) Degree(i int) int { return n.offsets[i+1] - n.offsets[i] }

// Strength returns the summed edge weight of node i.
func (n *Network) Strength(i int) float64 { return n.strength[i] }

// Active reports whether node i has at least one edge and so takes part in propagation.
func (n *Network) Active(i int) bool { return n.Degree(i) > 0 }

// Neighbors returns the neighbour indices of node i in ascending order.
// The returned slice aliases internal storage and must not be modified.
func (n *Network) Neighbors(i int) []int {
	return n.adj[n.offsets[i]:n.offsets[i+1]]
}

// Weights returns the edge weights parallel to Neighbors(i).
func (n *Network) Weights(i int) []float64 {
	return n.weights[n.offsets[i]:n.offsets[i+1]]
}

// Weight returns the weight of edge a-b.
func (n *Network) Weight(a, b int) (float64, bool) {
	nb := n.Neighbors(a)
	k := sort.SearchInts(nb, b)
	if k < len(nb) && nb[k] == b {
		return n.Weights(a)[k], true
	}
	return 0, false
}

// HasEdge reports whether a and b are adjacent.
func (n *Network) HasEdge(a, b int) bool {
	_, ok := n.Weight(a, b)
	return ok
}

// Edge is one undirected edge with A < B by index.
type Edge struct {
	A, B   int
	Weight float64
}

// Edges calls fn once per undirected edge in ascending (A, B) order.
func (n *Network) Edges(fn func(e Edge)) {
	for a := range n.ids {
		w := n.Weights(a)
		for k, b := range n.Neighbors(a) {
			if b > a {
				fn(Edge{A: a, B: b, Weight: w[k]})
			}
		}
	}
}
