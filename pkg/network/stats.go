package network

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Stats describes the shape of a network.
type Stats struct {
	Nodes            int `yaml:"nodes"`
	Active           int `yaml:"active_nodes"`
	Isolated         int `yaml:"isolated_nodes"`
	Edges            int `yaml:"edges"`
	Components       int `yaml:"components"`
	LargestComponent int `yaml:"largest_component"`
}

// Stats counts connected components over the active nodes. Isolated nodes
// are reported separately and not counted as components.
func (n *Network) Stats() Stats {
	st := Stats{
		Nodes:    n.Len(),
		Active:   n.ActiveLen(),
		Isolated: n.Len() - n.ActiveLen(),
		Edges:    n.EdgeCount(),
	}
	if st.Active == 0 {
		return st
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < n.Len(); i++ {
		if n.Active(i) {
			g.AddNode(simple.Node(i))
		}
	}
	n.Edges(func(e Edge) {
		g.SetEdge(simple.Edge{F: simple.Node(e.A), T: simple.Node(e.B)})
	})

	comps := topo.ConnectedComponents(g)
	st.Components = len(comps)
	for _, c := range comps {
		if len(c) > st.LargestComponent {
			st.LargestComponent = len(c)
		}
	}
	return st
}

// Component returns the sorted indices of the active nodes reachable from any
// of the given start nodes.
func (n *Network) Component(starts []int) []int {
	seen := make([]bool, n.Len())
	queue := make([]int, 0, len(starts))
	for _, s := range starts {
		if s >= 0 && s < n.Len() && !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}
	for head := 0; head < len(queue); head++ {
		for _, nb := range n.Neighbors(queue[head]) {
			if !seen[nb] {
				seen[nb] = true
				queue = append(queue, nb)
			}
		}
	}
	out := make([]int, 0, len(queue))
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
