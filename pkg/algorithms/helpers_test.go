package algorithms

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/dd0wney/netprop/pkg/network"
)

// buildNetwork creates a network from "A B w" triples.
func buildNetwork(t testing.TB, edges ...string) *network.Network {
	t.Helper()
	return buildNetworkMinScore(t, 0, edges...)
}

func buildNetworkMinScore(t testing.TB, minScore float64, edges ...string) *network.Network {
	t.Helper()
	net, _, err := network.Parse(strings.NewReader(strings.Join(edges, "\n")), network.LoadOptions{
		Format:    network.FormatSTRING,
		Delimiter: ' ',
		MinScore:  minScore,
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return net
}

func indices(t testing.TB, net *network.Network, ids ...string) []int {
	t.Helper()
	out := make([]int, len(ids))
	for i, id := range ids {
		idx, ok := net.Index(id)
		if !ok {
			t.Fatalf("node %s not in network", id)
		}
		out[i] = idx
	}
	return out
}

// randomNetwork builds a sparse random graph over n nodes with about m edges.
// Identifiers are zero padded so index order matches creation order.
func randomNetwork(rng *rand.Rand, n, m int) *network.Network {
	b := network.NewBuilder()
	for i := 0; i < m; i++ {
		u, v := rng.IntN(n), rng.IntN(n)
		if u == v {
			continue
		}
		b.AddEdge(fmt.Sprintf("G%05d", u), fmt.Sprintf("G%05d", v), 1+rng.Float64()*999)
	}
	// guarantee at least one edge
	b.AddEdge("G00000", "G00001", 500)
	return b.Build()
}

// randomSeeds picks up to k distinct active nodes.
func randomSeeds(rng *rand.Rand, net *network.Network, k int) []int {
	var active []int
	for i := 0; i < net.Len(); i++ {
		if net.Active(i) {
			active = append(active, i)
		}
	}
	rng.Shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })
	return active[:min(k, len(active))]
}
