package algorithms

import (
	"container/heap"
	"sort"

	"github.com/dd0wney/netprop/pkg/network"
)

// RankedNode is one entry of a score ranking.
type RankedNode struct {
	Index int
	ID    string
	Score float64
	Rank  int // 1-based
}

// ahead reports whether node a (score sa) ranks before node b (score sb):
// score descending, then identifier ascending. Index order is identifier order.
func ahead(a int, sa float64, b int, sb float64) bool {
	if sa != sb {
		return sa > sb
	}
	return a < b
}

// rank orders every node of net by scores.
func rank(net *network.Network, scores []float64) []RankedNode {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		return ahead(a, scores[a], b, scores[b])
	})
	out := make([]RankedNode, len(order))
	for r, idx := range order {
		out[r] = RankedNode{Index: idx, ID: net.ID(idx), Score: scores[idx], Rank: r + 1}
	}
	return out
}

// rankedNodeHeap keeps the n best entries with the weakest one at the root.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	return ahead(h[j].Index, h[j].Score, h[i].Index, h[i].Score)
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// top returns the n best nodes in ranking order in O(len(scores) log n).
func top(net *network.Network, scores []float64, n int) []RankedNode {
	if n <= 0 {
		return nil
	}
	if n >= len(scores) {
		return rank(net, scores)
	}

	h := make(rankedNodeHeap, 0, n)
	for idx, score := range scores {
		if h.Len() < n {
			heap.Push(&h, RankedNode{Index: idx, Score: score})
		} else if ahead(idx, score, h[0].Index, h[0].Score) {
			h[0] = RankedNode{Index: idx, Score: score}
			heap.Fix(&h, 0)
		}
	}

	out := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		rn := heap.Pop(&h).(RankedNode)
		rn.ID = net.ID(rn.Index)
		rn.Rank = i + 1
		out[i] = rn
	}
	return out
}
