package network

import (
	"errors"
	"testing"
)

func TestBuilder_IndexesSortedByIdentifier(t *testing.T) {
	b := NewBuilder()
	if _, err := b.AddEdge("TP53", "BRCA1", 900); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if _, err := b.AddEdge("ATM", "TP53", 700); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	net := b.Build()

	want := []string{"ATM", "BRCA1", "TP53"}
	if net.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", net.Len(), len(want))
	}
	for i, id := range want {
		if net.ID(i) != id {
			t.Errorf("ID(%d) = %s, want %s", i, net.ID(i), id)
		}
		if idx, ok := net.Index(id); !ok || idx != i {
			t.Errorf("Index(%s) = %d, %v; want %d", id, idx, ok, i)
		}
	}

	tp53, _ := net.Index("TP53")
	nb := net.Neighbors(tp53)
	if len(nb) != 2 || nb[0] != 0 || nb[1] != 1 {
		t.Errorf("Neighbors(TP53) = %v, want [0 1]", nb)
	}
	if net.Strength(tp53) != 1600 {
		t.Errorf("Strength(TP53) = %v, want 1600", net.Strength(tp53))
	}
	if net.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", net.EdgeCount())
	}
}

func TestBuilder_DuplicateEdgesKeepMaxWeight(t *testing.T) {
	orders := [][]Edge{
		{{A: 0, B: 1, Weight: 400}, {A: 1, B: 0, Weight: 900}, {A: 0, B: 1, Weight: 600}},
		{{A: 0, B: 1, Weight: 900}, {A: 0, B: 1, Weight: 400}, {A: 1, B: 0, Weight: 600}},
	}
	names := []string{"A", "B"}

	for i, rows := range orders {
		b := NewBuilder()
		merged := 0
		for _, e := range rows {
			m, err := b.AddEdge(names[e.A], names[e.B], e.Weight)
			if err != nil {
				t.Fatalf("AddEdge failed: %v", err)
			}
			if m {
				merged++
			}
		}
		net := b.Build()
		if net.EdgeCount() != 1 {
			t.Fatalf("order %d: EdgeCount() = %d, want 1", i, net.EdgeCount())
		}
		if merged != 2 {
			t.Errorf("order %d: merged = %d, want 2", i, merged)
		}
		w, ok := net.Weight(0, 1)
		if !ok || w != 900 {
			t.Errorf("order %d: Weight(A,B) = %v, %v; want 900", i, w, ok)
		}
		if w2, _ := net.Weight(1, 0); w2 != w {
			t.Errorf("order %d: edge not symmetric: %v vs %v", i, w, w2)
		}
		if net.Degree(0) != 1 || net.Degree(1) != 1 {
			t.Errorf("order %d: parallel edge created, degrees %d/%d", i, net.Degree(0), net.Degree(1))
		}
	}
}

func TestBuilder_RejectsSelfLoopsAndEmptyIDs(t *testing.T) {
	b := NewBuilder()
	if _, err := b.AddEdge("A", "A", 1); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Expected ErrSelfLoop, got %v", err)
	}
	if _, err := b.AddEdge(" ", "A", 1); !errors.Is(err, ErrEmptyID) {
		t.Errorf("Expected ErrEmptyID, got %v", err)
	}
	if b.NodeCount() != 0 {
		t.Errorf("rejected rows registered %d nodes", b.NodeCount())
	}
}

func TestBuilder_IsolatedNodes(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("A", "B", 1)
	if _, err := b.AddNode("Z"); err != nil {
		t.Fatal(err)
	}
	net := b.Build()

	z, _ := net.Index("Z")
	if net.Active(z) {
		t.Error("Z should be inactive")
	}
	if net.ActiveLen() != 2 || net.Len() != 3 {
		t.Errorf("ActiveLen/Len = %d/%d, want 2/3", net.ActiveLen(), net.Len())
	}
	if len(net.Neighbors(z)) != 0 {
		t.Errorf("Z has neighbours %v", net.Neighbors(z))
	}
}

func TestNetwork_EdgesVisitsEachOnce(t *testing.T) {
	b := NewBuilder()
	b.AddEdge("A", "B", 1)
	b.AddEdge("B", "C", 2)
	b.AddEdge("C", "A", 3)
	net := b.Build()

	var got []Edge
	net.Edges(func(e Edge) { got = append(got, e) })
	want := []Edge{{0, 1, 1}, {0, 2, 3}, {1, 2, 2}}
	if len(got) != len(want) {
		t.Fatalf("Edges visited %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if net.HasEdge(0, 0) {
		t.Error("HasEdge(0,0) should be false")
	}
}
