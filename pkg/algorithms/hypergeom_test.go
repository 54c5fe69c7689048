package algorithms

import (
	"math"
	"testing"
)

// exactSF sums the hypergeometric tail with exact binomials; usable for small N.
func exactSF(k, N, K, n int) float64 {
	binom := func(a, b int) float64 {
		if b < 0 || b > a {
			return 0
		}
		r := 1.0
		for i := 1; i <= b; i++ {
			r = r * float64(a-b+i) / float64(i)
		}
		return r
	}
	total := binom(N, n)
	sum := 0.0
	for i := max(k, 0); i <= min(n, K); i++ {
		sum += binom(K, i) * binom(N-K, n-i)
	}
	return sum / total
}

func TestHypergeomSF_KnownValues(t *testing.T) {
	tests := []struct {
		k, N, K, n int
		want       float64
	}{
		{2, 6, 2, 3, 0.2},
		{1, 6, 2, 2, 0.6},
		{0, 6, 2, 2, 1},
		{3, 6, 2, 3, 0}, // more links than module nodes
		{1, 10, 10, 3, 1},
		{3, 5, 4, 4, 1}, // at least three draws are successes
	}
	for _, tt := range tests {
		got := HypergeomSF(tt.k, tt.N, tt.K, tt.n)
		if math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("HypergeomSF(%d,%d,%d,%d) = %v, want %v", tt.k, tt.N, tt.K, tt.n, got, tt.want)
		}
	}
}

func TestHypergeomSF_MatchesExactSum(t *testing.T) {
	for N := 1; N <= 30; N++ {
		for K := 0; K <= N; K++ {
			for n := 0; n <= N; n++ {
				for k := 0; k <= min(n, K)+1; k++ {
					got := HypergeomSF(k, N, K, n)
					want := exactSF(k, N, K, n)
					if math.Abs(got-want) > 1e-9 {
						t.Fatalf("HypergeomSF(%d,%d,%d,%d) = %v, exact %v", k, N, K, n, got, want)
					}
				}
			}
		}
	}
}

func TestHypergeomSF_LargePopulation(t *testing.T) {
	p := HypergeomSF(40, 250000, 300, 1200)
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 || p >= 1e-30 {
		t.Errorf("HypergeomSF on a large population = %v, want a tiny positive value", p)
	}
	// monotone in k
	prev := 1.0
	for k := 0; k <= 20; k++ {
		cur := HypergeomSF(k, 250000, 300, 1200)
		if cur > prev {
			t.Fatalf("tail increased from %v to %v at k=%d", prev, cur, k)
		}
		prev = cur
	}
}

func TestHypergeomSF_InvalidArguments(t *testing.T) {
	for _, args := range [][4]int{{1, -1, 0, 0}, {1, 5, 6, 1}, {1, 5, 2, 6}, {1, 5, -1, 1}} {
		if p := HypergeomSF(args[0], args[1], args[2], args[3]); !math.IsNaN(p) {
			t.Errorf("HypergeomSF%v = %v, want NaN", args, p)
		}
	}
}
