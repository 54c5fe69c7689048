package algorithms

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// HypergeomSF returns P(X >= k) for X ~ Hypergeometric(N, K, n): a population
// of N items with K successes, n drawn without replacement.
//
// The tail is summed in log space, so it stays finite for populations in the
// hundreds of thousands. Invalid parameters yield NaN.
func HypergeomSF(k, N, K, n int) float64 {
	if N < 0 || K < 0 || K > N || n < 0 || n > N {
		return math.NaN()
	}
	lo := max(0, n-(N-K))
	hi := min(n, K)
	if k <= lo {
		return 1
	}
	if k > hi {
		return 0
	}

	total := combin.LogGeneralizedBinomial(float64(N), float64(n))
	terms := make([]float64, 0, hi-k+1)
	for i := k; i <= hi; i++ {
		terms = append(terms,
			combin.LogGeneralizedBinomial(float64(K), float64(i))+
				combin.LogGeneralizedBinomial(float64(N-K), float64(n-i))-
				total)
	}
	return math.Min(1, math.Exp(floats.LogSumExp(terms)))
}
