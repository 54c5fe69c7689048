// Package algorithms implements the seed-driven propagation engines: Random
// Walk with Restart and DIAMOnD module expansion.
package algorithms

import (
	"fmt"
	"math"

	"github.com/dd0wney/netprop/pkg/logging"
	"github.com/dd0wney/netprop/pkg/network"
	"github.com/dd0wney/netprop/pkg/parallel"
)

// RWROptions configures Random Walk with Restart.
type RWROptions struct {
	RestartProbability float64 // r, usually 0.85
	MaxIterations      int
	Tolerance          float64 // L1 convergence threshold
	// Weighted normalises edge weights by node strength; otherwise every
	// neighbour gets 1/degree.
	Weighted bool
	// Workers bounds the goroutines per iteration; 0 means one per CPU.
	Workers int
	Logger  logging.Logger
}

// DefaultRWROptions returns default RWR configuration
func DefaultRWROptions() RWROptions {
	return RWROptions{
		RestartProbability: 0.85,
		MaxIterations:      100,
		Tolerance:          1e-6,
		Weighted:           true,
	}
}

// Validate checks the numeric ranges of the options.
func (o RWROptions) Validate() error {
	switch {
	case math.IsNaN(o.RestartProbability) || o.RestartProbability < 0 || o.RestartProbability > 1:
		return fmt.Errorf("%w: restart probability %v outside [0,1]", ErrInvalidOptions, o.RestartProbability)
	case math.IsNaN(o.Tolerance) || o.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidOptions, o.Tolerance)
	case o.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidOptions, o.MaxIterations)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// RWRResult holds the stationary scores of one RWR run.
type RWRResult struct {
	Scores     []float64 // indexed by node; isolated and unreachable nodes are 0
	Iterations int
	Converged  bool
	Residual   float64 // L1 change of the last iteration
	Warnings   []Warning

	net *network.Network
}

// Score returns the score of the node with the given identifier.
func (r *RWRResult) Score(id string) (float64, bool) {
	idx, ok := r.net.Index(id)
	if !ok {
		return 0, false
	}
	return r.Scores[idx], true
}

// Ranking returns every node ordered by score descending, ties broken by
// identifier ascending.
func (r *RWRResult) Ranking() []RankedNode {
	return rank(r.net, r.Scores)
}

// Top returns the first n entries of Ranking.
func (r *RWRResult) Top(n int) []RankedNode {
	return top(r.net, r.Scores, n)
}

// RWR runs Random Walk with Restart from seeds:
//
//	p_next = (1 - r)·W·p + r·p0
//
// where W is column-stochastic over the active nodes and p0 is uniform over
// the seeds. Each output row sums its neighbours in ascending index order and
// is owned by exactly one worker, so the scores do not depend on Workers.
func RWR(net *network.Network, seeds []int, opts RWROptions) (*RWRResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	seeds, err := checkSeeds(net, seeds)
	if err != nil {
		return nil, err
	}
	logger := logging.OrNop(opts.Logger).With(logging.Component("rwr"))
	timer := logging.StartTimer(logger, "rwr finished", logging.Algorithm("rwr"))

	n := net.Len()
	// share[u] is the fraction of p[u] sent along each unit of edge weight
	share := make([]float64, n)
	uniform := make([]bool, n)
	for u := 0; u < n; u++ {
		if !net.Active(u) {
			continue
		}
		if opts.Weighted && net.Strength(u) > 0 {
			share[u] = 1 / net.Strength(u)
		} else {
			// unweighted mode, or only zero-weight edges
			uniform[u] = true
			share[u] = 1 / float64(net.Degree(u))
		}
	}

	p0 := make([]float64, n)
	for _, s := range seeds {
		p0[s] = 1 / float64(len(seeds))
	}
	p := make([]float64, n)
	copy(p, p0)
	next := make([]float64, n)
	out := make([]float64, n)

	r := opts.RestartProbability
	result := &RWRResult{net: net}

	for result.Iterations < opts.MaxIterations {
		result.Iterations++

		for u := range out {
			out[u] = p[u] * share[u]
		}
		err := parallel.Range(n, opts.Workers, func(lo, hi int) error {
			for v := lo; v < hi; v++ {
				sum := 0.0
				w := net.Weights(v)
				for k, u := range net.Neighbors(v) {
					if uniform[u] {
						sum += out[u]
					} else {
						sum += w[k] * out[u]
					}
				}
				next[v] = (1-r)*sum + r*p0[v]
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("rwr iteration %d: %w", result.Iterations, err)
		}

		diff := 0.0
		for i := range next {
			diff += math.Abs(next[i] - p[i])
		}
		p, next = next, p
		result.Residual = diff

		logger.Debug("rwr iteration",
			logging.Step(result.Iterations),
			logging.Float64("residual", diff),
		)
		if diff < opts.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Scores = p
	if !result.Converged {
		w := &NonConvergenceWarning{
			Iterations: result.Iterations,
			Residual:   result.Residual,
			Tolerance:  opts.Tolerance,
		}
		result.Warnings = append(result.Warnings, w)
		logger.Warn("rwr did not converge",
			logging.Int("iterations", w.Iterations),
			logging.Float64("residual", w.Residual),
			logging.Float64("tolerance", w.Tolerance),
		)
	}

	timer.End(
		logging.Int("iterations", result.Iterations),
		logging.Bool("converged", result.Converged),
		logging.Float64("residual", result.Residual),
		logging.Count(len(seeds)),
	)
	return result, nil
}
