package algorithms

import (
	"fmt"
	"sort"

	"github.com/dd0wney/netprop/pkg/logging"
	"github.com/dd0wney/netprop/pkg/network"
	"github.com/dd0wney/netprop/pkg/parallel"
)

// DiamondOptions configures DIAMOnD module expansion.
type DiamondOptions struct {
	// Steps is the number of nodes to admit.
	Steps int
	// SeedWeight is the DIAMOnD alpha: each seed counts SeedWeight times in
	// the module size and in a candidate's links and degree. 1 is plain DIAMOnD.
	SeedWeight int
	Workers    int
	Logger     logging.Logger
}

// DefaultDiamondOptions returns default DIAMOnD configuration
func DefaultDiamondOptions() DiamondOptions {
	return DiamondOptions{
		Steps:      50,
		SeedWeight: 1,
	}
}

// Validate checks the numeric ranges of the options.
func (o DiamondOptions) Validate() error {
	switch {
	case o.Steps < 1:
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidOptions, o.Steps)
	case o.SeedWeight < 1:
		return fmt.Errorf("%w: seed weight must be at least 1, got %d", ErrInvalidOptions, o.SeedWeight)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// DiamondStep records one admission.
type DiamondStep struct {
	Index      int
	ID         string
	PValue     float64
	Rank       int // 1-based admission order
	Links      int // neighbours in the module when admitted
	Degree     int
	Candidates int // candidates evaluated at this step
}

// DiamondResult is the admission order of one DIAMOnD run.
type DiamondResult struct {
	Seeds    []int
	Steps    []DiamondStep
	Warnings []Warning
}

// Module returns the seeds followed by the admitted nodes in admission order.
func (r *DiamondResult) Module() []int {
	out := make([]int, 0, len(r.Seeds)+len(r.Steps))
	out = append(out, r.Seeds...)
	for _, s := range r.Steps {
		out = append(out, s.Index)
	}
	return out
}

type diamondState struct {
	net      *network.Network
	opts     DiamondOptions
	inModule []bool
	isCand   []bool
	links    []int // neighbours in the module
	seedNbrs []int // neighbours that are seeds
	cands    []int // sorted
	seeds    int
	size     int
}

func newDiamondState(net *network.Network, seeds []int, opts DiamondOptions) *diamondState {
	n := net.Len()
	st := &diamondState{
		net:      net,
		opts:     opts,
		inModule: make([]bool, n),
		isCand:   make([]bool, n),
		links:    make([]int, n),
		seedNbrs: make([]int, n),
		seeds:    len(seeds),
	}
	for _, s := range seeds {
		for _, nb := range net.Neighbors(s) {
			st.seedNbrs[nb]++
		}
		st.admit(s)
	}
	// a seed adjacent to an earlier seed was queued before its own admission
	kept := st.cands[:0]
	for _, c := range st.cands {
		if !st.inModule[c] {
			kept = append(kept, c)
		}
	}
	st.cands = kept
	sort.Ints(st.cands)
	return st
}

func (st *diamondState) admit(v int) {
	st.inModule[v] = true
	st.isCand[v] = false
	st.size++
	for _, nb := range st.net.Neighbors(v) {
		st.links[nb]++
		if !st.inModule[nb] && !st.isCand[nb] {
			st.isCand[nb] = true
			st.cands = append(st.cands, nb)
		}
	}
}

// pvalue evaluates candidate c against the current module.
func (st *diamondState) pvalue(c int) float64 {
	extra := st.opts.SeedWeight - 1
	N := st.net.ActiveLen() + extra*st.seeds
	K := st.size + extra*st.seeds
	k := st.links[c] + extra*st.seedNbrs[c]
	deg := st.net.Degree(c) + extra*st.seedNbrs[c]
	return HypergeomSF(k, N, K, deg)
}

// better reports whether candidate a beats candidate b: lower p-value, then
// more links, then higher degree, then smaller identifier.
func (st *diamondState) better(a int, pa float64, b int, pb float64) bool {
	if pa != pb {
		return pa < pb
	}
	if st.links[a] != st.links[b] {
		return st.links[a] > st.links[b]
	}
	if da, db := st.net.Degree(a), st.net.Degree(b); da != db {
		return da > db
	}
	return a < b
}

// Diamond grows a disease module from seeds, admitting at each step the
// adjacent node whose connectivity to the module is least likely by chance
// under the hypergeometric model. Only neighbours of the module are ever
// candidates, so the module stays connected to the seeds.
func Diamond(net *network.Network, seeds []int, opts DiamondOptions) (*DiamondResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	seeds, err := checkSeeds(net, seeds)
	if err != nil {
		return nil, err
	}
	logger := logging.OrNop(opts.Logger).With(logging.Component("diamond"))
	timer := logging.StartTimer(logger, "diamond finished", logging.Algorithm("diamond"))

	st := newDiamondState(net, seeds, opts)
	result := &DiamondResult{Seeds: seeds}
	var pvals []float64

	for step := 1; step <= opts.Steps; step++ {
		if len(st.cands) == 0 {
			w := &EmptyCandidateSetWarning{Requested: opts.Steps, Admitted: len(result.Steps)}
			result.Warnings = append(result.Warnings, w)
			logger.Warn("diamond exhausted candidates",
				logging.Int("requested", w.Requested),
				logging.Int("admitted", w.Admitted),
			)
			break
		}

		cands := st.cands
		if cap(pvals) < len(cands) {
			pvals = make([]float64, len(cands))
		}
		pvals = pvals[:len(cands)]
		err := parallel.Range(len(cands), opts.Workers, func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				pvals[i] = st.pvalue(cands[i])
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("diamond step %d: %w", step, err)
		}

		best := 0
		for i := 1; i < len(cands); i++ {
			if st.better(cands[i], pvals[i], cands[best], pvals[best]) {
				best = i
			}
		}
		winner := cands[best]
		rec := DiamondStep{
			Index:      winner,
			ID:         net.ID(winner),
			PValue:     pvals[best],
			Rank:       step,
			Links:      st.links[winner],
			Degree:     net.Degree(winner),
			Candidates: len(cands),
		}
		result.Steps = append(result.Steps, rec)

		st.cands = append(cands[:best], cands[best+1:]...)
		st.admit(winner)
		sort.Ints(st.cands)

		logger.Debug("diamond admitted node",
			logging.Step(step),
			logging.Gene(rec.ID),
			logging.Float64("p_value", rec.PValue),
			logging.Int("links", rec.Links),
			logging.Int("degree", rec.Degree),
		)
	}

	timer.End(
		logging.Int("admitted", len(result.Steps)),
		logging.Int("requested", opts.Steps),
		logging.Count(len(seeds)),
	)
	return result, nil
}
