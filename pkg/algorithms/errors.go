package algorithms

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/netprop/pkg/network"
)

var (
	ErrNilNetwork     = errors.New("network is nil")
	ErrNoSeeds        = errors.New("seed set is empty")
	ErrInvalidSeed    = errors.New("seed is not an active network node")
	ErrInvalidOptions = errors.New("invalid options")
)

// Warning is a non-fatal condition attached to an engine result.
type Warning interface {
	error
	// Code is a stable identifier for reports and metrics.
	Code() string
}

// NonConvergenceWarning is attached when RWR hits MaxIterations before the
// L1 change drops below Tolerance. The scores are the last iterate.
type NonConvergenceWarning struct {
	Iterations int
	Residual   float64
	Tolerance  float64
}

func (w *NonConvergenceWarning) Error() string {
	return fmt.Sprintf("rwr did not converge after %d iterations (residual %.3g, tolerance %.3g)",
		w.Iterations, w.Residual, w.Tolerance)
}

func (w *NonConvergenceWarning) Code() string { return "non_convergence" }

// EmptyCandidateSetWarning is attached when DIAMOnD runs out of candidates
// adjacent to the module before the requested number of steps.
type EmptyCandidateSetWarning struct {
	Requested int
	Admitted  int
}

func (w *EmptyCandidateSetWarning) Error() string {
	return fmt.Sprintf("diamond exhausted candidates after %d of %d steps", w.Admitted, w.Requested)
}

func (w *EmptyCandidateSetWarning) Code() string { return "empty_candidate_set" }

// checkSeeds returns a sorted, de-duplicated copy of seeds after checking
// that each one is an active node of net.
func checkSeeds(net *network.Network, seeds []int) ([]int, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}
	out := make([]int, 0, len(seeds))
	seen := make(map[int]struct{}, len(seeds))
	for _, s := range seeds {
		if s < 0 || s >= net.Len() || !net.Active(s) {
			return nil, fmt.Errorf("%w: index %d", ErrInvalidSeed, s)
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Ints(out)
	return out, nil
}
