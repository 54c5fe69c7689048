package seeds

import (
	"sort"
	"strings"

	"github.com/dd0wney/netprop/pkg/logging"
	"github.com/dd0wney/netprop/pkg/network"
)

// ResolveOptions configures identifier matching.
type ResolveOptions struct {
	// CaseSensitive disables upper-casing of inputs and network identifiers.
	CaseSensitive bool
	Logger        logging.Logger
}

// Resolution is the outcome of resolving a raw seed list.
type Resolution struct {
	// Seeds holds sorted, de-duplicated active node indices.
	Seeds []int
	// SeedIDs holds the network identifiers of Seeds, in the same order.
	SeedIDs    []string
	Unresolved []Unresolved
}

// Resolver maps raw identifiers onto network node indices.
type Resolver struct {
	net    *network.Network
	opts   ResolveOptions
	keys   map[string]int
	logger logging.Logger
}

// NewResolver indexes the network namespace under the normalisation rules
// of opts. When several identifiers share a key, the smallest active one
// wins; an isolated identifier is used only when no active one shares it.
func NewResolver(net *network.Network, opts ResolveOptions) (*Resolver, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	r := &Resolver{
		net:    net,
		opts:   opts,
		keys:   make(map[string]int, net.Len()),
		logger: logging.OrNop(opts.Logger).With(logging.Component("seeds")),
	}
	// ids are ascending, so the first writer of a key is the smallest identifier
	for i, id := range net.IDs() {
		key := r.normalize(id)
		prev, taken := r.keys[key]
		if !taken || (!net.Active(prev) && net.Active(i)) {
			r.keys[key] = i
		}
	}
	return r, nil
}

func (r *Resolver) normalize(id string) string {
	id = strings.TrimSpace(id)
	if !r.opts.CaseSensitive {
		id = strings.ToUpper(id)
	}
	return id
}

// Resolve maps raw onto active nodes. Inputs that are absent from the network
// or only present as isolated nodes are reported in Unresolved and logged.
// When nothing resolves, the error is a *NoSeedsResolvedError.
func (r *Resolver) Resolve(raw []string) (*Resolution, error) {
	res := &Resolution{}
	picked := make(map[int]struct{}, len(raw))

	for _, input := range raw {
		key := r.normalize(input)
		if key == "" {
			continue
		}
		idx, ok := r.keys[key]
		switch {
		case !ok:
			res.Unresolved = append(res.Unresolved, Unresolved{Input: input, Reason: ReasonNotInNetwork})
		case !r.net.Active(idx):
			res.Unresolved = append(res.Unresolved, Unresolved{Input: input, Reason: ReasonIsolated})
		default:
			picked[idx] = struct{}{}
		}
	}

	for idx := range picked {
		res.Seeds = append(res.Seeds, idx)
	}
	sort.Ints(res.Seeds)
	res.SeedIDs = make([]string, len(res.Seeds))
	for i, idx := range res.Seeds {
		res.SeedIDs[i] = r.net.ID(idx)
	}

	for _, u := range res.Unresolved {
		r.logger.Warn("seed not resolved",
			logging.Gene(u.Input),
			logging.String("reason", string(u.Reason)),
		)
	}

	if len(res.Seeds) == 0 {
		return nil, &NoSeedsResolvedError{Unresolved: res.Unresolved}
	}
	r.logger.Info("seeds resolved",
		logging.Count(len(res.Seeds)),
		logging.Int("unresolved", len(res.Unresolved)),
	)
	r.logger.Debug("seed identifiers", logging.Strings("seeds", res.SeedIDs))
	return res, nil
}
