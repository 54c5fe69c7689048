package network

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dd0wney/netprop/pkg/logging"
)

// DefaultMaxRowWarnings bounds how many skipped rows are logged at WARN
// before the loader drops to DEBUG.
const DefaultMaxRowWarnings = 10

// LoadOptions configures Load and Parse.
type LoadOptions struct {
	Format Format
	// MinScore drops edges whose weight is strictly below it. Applies to the
	// STRING format only; GUILD weights and DIAMOnD rows are never filtered.
	MinScore float64
	// Delimiter for the STRING format; tab when zero.
	Delimiter      rune
	MaxRowWarnings int
	Logger         logging.Logger
}

// LoadReport summarises one load.
type LoadReport struct {
	Path     string             `yaml:"path,omitempty"`
	Format   Format             `yaml:"format"`
	MinScore float64            `yaml:"min_score"`
	Rows     int                `yaml:"rows"`
	Accepted int                `yaml:"accepted_rows"`
	Merged   int                `yaml:"merged_duplicates"`
	Skipped  map[SkipReason]int `yaml:"skipped,omitempty"`
	Nodes    int                `yaml:"nodes"`
	Edges    int                `yaml:"edges"`
	Isolated int                `yaml:"isolated_nodes"`
}

// SkippedTotal returns the number of rows that did not become edges.
func (r *LoadReport) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// SkipReasons returns the recorded reasons in sorted order.
func (r *LoadReport) SkipReasons() []SkipReason {
	reasons := make([]SkipReason, 0, len(r.Skipped))
	for reason := range r.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

// Load reads the edge table at path and builds a Network. Any failure is a
// *NetworkLoadError.
func Load(path string, opts LoadOptions) (*Network, *LoadReport, error) {
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, nil, loadError("open", path, 0, err)
	}
	src, err := openSource(path)
	if err != nil {
		return nil, nil, loadError("open", path, 0, fmt.Errorf("%w: %w", ErrUnreadable, err))
	}
	defer src.Close()
	return parse(src, path, opts)
}

// Parse builds a Network from an in-memory edge table.
func Parse(r io.Reader, opts LoadOptions) (*Network, *LoadReport, error) {
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return nil, nil, loadError("parse", "", 0, err)
	}
	return parse(r, "", opts)
}

func parse(r io.Reader, path string, opts LoadOptions) (*Network, *LoadReport, error) {
	logger := logging.OrNop(opts.Logger).With(logging.Component("network"))
	maxWarn := opts.MaxRowWarnings
	if maxWarn <= 0 {
		maxWarn = DefaultMaxRowWarnings
	}

	rows, err := newRowReader(r, opts)
	if err != nil {
		return nil, nil, loadError("parse", path, 0, err)
	}

	report := &LoadReport{
		Path:     path,
		Format:   opts.Format,
		MinScore: opts.MinScore,
		Skipped:  make(map[SkipReason]int),
	}
	filter := opts.Format == FormatSTRING && opts.MinScore > 0
	b := NewBuilder()
	warned := 0

	skip := func(rw row, reason SkipReason) {
		report.Skipped[reason]++
		fields := []logging.Field{
			logging.Line(rw.line),
			logging.String("reason", string(reason)),
		}
		if path != "" {
			fields = append(fields, logging.Path(path))
		}
		if warned < maxWarn {
			warned++
			logger.Warn("skipping edge row", fields...)
			return
		}
		logger.Debug("skipping edge row", fields...)
	}

	for {
		rw, err := rows.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var lerr *NetworkLoadError
			if errors.As(err, &lerr) {
				lerr.Path = path
				return nil, nil, lerr
			}
			return nil, nil, loadError("parse", path, rw.line, fmt.Errorf("%w: %w", ErrUnreadable, err))
		}
		report.Rows++

		if rw.skip != "" {
			skip(rw, rw.skip)
			continue
		}
		if rw.u == rw.v {
			skip(rw, SkipSelfLoop)
			continue
		}
		if filter && rw.weight < opts.MinScore {
			// endpoints stay in the node set, possibly isolated
			b.AddNode(rw.u)
			b.AddNode(rw.v)
			skip(rw, SkipBelowMinScore)
			continue
		}
		merged, err := b.AddEdge(rw.u, rw.v, rw.weight)
		if err != nil {
			skip(rw, edgeSkipReason(err))
			continue
		}
		report.Accepted++
		if merged {
			report.Merged++
		}
	}

	if report.Rows == 0 {
		return nil, nil, loadError("parse", path, 0, ErrEmptyTable)
	}
	if b.EdgeCount() == 0 {
		return nil, nil, loadError("build", path, 0,
			fmt.Errorf("%w (%d rows read, %d skipped)", ErrNoValidEdges, report.Rows, report.SkippedTotal()))
	}

	net := b.Build()
	report.Nodes = net.Len()
	report.Edges = net.EdgeCount()
	report.Isolated = net.Len() - net.ActiveLen()

	if total := report.SkippedTotal(); total > 0 {
		fields := []logging.Field{logging.Count(total)}
		for _, reason := range report.SkipReasons() {
			fields = append(fields, logging.Int("skipped_"+string(reason), report.Skipped[reason]))
		}
		logger.Warn("edge rows skipped", fields...)
	}
	logger.Info("network built",
		logging.Int("nodes", report.Nodes),
		logging.Int("edges", report.Edges),
		logging.Int("isolated", report.Isolated),
		logging.Int("merged_duplicates", report.Merged),
	)
	return net, report, nil
}

// edgeSkipReason classifies a Builder.AddEdge rejection.
func edgeSkipReason(err error) SkipReason {
	switch {
	case errors.Is(err, ErrSelfLoop):
		return SkipSelfLoop
	case errors.Is(err, ErrEmptyID):
		return SkipMissingID
	default:
		return SkipMalformed
	}
}
