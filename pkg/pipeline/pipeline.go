// Package pipeline runs one propagation end to end: load the network,
// resolve the seeds, run the selected engine and persist the results.
//
// Loader and resolver failures are fatal and leave the output directory
// untouched. Engine warnings are carried into the report and metrics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/netprop/pkg/algorithms"
	"github.com/dd0wney/netprop/pkg/config"
	"github.com/dd0wney/netprop/pkg/logging"
	"github.com/dd0wney/netprop/pkg/metrics"
	"github.com/dd0wney/netprop/pkg/network"
	"github.com/dd0wney/netprop/pkg/results"
	"github.com/dd0wney/netprop/pkg/seeds"
)

// Options configures Run. Only Config is required.
type Options struct {
	Config config.Config
	Logger logging.Logger
	// Metrics defaults to a fresh private registry.
	Metrics *metrics.Registry
	// Writer defaults to a results.DirWriter on Config.Output.Dir.
	Writer results.Writer
	// Summary receives the rendered top-N table when set.
	Summary io.Writer
	// RunID defaults to a random UUID.
	RunID string
}

// Outcome is everything a successful run produced.
type Outcome struct {
	RunID   string
	Network *network.Network
	Load    *network.LoadReport
	Stats   network.Stats
	Seeds   *seeds.Resolution
	RWR     *algorithms.RWRResult
	Diamond *algorithms.DiamondResult
	Report  *results.Report
	Outputs []string
}

// Warnings returns the engine warnings of the run.
func (o *Outcome) Warnings() []algorithms.Warning {
	switch {
	case o.RWR != nil:
		return o.RWR.Warnings
	case o.Diamond != nil:
		return o.Diamond.Warnings
	}
	return nil
}

type runner struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	writer  results.Writer
	summary io.Writer
	out     *Outcome
	inputs  int // seed identifiers requested
}

// Run executes one configured run.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	started := time.Now()

	r := &runner{
		cfg: cfg,
		logger: logging.OrNop(opts.Logger).With(
			logging.RunID(runID),
			logging.Algorithm(cfg.Algorithm),
		),
		metrics: opts.Metrics,
		writer:  opts.Writer,
		summary: opts.Summary,
		out:     &Outcome{RunID: runID},
	}
	if r.metrics == nil {
		r.metrics = metrics.NewRegistry()
	}
	r.metrics.SetRunInfo(runID, cfg.Algorithm, started)
	r.logger.Info("run started", logging.Path(cfg.Network.Path))

	if err := r.loadNetwork(ctx); err != nil {
		return nil, err
	}
	if err := r.resolveSeeds(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := results.NewReport(runID, cfg.Algorithm, started)
	report.SetNetwork(r.out.Load, r.out.Stats)
	report.SetSeeds(r.inputs, r.out.Seeds)
	report.Seeds.Reachable = len(r.out.Network.Component(r.out.Seeds.Seeds))
	r.logger.Debug("seed neighbourhood", logging.Int("reachable_nodes", report.Seeds.Reachable))
	r.out.Report = report

	if err := r.runEngine(report); err != nil {
		return nil, err
	}
	if err := r.persist(report, started); err != nil {
		return nil, err
	}

	r.logger.Info("run finished",
		logging.Duration("elapsed", time.Since(started)),
		logging.Count(len(r.out.Warnings())),
	)
	return r.out, nil
}

func (r *runner) loadNetwork(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	format, err := network.ParseFormat(r.cfg.Network.Format)
	if err != nil {
		return err
	}
	delim, err := r.cfg.Delimiter()
	if err != nil {
		return err
	}

	timer := logging.StartTimer(r.logger, "stage finished", logging.Operation("load_network"))
	net, load, err := network.Load(r.cfg.Network.Path, network.LoadOptions{
		Format:    format,
		MinScore:  r.cfg.Network.MinScore,
		Delimiter: delim,
		Logger:    r.logger,
	})
	if err != nil {
		timer.EndError(err)
		return err
	}

	stats := net.Stats()
	elapsed := timer.End(logging.Int("components", stats.Components))
	r.metrics.RecordNetwork(stats.Nodes, stats.Edges, stats.Isolated, stats.Components, elapsed)
	for _, reason := range load.SkipReasons() {
		r.metrics.RecordSkippedRows(string(reason), load.Skipped[reason])
	}

	r.out.Network, r.out.Load, r.out.Stats = net, load, stats
	return nil
}

// rawSeeds gathers the seed file and the inline list, file entries first.
func (r *runner) rawSeeds() ([]string, error) {
	var raw []string
	if path := r.cfg.Seeds.Path; path != "" {
		list, err := seeds.ReadFile(path)
		if err != nil && !(errors.Is(err, seeds.ErrEmptySeedList) && len(r.cfg.Seeds.Inline) > 0) {
			return nil, err
		}
		raw = append(raw, list...)
	}
	raw = append(raw, r.cfg.Seeds.Inline...)
	return seeds.Clean(raw)
}

func (r *runner) resolveSeeds(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := r.rawSeeds()
	if err != nil {
		return fmt.Errorf("read seeds: %w", err)
	}
	r.inputs = len(raw)

	resolver, err := seeds.NewResolver(r.out.Network, seeds.ResolveOptions{
		CaseSensitive: r.cfg.Seeds.CaseSensitive,
		Logger:        r.logger,
	})
	if err != nil {
		return err
	}
	res, err := resolver.Resolve(raw)

	var unresolved []seeds.Unresolved
	resolved := 0
	if res != nil {
		unresolved, resolved = res.Unresolved, len(res.Seeds)
	}
	var none *seeds.NoSeedsResolvedError
	if errors.As(err, &none) {
		unresolved = none.Unresolved
	}
	byReason := make(map[string]int)
	for _, u := range unresolved {
		byReason[string(u.Reason)]++
	}
	r.metrics.RecordSeeds(resolved, byReason)

	if err != nil {
		r.logger.Error("seed resolution failed", logging.Error(err))
		return err
	}
	r.out.Seeds = res
	return nil
}

func (r *runner) runEngine(report *results.Report) error {
	start := time.Now()
	var warnings []algorithms.Warning

	switch r.cfg.Algorithm {
	case config.AlgorithmRWR:
		opts := algorithms.RWROptions{
			RestartProbability: r.cfg.RWR.Restart,
			MaxIterations:      r.cfg.RWR.MaxIterations,
			Tolerance:          r.cfg.RWR.Tolerance,
			Weighted:           r.cfg.RWR.Weighted,
			Workers:            r.cfg.Workers,
			Logger:             r.logger,
		}
		res, err := algorithms.RWR(r.out.Network, r.out.Seeds.Seeds, opts)
		if err != nil {
			r.metrics.RecordEngineRun(r.cfg.Algorithm, "error", time.Since(start))
			return fmt.Errorf("rwr: %w", err)
		}
		r.metrics.RecordRWR(res.Iterations, res.Residual)
		report.SetRWR(opts, res)
		r.out.RWR, warnings = res, res.Warnings

	case config.AlgorithmDiamond:
		opts := algorithms.DiamondOptions{
			Steps:      r.cfg.Diamond.Steps,
			SeedWeight: r.cfg.Diamond.SeedWeight,
			Workers:    r.cfg.Workers,
			Logger:     r.logger,
		}
		res, err := algorithms.Diamond(r.out.Network, r.out.Seeds.Seeds, opts)
		if err != nil {
			r.metrics.RecordEngineRun(r.cfg.Algorithm, "error", time.Since(start))
			return fmt.Errorf("diamond: %w", err)
		}
		last := 0.0
		if n := len(res.Steps); n > 0 {
			last = res.Steps[n-1].PValue
		}
		r.metrics.RecordDiamond(len(res.Steps), last)
		report.SetDiamond(opts, res)
		r.out.Diamond, warnings = res, res.Warnings

	default:
		return fmt.Errorf("unknown algorithm %q", r.cfg.Algorithm)
	}

	status := "ok"
	if len(warnings) > 0 {
		status = "warning"
	}
	for _, w := range warnings {
		r.metrics.RecordWarning(r.cfg.Algorithm, w.Code())
	}
	r.metrics.RecordEngineRun(r.cfg.Algorithm, status, time.Since(start))
	return nil
}

func (r *runner) persist(report *results.Report, started time.Time) error {
	if r.writer == nil {
		w, err := results.NewDirWriter(r.cfg.Output.Dir, r.logger)
		if err != nil {
			return err
		}
		r.writer = w
	}

	var (
		path string
		err  error
	)
	if r.out.RWR != nil {
		path, err = r.writer.WriteRWR(r.out.RWR)
	} else {
		path, err = r.writer.WriteDiamond(r.out.Diamond)
	}
	if err != nil {
		return fmt.Errorf("write scores: %w", err)
	}
	r.out.Outputs = append(r.out.Outputs, path)

	if r.cfg.Output.Report {
		report.Outputs = append(report.Outputs, path)
		report.Finish(time.Since(started))
		path, err := r.writer.WriteReport(report)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		r.out.Outputs = append(r.out.Outputs, path)
	}

	if r.summary != nil && r.cfg.Output.Top > 0 {
		var table string
		if r.out.RWR != nil {
			table = results.RenderRWR(r.out.RWR.Top(r.cfg.Output.Top))
		} else {
			table = results.RenderDiamond(r.out.Diamond.Steps, r.cfg.Output.Top)
		}
		fmt.Fprintln(r.summary, table)
	}

	r.metrics.UpdateSystemMetrics()
	if path := r.cfg.Output.MetricsFile; path != "" {
		if err := r.metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		r.out.Outputs = append(r.out.Outputs, path)
	}
	return nil
}
