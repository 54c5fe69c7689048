package results

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/netprop/pkg/algorithms"
	"github.com/dd0wney/netprop/pkg/network"
	"github.com/dd0wney/netprop/pkg/seeds"
)

// Report is the run_report.yaml document.
type Report struct {
	RunID      string          `yaml:"run_id"`
	Algorithm  string          `yaml:"algorithm"`
	StartedAt  time.Time       `yaml:"started_at"`
	Elapsed    string          `yaml:"elapsed,omitempty"`
	Parameters Parameters      `yaml:"parameters"`
	Network    NetworkSection  `yaml:"network"`
	Seeds      SeedSection     `yaml:"seeds"`
	Warnings   []WarningEntry  `yaml:"warnings,omitempty"`
	RWR        *RWRSummary     `yaml:"rwr,omitempty"`
	Diamond    *DiamondSummary `yaml:"diamond,omitempty"`
	Outputs    []string        `yaml:"outputs,omitempty"`
}

// Parameters echoes the engine settings of the run.
type Parameters struct {
	Workers int            `yaml:"workers"`
	RWR     *RWRParams     `yaml:"rwr,omitempty"`
	Diamond *DiamondParams `yaml:"diamond,omitempty"`
}

type RWRParams struct {
	Restart       float64 `yaml:"restart"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	Weighted      bool    `yaml:"weighted"`
}

type DiamondParams struct {
	Steps      int `yaml:"steps"`
	SeedWeight int `yaml:"seed_weight"`
}

// NetworkSection combines the loader report with the component statistics.
type NetworkSection struct {
	Load  *network.LoadReport `yaml:"load,omitempty"`
	Stats network.Stats       `yaml:"stats"`
}

// SeedSection lists what was asked for and what was used.
type SeedSection struct {
	Input      int                `yaml:"input"`
	Resolved   []string           `yaml:"resolved"`
	Unresolved []seeds.Unresolved `yaml:"unresolved,omitempty"`
	// Reachable counts the nodes connected to at least one seed, seeds included.
	Reachable int `yaml:"reachable_nodes"`
}

// WarningEntry is a non-fatal engine condition.
type WarningEntry struct {
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
}

type RWRSummary struct {
	Iterations int     `yaml:"iterations"`
	Converged  bool    `yaml:"converged"`
	Residual   float64 `yaml:"residual"`
}

type DiamondSummary struct {
	Requested  int     `yaml:"requested_steps"`
	Admitted   int     `yaml:"admitted"`
	LastPValue float64 `yaml:"last_p_value,omitempty"`
}

// NewReport starts a report for one run.
func NewReport(runID, algorithm string, started time.Time) *Report {
	return &Report{
		RunID:     runID,
		Algorithm: algorithm,
		StartedAt: started.UTC(),
	}
}

// SetNetwork records the loaded network.
func (r *Report) SetNetwork(load *network.LoadReport, stats network.Stats) {
	r.Network = NetworkSection{Load: load, Stats: stats}
}

// SetSeeds records the seed resolution.
func (r *Report) SetSeeds(input int, res *seeds.Resolution) {
	r.Seeds = SeedSection{
		Input:      input,
		Resolved:   res.SeedIDs,
		Unresolved: res.Unresolved,
	}
}

// SetRWR records the options and outcome of an RWR run.
func (r *Report) SetRWR(opts algorithms.RWROptions, res *algorithms.RWRResult) {
	r.Parameters.Workers = opts.Workers
	r.Parameters.RWR = &RWRParams{
		Restart:       opts.RestartProbability,
		Tolerance:     opts.Tolerance,
		MaxIterations: opts.MaxIterations,
		Weighted:      opts.Weighted,
	}
	r.RWR = &RWRSummary{
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Residual:   res.Residual,
	}
	r.addWarnings(res.Warnings)
}

// SetDiamond records the options and outcome of a DIAMOnD run.
func (r *Report) SetDiamond(opts algorithms.DiamondOptions, res *algorithms.DiamondResult) {
	r.Parameters.Workers = opts.Workers
	r.Parameters.Diamond = &DiamondParams{
		Steps:      opts.Steps,
		SeedWeight: opts.SeedWeight,
	}
	sum := &DiamondSummary{Requested: opts.Steps, Admitted: len(res.Steps)}
	if n := len(res.Steps); n > 0 {
		sum.LastPValue = res.Steps[n-1].PValue
	}
	r.Diamond = sum
	r.addWarnings(res.Warnings)
}

func (r *Report) addWarnings(ws []algorithms.Warning) {
	for _, w := range ws {
		r.Warnings = append(r.Warnings, WarningEntry{Code: w.Code(), Message: w.Error()})
	}
}

// Finish stamps the elapsed time.
func (r *Report) Finish(elapsed time.Duration) {
	r.Elapsed = elapsed.Round(time.Millisecond).String()
}

// EncodeReport writes r as YAML.
func EncodeReport(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// ReadReport loads a report written by EncodeReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &r, nil
}
