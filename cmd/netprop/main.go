// Command netprop prioritizes genes by propagating a seed set over a
// protein-protein interaction network with RWR or DIAMOnD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dd0wney/netprop/pkg/config"
	"github.com/dd0wney/netprop/pkg/logging"
	"github.com/dd0wney/netprop/pkg/metrics"
	"github.com/dd0wney/netprop/pkg/pipeline"
	"github.com/dd0wney/netprop/pkg/validation"
)

var version = "dev"

// Exit codes.
const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// override is a flag value applied after the config file and environment.
type override func(cfg *config.Config)

func stringFlag(fs *flag.FlagSet, pending *[]override, name, usage string, set func(*config.Config, string)) {
	fs.Func(name, usage, func(v string) error {
		*pending = append(*pending, func(cfg *config.Config) { set(cfg, v) })
		return nil
	})
}

func intFlag(fs *flag.FlagSet, pending *[]override, name, usage string, field func(*config.Config) *int) {
	fs.Func(name, usage, func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*pending = append(*pending, func(cfg *config.Config) { *field(cfg) = n })
		return nil
	})
}

func floatFlag(fs *flag.FlagSet, pending *[]override, name, usage string, field func(*config.Config) *float64) {
	fs.Func(name, usage, func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*pending = append(*pending, func(cfg *config.Config) { *field(cfg) = f })
		return nil
	})
}

func boolFlag(fs *flag.FlagSet, pending *[]override, name, usage string, field func(*config.Config) *bool) {
	fs.BoolFunc(name, usage, func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*pending = append(*pending, func(cfg *config.Config) { *field(cfg) = b })
		return nil
	})
}

func newFlagSet(stderr io.Writer, pending *[]override) (*flag.FlagSet, *string, *bool) {
	def := config.Default()
	fs := flag.NewFlagSet("netprop", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	showVersion := fs.Bool("version", false, "Print the version and exit")

	stringFlag(fs, pending, "network", "Edge table (.sz and .gz are decompressed)",
		func(c *config.Config, v string) { c.Network.Path = v })
	stringFlag(fs, pending, "format", fmt.Sprintf("Network format: string, guild or diamond (default %q)", def.Network.Format),
		func(c *config.Config, v string) { c.Network.Format = strings.ToLower(v) })
	floatFlag(fs, pending, "min-score", "Drop STRING edges scoring below this value",
		func(c *config.Config) *float64 { return &c.Network.MinScore })
	stringFlag(fs, pending, "delimiter", "STRING column delimiter: one character, tab or space",
		func(c *config.Config, v string) { c.Network.Delimiter = v })
	stringFlag(fs, pending, "seeds", "Seed list file, one or more identifiers per line",
		func(c *config.Config, v string) { c.Seeds.Path = v })
	// repeated -seed-list flags accumulate and replace any inline list from the file or environment
	firstSeedList := true
	fs.Func("seed-list", "Comma separated seed identifiers; may be repeated", func(v string) error {
		reset := firstSeedList
		firstSeedList = false
		*pending = append(*pending, func(c *config.Config) {
			if reset {
				c.Seeds.Inline = nil
			}
			c.Seeds.Inline = append(c.Seeds.Inline, v)
		})
		return nil
	})
	boolFlag(fs, pending, "case-sensitive", "Match seed identifiers exactly",
		func(c *config.Config) *bool { return &c.Seeds.CaseSensitive })
	stringFlag(fs, pending, "algorithm", fmt.Sprintf("Propagation engine: rwr or diamond (default %q)", def.Algorithm),
		func(c *config.Config, v string) { c.Algorithm = strings.ToLower(v) })
	floatFlag(fs, pending, "restart", fmt.Sprintf("RWR restart probability (default %g)", def.RWR.Restart),
		func(c *config.Config) *float64 { return &c.RWR.Restart })
	floatFlag(fs, pending, "tolerance", fmt.Sprintf("RWR L1 convergence tolerance (default %g)", def.RWR.Tolerance),
		func(c *config.Config) *float64 { return &c.RWR.Tolerance })
	intFlag(fs, pending, "max-iter", fmt.Sprintf("RWR iteration cap (default %d)", def.RWR.MaxIterations),
		func(c *config.Config) *int { return &c.RWR.MaxIterations })
	boolFlag(fs, pending, "weighted", "RWR follows edge weights (default true)",
		func(c *config.Config) *bool { return &c.RWR.Weighted })
	intFlag(fs, pending, "steps", fmt.Sprintf("DIAMOnD nodes to admit (default %d)", def.Diamond.Steps),
		func(c *config.Config) *int { return &c.Diamond.Steps })
	intFlag(fs, pending, "seed-weight", "DIAMOnD seed weight alpha (default 1)",
		func(c *config.Config) *int { return &c.Diamond.SeedWeight })
	stringFlag(fs, pending, "outdir", fmt.Sprintf("Output directory (default %q)", def.Output.Dir),
		func(c *config.Config, v string) { c.Output.Dir = v })
	intFlag(fs, pending, "top", fmt.Sprintf("Rows in the terminal summary, 0 disables it (default %d)", def.Output.Top),
		func(c *config.Config) *int { return &c.Output.Top })
	boolFlag(fs, pending, "report", "Write run_report.yaml (default true)",
		func(c *config.Config) *bool { return &c.Output.Report })
	stringFlag(fs, pending, "metrics-file", "Write Prometheus metrics in text format to this file",
		func(c *config.Config, v string) { c.Output.MetricsFile = v })
	intFlag(fs, pending, "workers", "Goroutines per engine step, 0 for one per CPU",
		func(c *config.Config) *int { return &c.Workers })
	stringFlag(fs, pending, "log-level", fmt.Sprintf("debug, info, warn or error (default %q)", def.Log.Level),
		func(c *config.Config, v string) { c.Log.Level = v })
	stringFlag(fs, pending, "log-format", fmt.Sprintf("json or console (default %q)", def.Log.Format),
		func(c *config.Config, v string) { c.Log.Format = strings.ToLower(v) })

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: netprop [flags]\n\n")
		fmt.Fprintf(stderr, "Settings are read from -config, then %s* variables, then flags.\n\n", config.EnvPrefix)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment:\n  %s\n", strings.Join(config.EnvNames(), " "))
	}
	return fs, configPath, showVersion
}

// loadConfig layers the configuration sources in order.
func loadConfig(path string, lookup config.LookupFunc, pending []override) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	for _, apply := range pending {
		apply(&cfg)
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, lookup config.LookupFunc, stdout, stderr io.Writer) int {
	var pending []override
	fs, configPath, showVersion := newFlagSet(stderr, &pending)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintf(stdout, "netprop %s\n", version)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath, lookup, pending)
	if err != nil {
		fmt.Fprintf(stderr, "netprop: %v\n", err)
		if errors.Is(err, validation.ErrInvalidConfig) {
			fs.Usage()
		}
		return exitUsage
	}

	logger := logging.NewZapLogger(stderr, logging.ParseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format))
	defer logger.Sync()

	out, err := pipeline.Run(ctx, pipeline.Options{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewRegistry(),
		Summary: stdout,
	})
	if err != nil {
		logger.Error("run failed", logging.Error(err))
		return exitFatal
	}

	fmt.Fprintf(stdout, "run %s: wrote %d file(s) to %s\n", out.RunID, len(out.Outputs), cfg.Output.Dir)
	return exitOK
}
