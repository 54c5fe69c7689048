// Package config holds the run configuration of netprop.
//
// Values are layered: Default, then a YAML file (LoadFile), then NETPROP_*
// environment variables (ApplyEnv), then command-line flags applied by the
// caller. Validate runs once, after every layer.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/netprop/pkg/validation"
)

// Algorithm names.
const (
	AlgorithmRWR     = "rwr"
	AlgorithmDiamond = "diamond"
)

// Config is the complete description of one run.
type Config struct {
	Network   NetworkConfig `yaml:"network"`
	Seeds     SeedsConfig   `yaml:"seeds"`
	Algorithm string        `yaml:"algorithm" validate:"oneof=rwr diamond"`
	RWR       RWRConfig     `yaml:"rwr"`
	Diamond   DiamondConfig `yaml:"diamond"`
	Output    OutputConfig  `yaml:"output"`
	// Workers bounds the goroutines used inside one engine step; 0 means one per CPU.
	Workers int       `yaml:"workers" validate:"gte=0"`
	Log     LogConfig `yaml:"log"`
}

// NetworkConfig locates and filters the edge table.
type NetworkConfig struct {
	Path     string  `yaml:"path" validate:"required"`
	Format   string  `yaml:"format" validate:"oneof=string guild diamond"`
	MinScore float64 `yaml:"min_score" validate:"gte=0"`
	// Delimiter for the string format: a single character, "tab" or "space".
	Delimiter string `yaml:"delimiter"`
}

// SeedsConfig names the seed genes, from a file, inline, or both.
type SeedsConfig struct {
	Path          string   `yaml:"path"`
	Inline        []string `yaml:"inline"`
	CaseSensitive bool     `yaml:"case_sensitive"`
}

// RWRConfig mirrors algorithms.RWROptions.
type RWRConfig struct {
	Restart       float64 `yaml:"restart" validate:"gte=0,lte=1"`
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"min=1"`
	Weighted      bool    `yaml:"weighted"`
}

// DiamondConfig mirrors algorithms.DiamondOptions.
type DiamondConfig struct {
	Steps      int `yaml:"steps" validate:"min=1"`
	SeedWeight int `yaml:"seed_weight" validate:"min=1"`
}

// OutputConfig controls what the run writes.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"required"`
	// Top is the number of rows in the terminal summary; 0 disables it.
	Top         int    `yaml:"top" validate:"gte=0"`
	Report      bool   `yaml:"report"`
	MetricsFile string `yaml:"metrics_file"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Default returns the built-in configuration. Network.Path and a seed
// source still have to be supplied.
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Format: "string",
		},
		Algorithm: AlgorithmRWR,
		RWR: RWRConfig{
			Restart:       0.85,
			Tolerance:     1e-6,
			MaxIterations: 100,
			Weighted:      true,
		},
		Diamond: DiamondConfig{
			Steps:      50,
			SeedWeight: 1,
		},
		Output: OutputConfig{
			Dir:    "results",
			Top:    10,
			Report: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFile reads a YAML file over the defaults. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	c.foldCase()
	return nil
}

// foldCase lower-cases the enumerated names, which match case-insensitively.
func (c *Config) foldCase() {
	c.Network.Format = strings.ToLower(c.Network.Format)
	c.Algorithm = strings.ToLower(c.Algorithm)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// Delimiter returns the STRING-format delimiter, or 0 for the loader default.
func (c *Config) Delimiter() (rune, error) {
	switch d := c.Network.Delimiter; d {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "space":
		return ' ', nil
	default:
		if utf8.RuneCountInString(d) != 1 {
			return 0, fmt.Errorf("delimiter %q must be a single character", d)
		}
		r, _ := utf8.DecodeRuneInString(d)
		return r, nil
	}
}

// Validate checks field ranges and the rules that span fields.
func (c *Config) Validate() error {
	tagErr := validation.ValidateStruct(c)

	cv := validation.NewConfigValidator("config")
	cv.AnyOf("seeds", c.Seeds.Path != "", len(c.Seeds.Inline) > 0).
		PositiveFloat("rwr.tolerance", c.RWR.Tolerance).
		Custom("network.delimiter", func() error {
			_, err := c.Delimiter()
			return err
		}).
		OneOf("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "warning", "error"}).
		When(c.Network.Format != "string", func(cv *validation.ConfigValidator) {
			cv.Custom("network.delimiter", func() error {
				if c.Network.Delimiter != "" {
					return errors.New("only applies to the string format")
				}
				return nil
			})
		})

	return errors.Join(tagErr, cv.Validate())
}
