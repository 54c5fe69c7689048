package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/netprop/pkg/validation"
)

func validConfig() Config {
	cfg := Default()
	cfg.Network.Path = "string.tsv"
	cfg.Seeds.Inline = []string{"TP53"}
	return cfg
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netprop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "rwr", cfg.Algorithm)
	assert.Equal(t, 0.85, cfg.RWR.Restart)
	assert.Equal(t, 1e-6, cfg.RWR.Tolerance)
	assert.Equal(t, 100, cfg.RWR.MaxIterations)
	assert.Equal(t, 50, cfg.Diamond.Steps)
	assert.Equal(t, 1, cfg.Diamond.SeedWeight)

	// defaults alone lack a network and seeds
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "network.path")
	assert.Contains(t, err.Error(), "config.seeds")
}

func TestLoadFile(t *testing.T) {
	path := writeYAML(t, `
network:
  path: data/string_hugo.tsv
  format: string
  min_score: 700
seeds:
  path: data/genes_seed.txt
algorithm: diamond
diamond:
  steps: 20
output:
  dir: out
  metrics_file: out/netprop.prom
workers: 4
log:
  level: debug
  format: json
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data/string_hugo.tsv", cfg.Network.Path)
	assert.Equal(t, 700.0, cfg.Network.MinScore)
	assert.Equal(t, "diamond", cfg.Algorithm)
	assert.Equal(t, 20, cfg.Diamond.Steps)
	assert.Equal(t, 4, cfg.Workers)
	// untouched keys keep their defaults
	assert.Equal(t, 0.85, cfg.RWR.Restart)
	assert.Equal(t, 1, cfg.Diamond.SeedWeight)
	assert.True(t, cfg.Output.Report)
}

func TestLoadFile_EnumsIgnoreCase(t *testing.T) {
	cfg, err := LoadFile(writeYAML(t, `
network:
  path: net.tsv
  format: STRING
seeds:
  inline: [TP53]
algorithm: DIAMOnD
log:
  format: JSON
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "string", cfg.Network.Format)
	assert.Equal(t, AlgorithmDiamond, cfg.Algorithm)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeYAML(t, "network:\n  pathh: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pathh")

	cfg, err := LoadFile(writeYAML(t, ""))
	require.NoError(t, err, "an empty file keeps the defaults")
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NETPROP_NETWORK":       "net.txt",
		"NETPROP_FORMAT":        "GUILD",
		"NETPROP_SEED_LIST":     "TP53, BRCA1,,",
		"NETPROP_ALGORITHM":     "Diamond",
		"NETPROP_STEPS":         "12",
		"NETPROP_RESTART":       "0.7",
		"NETPROP_WEIGHTED":      "false",
		"NETPROP_WORKERS":       "3",
		"NETPROP_LOG_LEVEL":     "warn",
		"NETPROP_METRICS_FILE":  " ",
		"UNRELATED_NETPROP_TOP": "99",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "net.txt", cfg.Network.Path)
	assert.Equal(t, "guild", cfg.Network.Format)
	assert.Equal(t, []string{"TP53", "BRCA1"}, cfg.Seeds.Inline)
	assert.Equal(t, "diamond", cfg.Algorithm)
	assert.Equal(t, 12, cfg.Diamond.Steps)
	assert.Equal(t, 0.7, cfg.RWR.Restart)
	assert.False(t, cfg.RWR.Weighted)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Output.MetricsFile)
	assert.Equal(t, 10, cfg.Output.Top)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_MalformedValues(t *testing.T) {
	env := map[string]string{
		"NETPROP_STEPS":    "many",
		"NETPROP_RESTART":  "high",
		"NETPROP_WEIGHTED": "perhaps",
	}
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.Error(t, err)
	for _, name := range []string{"NETPROP_STEPS", "NETPROP_RESTART", "NETPROP_WEIGHTED"} {
		assert.Contains(t, err.Error(), name)
	}
	assert.Contains(t, EnvNames(), "NETPROP_SEED_LIST")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"seed file only", func(c *Config) { c.Seeds.Inline = nil; c.Seeds.Path = "seeds.txt" }, ""},
		{"no seeds", func(c *Config) { c.Seeds.Inline = nil }, "config.seeds"},
		{"bad algorithm", func(c *Config) { c.Algorithm = "pagerank" }, "algorithm"},
		{"bad format", func(c *Config) { c.Network.Format = "sif" }, "network.format"},
		{"restart above one", func(c *Config) { c.RWR.Restart = 1.2 }, "rwr.restart"},
		{"zero tolerance", func(c *Config) { c.RWR.Tolerance = 0 }, "rwr.tolerance"},
		{"zero steps", func(c *Config) { c.Diamond.Steps = 0 }, "diamond.steps"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"negative min score", func(c *Config) { c.Network.MinScore = -1 }, "network.min_score"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"long delimiter", func(c *Config) { c.Network.Delimiter = "||" }, "network.delimiter"},
		{"delimiter on guild", func(c *Config) {
			c.Network.Format = "guild"
			c.Network.Delimiter = ","
		}, "only applies to the string format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, validation.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, "tab": '\t', `\t`: '\t', "space": ' ', ",": ',', ";": ';'}
	for in, want := range cases {
		cfg := validConfig()
		cfg.Network.Delimiter = in
		got, err := cfg.Delimiter()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
