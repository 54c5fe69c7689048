package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleSection struct {
	Restart float64 `yaml:"restart" validate:"gte=0,lte=1"`
	Steps   int     `yaml:"steps" validate:"min=1"`
}

type sampleConfig struct {
	Path      string        `yaml:"path" validate:"required"`
	Algorithm string        `yaml:"algorithm" validate:"oneof=rwr diamond"`
	Section   sampleSection `yaml:"section"`
	Ignored   string        `yaml:"-"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		cfg        sampleConfig
		wantFields []string
	}{
		{
			name: "valid",
			cfg:  sampleConfig{Path: "net.tsv", Algorithm: "rwr", Section: sampleSection{Restart: 0.5, Steps: 3}},
		},
		{
			name:       "missing path",
			cfg:        sampleConfig{Algorithm: "diamond", Section: sampleSection{Steps: 1}},
			wantFields: []string{"path: field is required"},
		},
		{
			name: "several failures",
			cfg:  sampleConfig{Path: "x", Algorithm: "bfs", Section: sampleSection{Restart: 2, Steps: 0}},
			wantFields: []string{
				"algorithm: value bfs must be one of [rwr diamond]",
				"section.restart: must not exceed 1",
				"section.steps: must be at least 1",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.cfg)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
			for _, want := range tt.wantFields {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err, want)
				}
			}
		})
	}
}

func TestValidateStruct_Nil(t *testing.T) {
	if err := ValidateStruct(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
