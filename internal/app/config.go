package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/gocurate/internal/acquire"
	"github.com/hyperifyio/gocurate/internal/budget"
	"github.com/hyperifyio/gocurate/internal/normalize"
	"github.com/hyperifyio/gocurate/internal/quality"
	"github.com/hyperifyio/gocurate/internal/split"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs are JSONL files of raw document records.
	Inputs []string
	// Repos are checked-out documentation trees to walk.
	Repos     []acquire.Repo
	OutputDir string

	Workers int
	// Seed fixes the split shuffle; nil seeds from the clock.
	Seed *int64

	Split      split.Ratios
	Chunks     bool
	ChunkBytes int

	Quality   quality.Config
	Normalize normalize.Options

	// Report outputs
	PDF           bool
	Bundle        bool
	SampleSize    int
	SamplePreview int
	WindowTokens  int

	Verbose bool
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		OutputDir:     "training_data",
		Split:         split.DefaultRatios(),
		ChunkBytes:    split.DefaultChunkBytes,
		Quality:       quality.DefaultConfig(),
		Normalize:     normalize.Options{Form: normalize.FormNFC},
		SampleSize:    10,
		SamplePreview: 500,
		WindowTokens:  budget.DefaultWindowTokens,
	}
}

// ValidateConfig reports every problem with cfg at once. It never adjusts
// values.
func ValidateConfig(cfg Config) error {
	var errs []error
	if len(cfg.Inputs) == 0 && len(cfg.Repos) == 0 {
		errs = append(errs, errors.New("at least one input file or repository is required"))
	}
	for _, in := range cfg.Inputs {
		if trim(in) == "" {
			errs = append(errs, errors.New("input path must not be empty"))
			break
		}
	}
	for i, r := range cfg.Repos {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("repos[%d]: %w", i, err))
		}
	}
	if trim(cfg.OutputDir) == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", cfg.Workers))
	}
	if cfg.ChunkBytes <= 0 {
		errs = append(errs, fmt.Errorf("chunk bytes %d must be positive", cfg.ChunkBytes))
	}
	if cfg.SampleSize < 0 || cfg.SamplePreview < 0 {
		errs = append(errs, errors.New("sample size and preview must not be negative"))
	}
	if cfg.WindowTokens <= 0 {
		errs = append(errs, fmt.Errorf("window tokens %d must be positive", cfg.WindowTokens))
	}
	if err := cfg.Split.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Quality.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Normalize.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func trim(s string) string { return strings.TrimSpace(s) }

// splitList parses a comma separated list, dropping empty items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
