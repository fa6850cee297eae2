package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hyperifyio/gocurate/internal/split"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file and before explicit flags. Values that
// do not parse are reported together.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var errs []error

	if v := strings.TrimSpace(os.Getenv("GOCURATE_INPUT")); v != "" {
		cfg.Inputs = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_OUTPUT_DIR")); v != "" {
		cfg.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		} else {
			errs = append(errs, fmt.Errorf("GOCURATE_WORKERS: %w", err))
		}
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = &n
		} else {
			errs = append(errs, fmt.Errorf("GOCURATE_SEED: %w", err))
		}
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_CHUNK_BYTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ChunkBytes = n
			cfg.Chunks = true
		} else {
			errs = append(errs, fmt.Errorf("GOCURATE_CHUNK_BYTES: %w", err))
		}
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_SPLIT_RATIOS")); v != "" {
		if r, err := ParseRatios(v); err == nil {
			cfg.Split = r
		} else {
			errs = append(errs, fmt.Errorf("GOCURATE_SPLIT_RATIOS: %w", err))
		}
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_ACCEPT_THRESHOLD")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Quality.AcceptThreshold = f
		} else {
			errs = append(errs, fmt.Errorf("GOCURATE_ACCEPT_THRESHOLD: %w", err))
		}
	}
	if v := strings.TrimSpace(os.Getenv("GOCURATE_QUALITY_MODE")); v != "" {
		cfg.Quality.Mode = strings.ToLower(v)
	}
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			*dst = s == "1" || s == "true" || s == "yes" || s == "on"
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.PDF, "GOCURATE_PDF")

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseRatios reads "train,validation[,test]". A missing test ratio takes
// the remainder.
func ParseRatios(s string) (split.Ratios, error) {
	parts := splitList(s)
	if len(parts) < 2 || len(parts) > 3 {
		return split.Ratios{}, fmt.Errorf("want 2 or 3 comma separated ratios, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return split.Ratios{}, err
		}
		vals[i] = f
	}
	if len(parts) == 2 {
		vals[2] = 1 - vals[0] - vals[1]
	}
	return split.Ratios{Train: vals[0], Validation: vals[1], Test: vals[2]}, nil
}
