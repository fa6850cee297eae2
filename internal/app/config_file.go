package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/gocurate/internal/acquire"
	"github.com/hyperifyio/gocurate/internal/normalize"
	"github.com/hyperifyio/gocurate/internal/quality"
	"github.com/hyperifyio/gocurate/internal/split"
)

// FileConfig represents the single-file configuration schema. The quality
// and normalize sections start from their defaults, so a file only lists
// what it changes; lists given in the file replace the default lists.
type FileConfig struct {
	Input     string         `yaml:"input" json:"input"`
	Inputs    []string       `yaml:"inputs" json:"inputs"`
	OutputDir string         `yaml:"outputDir" json:"outputDir"`
	Workers   int            `yaml:"workers" json:"workers"`
	Seed      *int64         `yaml:"seed" json:"seed"`
	Split     *split.Ratios  `yaml:"split" json:"split"`
	Repos     []acquire.Repo `yaml:"repos" json:"repos"`

	Chunks struct {
		Enable bool `yaml:"enable" json:"enable"`
		Bytes  int  `yaml:"bytes" json:"bytes"`
	} `yaml:"chunks" json:"chunks"`

	Quality   *quality.Config   `yaml:"quality" json:"quality"`
	Normalize normalize.Options `yaml:"normalize" json:"normalize"`

	Report struct {
		PDF          bool `yaml:"pdf" json:"pdf"`
		Bundle       bool `yaml:"bundle" json:"bundle"`
		Sample       *int `yaml:"sample" json:"sample"`
		Preview      int  `yaml:"preview" json:"preview"`
		WindowTokens int  `yaml:"windowTokens" json:"windowTokens"`
	} `yaml:"report" json:"report"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	fc := newFileConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			fc = newFileConfig()
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

func newFileConfig() FileConfig {
	q := quality.DefaultConfig()
	return FileConfig{Quality: &q}
}

// ApplyFileConfig overlays the values present in fc onto cfg. It runs before
// environment overrides and explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	var inputs []string
	if trim(fc.Input) != "" {
		inputs = append(inputs, fc.Input)
	}
	inputs = append(inputs, fc.Inputs...)
	if len(inputs) > 0 {
		cfg.Inputs = inputs
	}
	if len(fc.Repos) > 0 {
		cfg.Repos = append([]acquire.Repo(nil), fc.Repos...)
	}
	if trim(fc.OutputDir) != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
	if fc.Seed != nil {
		s := *fc.Seed
		cfg.Seed = &s
	}
	if fc.Split != nil {
		cfg.Split = *fc.Split
	}
	if fc.Chunks.Enable {
		cfg.Chunks = true
	}
	if fc.Chunks.Bytes != 0 {
		cfg.ChunkBytes = fc.Chunks.Bytes
	}
	if fc.Quality != nil {
		cfg.Quality = *fc.Quality
	}
	if trim(fc.Normalize.Form) != "" {
		cfg.Normalize = fc.Normalize
	}
	if fc.Report.PDF {
		cfg.PDF = true
	}
	if fc.Report.Bundle {
		cfg.Bundle = true
	}
	if fc.Report.Sample != nil {
		cfg.SampleSize = *fc.Report.Sample
	}
	if fc.Report.Preview != 0 {
		cfg.SamplePreview = fc.Report.Preview
	}
	if fc.Report.WindowTokens != 0 {
		cfg.WindowTokens = fc.Report.WindowTokens
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
