package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/gocurate/internal/acquire"
)

func TestLoadConfigFile_YAMLOverlaysDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gocurate.yaml")
	body := `
inputs: [a.jsonl, b.jsonl]
outputDir: out
workers: 6
seed: 7
split: {train: 0.9, validation: 0.05, test: 0.05}
chunks: {enable: true, bytes: 2048}
quality:
  acceptThreshold: 0.6
  highQualitySources: [internal_wiki]
normalize: {form: NFKC}
repos:
  - {source: handbook, dir: ./handbook, patterns: ["**/*.md"]}
report: {pdf: true, sample: 3, windowTokens: 4096}
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	cfg := DefaultConfig()
	ApplyFileConfig(&cfg, fc)

	if len(cfg.Inputs) != 2 || cfg.OutputDir != "out" || cfg.Workers != 6 || *cfg.Seed != 7 {
		t.Fatalf("unexpected basics %+v", cfg)
	}
	if cfg.Split.Train != 0.9 || !cfg.Chunks || cfg.ChunkBytes != 2048 {
		t.Fatalf("split/chunks %+v %v %d", cfg.Split, cfg.Chunks, cfg.ChunkBytes)
	}
	if cfg.Quality.AcceptThreshold != 0.6 || cfg.Quality.MinWordCount != 50 {
		t.Fatalf("quality must overlay defaults: %+v", cfg.Quality)
	}
	if len(cfg.Quality.HighQualitySources) != 1 || len(cfg.Quality.SpamPatterns) == 0 {
		t.Fatalf("lists: sources=%v spam=%d", cfg.Quality.HighQualitySources, len(cfg.Quality.SpamPatterns))
	}
	if cfg.Normalize.Form != "NFKC" || len(cfg.Repos) != 1 || cfg.Repos[0].Patterns[0] != "**/*.md" {
		t.Fatalf("normalize/repos %+v %+v", cfg.Normalize, cfg.Repos)
	}
	if !cfg.PDF || cfg.SampleSize != 3 || cfg.WindowTokens != 4096 {
		t.Fatalf("report %+v", cfg)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gocurate.json")
	if err := os.WriteFile(p, []byte(`{"input":"docs.jsonl","quality":{"mode":"legacy"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	cfg := DefaultConfig()
	ApplyFileConfig(&cfg, fc)
	if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "docs.jsonl" || cfg.Quality.Mode != "legacy" || cfg.Quality.MaxWordCount != 50000 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("workers: [not, a, number]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(p); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestValidateConfig_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = " "
	cfg.Workers = -1
	cfg.Split.Validation = 0.5
	cfg.Quality.AcceptThreshold = 2
	cfg.Normalize.Form = "NFD"
	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"input", "output directory", "workers", "ratios", "acceptThreshold", "unicode form"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing %q", msg, want)
		}
	}
}

func TestValidateConfig_RepoPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repos = []acquire.Repo{
		{Source: "handbook", Dir: "handbook", Patterns: []string{"**/*.md"}},
		{Source: "docs", Dir: "docs", Patterns: []string{"docs/[-"}},
	}
	err := ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), `repos[1]: invalid pattern "docs/[-"`) {
		t.Fatalf("expected invalid pattern error, got %v", err)
	}
	cfg.Repos = cfg.Repos[:1]
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("valid repos rejected: %v", err)
	}
}

func TestParseRatios(t *testing.T) {
	r, err := ParseRatios("0.8,0.1,0.1")
	if err != nil || r.Train != 0.8 || r.Test != 0.1 {
		t.Fatalf("got %+v %v", r, err)
	}
	for _, bad := range []string{"", "0.8", "a,b", "0.1,0.1,0.1,0.1"} {
		if _, err := ParseRatios(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
