package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta gamma\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta gamma" {
		t.Fatalf("BAR=%q, want beta gamma", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestApplyEnvOverrides_FromEnv(t *testing.T) {
	t.Setenv("GOCURATE_INPUT", "a.jsonl, b.jsonl")
	t.Setenv("GOCURATE_OUTPUT_DIR", "/tmp/curated")
	t.Setenv("GOCURATE_WORKERS", "3")
	t.Setenv("GOCURATE_SEED", "99")
	t.Setenv("GOCURATE_CHUNK_BYTES", "4096")
	t.Setenv("GOCURATE_SPLIT_RATIOS", "0.7,0.2")
	t.Setenv("GOCURATE_ACCEPT_THRESHOLD", "0.6")
	t.Setenv("GOCURATE_QUALITY_MODE", "Legacy")
	t.Setenv("GOCURATE_PDF", "yes")
	t.Setenv("VERBOSE", "1")

	cfg := DefaultConfig()
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("ApplyEnvOverrides: %v", err)
	}
	if len(cfg.Inputs) != 2 || cfg.Inputs[1] != "b.jsonl" {
		t.Fatalf("Inputs=%v", cfg.Inputs)
	}
	if cfg.OutputDir != "/tmp/curated" || cfg.Workers != 3 || cfg.Seed == nil || *cfg.Seed != 99 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if !cfg.Chunks || cfg.ChunkBytes != 4096 {
		t.Fatalf("chunks=%v bytes=%d", cfg.Chunks, cfg.ChunkBytes)
	}
	if cfg.Split.Train != 0.7 || cfg.Split.Validation != 0.2 || cfg.Split.Test < 0.09 || cfg.Split.Test > 0.11 {
		t.Fatalf("split=%+v", cfg.Split)
	}
	if cfg.Quality.AcceptThreshold != 0.6 || cfg.Quality.Mode != "legacy" {
		t.Fatalf("quality=%v %q", cfg.Quality.AcceptThreshold, cfg.Quality.Mode)
	}
	if !cfg.PDF || !cfg.Verbose {
		t.Fatalf("booleans not applied")
	}
}

func TestApplyEnvOverrides_BadValues(t *testing.T) {
	t.Setenv("GOCURATE_WORKERS", "many")
	t.Setenv("GOCURATE_SPLIT_RATIOS", "0.8")
	cfg := DefaultConfig()
	if err := ApplyEnvOverrides(&cfg); err == nil {
		t.Fatalf("expected parse errors")
	}
	if cfg.Workers != 0 {
		t.Fatalf("bad value must not be applied")
	}
}
