package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/gocurate/internal/acquire"
	"github.com/hyperifyio/gocurate/internal/corpus"
	"github.com/hyperifyio/gocurate/internal/normalize"
	"github.com/hyperifyio/gocurate/internal/pipeline"
	"github.com/hyperifyio/gocurate/internal/quality"
	"github.com/hyperifyio/gocurate/internal/report"
	"github.com/hyperifyio/gocurate/internal/split"
)

// ErrNoDocuments is returned when acquisition produced nothing to filter.
var ErrNoDocuments = errors.New("no documents acquired")

// App runs one curation pass: acquire, filter, split, report.
type App struct {
	cfg      Config
	logger   zerolog.Logger
	pipeline *pipeline.Pipeline
	walker   *acquire.Walker
	now      func() time.Time
}

// Result summarizes a finished run.
type Result struct {
	RunID     string
	Report    report.Report
	OutputDir string
	Artifacts []string
}

// New validates cfg and builds the pipeline. Configuration problems are
// returned here so the run never starts with an invalid setup.
func New(cfg Config, logger zerolog.Logger) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	cls, err := newClassifier(cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	norm := normalize.New(cfg.Normalize)
	return &App{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(norm, cls, pipeline.NewStats(), logger),
		walker:   acquire.NewWalker(logger, cfg.Workers),
		now:      time.Now,
	}, nil
}

func newClassifier(cfg quality.Config) (pipeline.Classifier, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.Mode), quality.ModeLegacy) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return quality.NewLegacy(cfg), nil
	}
	return quality.New(cfg)
}

// Run executes the whole pass and writes every artifact to the output
// directory.
func (a *App) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := a.logger.With().Str("run", runID).Logger()
	start := a.now()

	docs, err := a.acquire(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		// Keep the malformed count visible even though nothing can be split.
		rep := a.buildReport(runID, nil, split.Splits{})
		if err := a.writeReports(rep); err != nil {
			return nil, fmt.Errorf("write artifacts: %w", err)
		}
		log.Warn().Int64("malformed", rep.MalformedInput).Msg("no documents acquired")
		return &Result{RunID: runID, Report: rep, OutputDir: a.cfg.OutputDir, Artifacts: []string{reportJSONName, reportMarkdownName}}, ErrNoDocuments
	}
	log.Info().Int("documents", len(docs)).Msg("acquisition finished")

	kept, err := a.pipeline.Run(ctx, docs, a.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	splits, err := split.Assemble(kept, a.cfg.Split, split.NewRand(a.cfg.Seed))
	if err != nil {
		return nil, err
	}

	rep := a.buildReport(runID, kept, splits)

	artifacts, err := a.writeArtifacts(runID, rep, kept, splits)
	if err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}
	log.Info().
		Int64("input", rep.TotalInput).
		Int64("kept", rep.TotalKept).
		Int64("malformed", rep.MalformedInput).
		Float64("retention", rep.RetentionRate).
		Dur("elapsed", a.now().Sub(start)).
		Str("out", a.cfg.OutputDir).
		Msg("run finished")
	return &Result{RunID: runID, Report: rep, OutputDir: a.cfg.OutputDir, Artifacts: artifacts}, nil
}

func (a *App) buildReport(runID string, kept []corpus.ScoredDocument, splits split.Splits) report.Report {
	rep := report.BuildWindow(a.pipeline.Stats().Snapshot(), kept, a.cfg.WindowTokens)
	rep.RunID = runID
	rep.QualityThresholds = report.Thresholds(a.cfg.Quality)
	rep.Splits = report.SummarizeSplits(splits)
	return rep
}

// writeReports writes the JSON and markdown quality reports.
func (a *App) writeReports(rep report.Report) error {
	dir := a.cfg.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, reportJSONName), rep); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, reportMarkdownName), []byte(report.Markdown(rep)), 0o644)
}

// acquire collects every raw document before filtering starts.
func (a *App) acquire(ctx context.Context) ([]corpus.RawDocument, error) {
	var docs []corpus.RawDocument
	for _, in := range a.cfg.Inputs {
		got, err := acquire.ReadJSONLFile(in, a.pipeline.SkipMalformed)
		if err != nil {
			return nil, err
		}
		a.logger.Debug().Str("input", in).Int("documents", len(got)).Msg("input read")
		docs = append(docs, got...)
	}
	if len(a.cfg.Repos) > 0 {
		got, err := a.walker.Walk(ctx, a.cfg.Repos)
		if err != nil {
			return nil, err
		}
		docs = append(docs, got...)
	}
	return docs, nil
}

func (a *App) writeArtifacts(runID string, rep report.Report, kept []corpus.ScoredDocument, splits split.Splits) ([]string, error) {
	dir := a.cfg.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output dir: %w", err)
	}
	var names []string
	records := map[string]int{}

	for _, part := range splits.Named() {
		name := part.Name + ".jsonl"
		n, err := writeJSONL(filepath.Join(dir, name), part.Documents)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		records[name] = n
	}
	if a.cfg.Chunks {
		chunks, err := split.Chunks(kept, a.cfg.ChunkBytes)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			name := chunkName(c.Index)
			n, err := writeJSONL(filepath.Join(dir, name), c.Documents)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			records[name] = n
			a.logger.Debug().Str("chunk", name).Int("documents", n).Int("bytes", c.Bytes).Msg("chunk written")
		}
	}

	if err := a.writeReports(rep); err != nil {
		return nil, err
	}
	names = append(names, reportJSONName, reportMarkdownName)
	if a.cfg.PDF {
		if err := report.WritePDF(rep, filepath.Join(dir, reportPDFName)); err != nil {
			return nil, fmt.Errorf("write pdf: %w", err)
		}
		names = append(names, reportPDFName)
	}
	if a.cfg.SampleSize > 0 {
		if err := writeSample(filepath.Join(dir, sampleName), splits.Train, a.cfg.SampleSize, a.cfg.SamplePreview); err != nil {
			return nil, err
		}
		names = append(names, sampleName)
	}

	entries, err := buildManifestEntries(dir, names, records)
	if err != nil {
		return nil, err
	}
	m := manifest{
		RunID:       runID,
		GeneratedAt: a.now().UTC(),
		Version:     BuildVersion,
		Commit:      BuildCommit,
		Seed:        a.cfg.Seed,
		Inputs:      a.cfg.Inputs,
		Artifacts:   entries,
	}
	for _, r := range a.cfg.Repos {
		m.Repos = append(m.Repos, r.Source)
	}
	if err := writeJSON(filepath.Join(dir, manifestName), m); err != nil {
		return nil, err
	}
	names = append(names, manifestName)
	if err := writeSHA256SUMS(dir, names); err != nil {
		return nil, err
	}
	names = append(names, checksumsName)

	if a.cfg.Bundle {
		if err := tarGzFiles(dir, names, filepath.Join(dir, bundleName)); err != nil {
			return nil, fmt.Errorf("bundle: %w", err)
		}
		names = append(names, bundleName)
	}
	return names, nil
}
