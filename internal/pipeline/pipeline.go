// Package pipeline runs normalization and classification over a batch of
// raw documents and keeps the run counters.
package pipeline

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/gocurate/internal/corpus"
	"github.com/hyperifyio/gocurate/internal/quality"
)

// progressEvery is how often Run logs how far it got.
const progressEvery = 1000

// Normalizer turns raw document content into cleaned text.
type Normalizer interface {
	Normalize(raw string) string
}

// Classifier decides whether a normalized document is kept.
type Classifier interface {
	Classify(doc corpus.RawDocument, normalized string) quality.Verdict
}

// Pipeline processes documents one at a time. It holds no per-document
// state, so Process may be called from many goroutines.
type Pipeline struct {
	norm   Normalizer
	class  Classifier
	stats  *Stats
	logger zerolog.Logger
}

// New wires a pipeline. When stats is nil a fresh Stats is allocated; it is
// available through Stats.
func New(n Normalizer, c Classifier, stats *Stats, logger zerolog.Logger) *Pipeline {
	if stats == nil {
		stats = NewStats()
	}
	return &Pipeline{norm: n, class: c, stats: stats, logger: logger}
}

// Stats returns the counters this pipeline records into.
func (p *Pipeline) Stats() *Stats { return p.stats }

// Process normalizes and classifies one document. The second result is false
// when the document was rejected; the rejection reason is counted.
func (p *Pipeline) Process(raw corpus.RawDocument) (corpus.ScoredDocument, bool) {
	p.stats.addSeen()
	text := p.norm.Normalize(raw.Content)
	v := p.class.Classify(raw, text)
	if !v.Accepted() {
		p.stats.addReason(v.Reason)
		p.logger.Debug().Str("source", raw.Source).Str("path", raw.FilePath).Str("reason", string(v.Reason)).Msg("rejected")
		return corpus.ScoredDocument{}, false
	}
	p.stats.addKept()
	return corpus.ScoredDocument{
		Source:       raw.Source,
		FilePath:     raw.FilePath,
		Content:      text,
		WordCount:    corpus.WordCount(text),
		QualityScore: v.Score,
		Metadata:     corpus.CloneMetadata(raw.Metadata),
	}, true
}

// SkipMalformed records an input record that could not be decoded. It never
// fails the run.
func (p *Pipeline) SkipMalformed(where string, err error) {
	p.stats.addMalformed()
	p.logger.Warn().Err(err).Str("where", where).Msg("skipping malformed record")
}

// Run processes docs with at most workers goroutines and returns the kept
// documents in input order. It returns only after every worker finished.
// On cancellation it stops handing out documents and returns ctx.Err()
// with no results.
func (p *Pipeline) Run(ctx context.Context, docs []corpus.RawDocument, workers int) ([]corpus.ScoredDocument, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	type slot struct {
		doc corpus.ScoredDocument
		ok  bool
	}
	results := make([]slot, len(docs))
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, ok := p.Process(docs[i])
			results[i] = slot{doc: d, ok: ok}
			if n := processed.Add(1); n%progressEvery == 0 {
				p.logger.Info().Int64("processed", n).Int("total", len(docs)).Int64("kept", p.stats.kept.Load()).Msg("progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept := make([]corpus.ScoredDocument, 0, len(docs))
	for _, r := range results {
		if r.ok {
			kept = append(kept, r.doc)
		}
	}
	p.logger.Info().Int("seen", len(docs)).Int("kept", len(kept)).Msg("filtering finished")
	return kept, nil
}
