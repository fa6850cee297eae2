// Package report summarizes a finished filtering run.
package report

import (
	"path"
	"sort"
	"strings"

	"github.com/hyperifyio/gocurate/internal/budget"
	"github.com/hyperifyio/gocurate/internal/corpus"
	"github.com/hyperifyio/gocurate/internal/pipeline"
	"github.com/hyperifyio/gocurate/internal/quality"
	"github.com/hyperifyio/gocurate/internal/split"
)

// webFileType labels documents whose path has no extension, such as pages
// identified by URL.
const webFileType = "web"

// Report is the machine-readable run summary written to quality_report.json.
type Report struct {
	RunID string `json:"run_id,omitempty"`

	TotalInput       int64         `json:"total_input"`
	TotalKept        int64         `json:"total_kept"`
	TotalFiltered    int64         `json:"total_filtered"`
	MalformedInput   int64         `json:"malformed_input"`
	RetentionRate    float64       `json:"retention_rate"`
	// RejectionReasons sums to TotalFiltered.
	RejectionReasons []ReasonCount `json:"rejection_reasons"`
	Sources          []SourceStats `json:"sources"`

	TotalWords      int         `json:"total_words"`
	EstimatedTokens int         `json:"estimated_tokens"`
	WordStats       WordStats   `json:"word_stats"`
	FileTypes       []TypeCount `json:"file_types"`
	WindowTokens    int         `json:"window_tokens"`
	LongDocuments   int         `json:"long_documents"`
	Sequences       int         `json:"sequences"`

	QualityThresholds map[string]float64 `json:"quality_thresholds,omitempty"`
	Splits            []SplitStats       `json:"splits,omitempty"`
}

// ReasonCount is one row of the rejection histogram.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

// SourceStats describes the accepted documents of one source.
type SourceStats struct {
	Source    string `json:"source"`
	Documents int    `json:"documents"`
	Words     int    `json:"words"`
}

// TypeCount counts accepted documents per file extension.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// WordStats is the word-count distribution of accepted documents. Median is
// the upper median.
type WordStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median int     `json:"median"`
}

// SplitStats describes one output split.
type SplitStats struct {
	Name      string `json:"name"`
	Documents int    `json:"documents"`
	Words     int    `json:"words"`
	Sources   int    `json:"sources"`
}

// Build derives the report from the final counters and the accepted
// documents using the default training window. It has no side effects.
func Build(counts pipeline.Counts, accepted []corpus.ScoredDocument) Report {
	return BuildWindow(counts, accepted, budget.DefaultWindowTokens)
}

// BuildWindow is Build with an explicit training window in tokens.
func BuildWindow(counts pipeline.Counts, accepted []corpus.ScoredDocument, window int) Report {
	if window <= 0 {
		window = budget.DefaultWindowTokens
	}
	r := Report{
		TotalInput:       counts.Seen,
		TotalKept:        counts.Kept,
		TotalFiltered:    counts.Filtered(),
		MalformedInput:   counts.Malformed,
		RejectionReasons: rankReasons(counts.Reasons),
		Sources:          []SourceStats{},
		FileTypes:        []TypeCount{},
		WindowTokens:     window,
	}
	if counts.Seen > 0 {
		r.RetentionRate = float64(counts.Kept) / float64(counts.Seen)
	}

	bySource := make(map[string]*SourceStats)
	byType := make(map[string]int)
	words := make([]int, 0, len(accepted))
	for _, d := range accepted {
		s, ok := bySource[d.Source]
		if !ok {
			s = &SourceStats{Source: d.Source}
			bySource[d.Source] = s
		}
		s.Documents++
		s.Words += d.WordCount
		byType[FileType(d.FilePath)]++
		words = append(words, d.WordCount)
		r.TotalWords += d.WordCount

		tokens := budget.EstimateTokens(d.Content, d.WordCount)
		n := budget.WindowsNeeded(tokens, window)
		r.Sequences += n
		if n > 1 {
			r.LongDocuments++
		}
	}
	for _, s := range bySource {
		r.Sources = append(r.Sources, *s)
	}
	sort.Slice(r.Sources, func(i, j int) bool {
		a, b := r.Sources[i], r.Sources[j]
		if a.Documents != b.Documents {
			return a.Documents > b.Documents
		}
		if a.Words != b.Words {
			return a.Words > b.Words
		}
		return a.Source < b.Source
	})
	for t, n := range byType {
		r.FileTypes = append(r.FileTypes, TypeCount{Type: t, Count: n})
	}
	sort.Slice(r.FileTypes, func(i, j int) bool {
		if r.FileTypes[i].Count != r.FileTypes[j].Count {
			return r.FileTypes[i].Count > r.FileTypes[j].Count
		}
		return r.FileTypes[i].Type < r.FileTypes[j].Type
	})
	r.WordStats = wordStats(words)
	r.EstimatedTokens = budget.EstimateTokensFromWords(r.TotalWords)
	return r
}

func rankReasons(m map[corpus.Reason]int64) []ReasonCount {
	out := make([]ReasonCount, 0, len(m))
	for r, n := range m {
		// Malformed records never reached the pipeline; they have their own total.
		if n > 0 && r != corpus.ReasonMalformedInput {
			out = append(out, ReasonCount{Reason: string(r), Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}

func wordStats(words []int) WordStats {
	if len(words) == 0 {
		return WordStats{}
	}
	sorted := append([]int(nil), words...)
	sort.Ints(sorted)
	total := 0
	for _, w := range sorted {
		total += w
	}
	return WordStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   float64(total) / float64(len(sorted)),
		Median: sorted[len(sorted)/2],
	}
}

// FileType is the lower-cased extension of p including the dot, or "web"
// when p has none.
func FileType(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if _, rest, ok := strings.Cut(p, "://"); ok {
		_, p, ok = strings.Cut(rest, "/")
		if !ok {
			return webFileType
		}
	}
	p = strings.TrimRight(strings.ReplaceAll(p, "\\", "/"), "/")
	if ext := strings.ToLower(path.Ext(p)); ext != "" {
		return ext
	}
	return webFileType
}

// Thresholds lists the numeric classifier settings in force so a report can
// be read without the config that produced it.
func Thresholds(cfg quality.Config) map[string]float64 {
	return map[string]float64{
		"min_word_count":         float64(cfg.MinWordCount),
		"max_word_count":         float64(cfg.MaxWordCount),
		"min_avg_word_length":    cfg.MinAvgWordLength,
		"max_avg_word_length":    cfg.MaxAvgWordLength,
		"min_sentence_length":    cfg.MinSentenceLength,
		"max_broken_chars_ratio": cfg.MaxBrokenCharsRatio,
		"accept_threshold":       cfg.AcceptThreshold,
		"source_floor":           cfg.SourceFloor,
	}
}

// SummarizeSplits computes per-split document, word and distinct source
// counts.
func SummarizeSplits(s split.Splits) []SplitStats {
	var out []SplitStats
	for _, part := range s.Named() {
		st := SplitStats{Name: part.Name, Documents: len(part.Documents)}
		sources := make(map[string]struct{})
		for _, d := range part.Documents {
			st.Words += d.WordCount
			sources[d.Source] = struct{}{}
		}
		st.Sources = len(sources)
		out = append(out, st)
	}
	return out
}
