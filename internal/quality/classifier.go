// Package quality decides whether a normalized document is good enough to
// keep and assigns it a score in [0, 1].
//
// Hard rejections are evaluated in a fixed order and the first match wins:
//
//  1. raw content empty                      empty_content
//  2. normalized text empty                  empty_after_cleaning
//  3. broken character ratio too high        broken_encoding
//  4. spam pattern in lower-cased text       spam_content
//  5. bad pattern in lower-cased file path   bad_file_path
//  6. word count outside bounds              too_short / too_long
//  7. average word length outside bounds     words_too_short / words_too_long
//  8. average sentence length too low        sentences_too_short
//
// Documents passing every check receive an additive score; those below the
// accept threshold are rejected as low_quality.
package quality

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

// Verdict is the outcome of classifying one document. Reason is empty when
// the document is accepted.
type Verdict struct {
	Score  float64
	Reason corpus.Reason
}

// Accepted reports whether the document should be kept.
func (v Verdict) Accepted() bool { return v.Reason == corpus.ReasonNone }

func reject(r corpus.Reason) Verdict { return Verdict{Score: 0, Reason: r} }

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	headerRe        = regexp.MustCompile(`(?m)^#{1,6}[ \t]+\w+`)
	codeBlockRe     = regexp.MustCompile("(?s)```\\w*\\n.*?\\n```")
	listRe          = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
)

// Classifier is the additive quality model. It is immutable after New and
// safe for concurrent use.
type Classifier struct {
	cfg       Config
	spam      []*regexp.Regexp
	badPaths  []*regexp.Regexp
	technical []*regexp.Regexp
	sources   map[string]struct{}
}

// New validates cfg and compiles its pattern sets.
func New(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Classifier{cfg: cfg, sources: make(map[string]struct{}, len(cfg.HighQualitySources))}
	var err error
	if c.spam, err = compileAll(cfg.SpamPatterns, ""); err != nil {
		return nil, err
	}
	if c.badPaths, err = compileAll(cfg.BadPathPatterns, ""); err != nil {
		return nil, err
	}
	if c.technical, err = compileAll(cfg.TechnicalPatterns, "(?i)"); err != nil {
		return nil, err
	}
	for _, s := range cfg.HighQualitySources {
		if s = strings.TrimSpace(s); s != "" {
			c.sources[s] = struct{}{}
		}
	}
	return c, nil
}

func compileAll(patterns []string, prefix string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	seen := make(map[string]struct{}, len(patterns))
	for _, p := range patterns {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		re, err := regexp.Compile(prefix + p)
		if err != nil {
			return nil, fmt.Errorf("quality: compile %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Config returns the configuration the classifier was built with.
func (c *Classifier) Config() Config { return c.cfg }

// IsHighQualitySource reports whether source is on the allow-list.
func (c *Classifier) IsHighQualitySource(source string) bool {
	_, ok := c.sources[source]
	return ok
}

// Classify applies the hard rejections in order and scores survivors.
func (c *Classifier) Classify(doc corpus.RawDocument, normalized string) Verdict {
	if doc.Content == "" {
		return reject(corpus.ReasonEmptyContent)
	}
	if normalized == "" {
		return reject(corpus.ReasonEmptyAfterClean)
	}
	if BrokenRatio(normalized) > c.cfg.MaxBrokenCharsRatio {
		return reject(corpus.ReasonBrokenEncoding)
	}
	if matchAny(c.spam, strings.ToLower(normalized)) {
		return reject(corpus.ReasonSpamContent)
	}
	if matchAny(c.badPaths, strings.ToLower(doc.FilePath)) {
		return reject(corpus.ReasonBadFilePath)
	}

	words := strings.Fields(normalized)
	n := len(words)
	if n < c.cfg.MinWordCount {
		return reject(corpus.ReasonTooShort)
	}
	if n > c.cfg.MaxWordCount {
		return reject(corpus.ReasonTooLong)
	}
	if n > 0 {
		avg := averageWordLength(words)
		if avg < c.cfg.MinAvgWordLength {
			return reject(corpus.ReasonWordsTooShort)
		}
		if avg > c.cfg.MaxAvgWordLength {
			return reject(corpus.ReasonWordsTooLong)
		}
	}
	if avg, ok := AverageSentenceLength(normalized); ok && avg < c.cfg.MinSentenceLength {
		return reject(corpus.ReasonSentencesTooShort)
	}

	score := c.score(doc.Source, normalized, n)
	if score < c.cfg.AcceptThreshold {
		return Verdict{Score: score, Reason: corpus.ReasonLowQuality}
	}
	return Verdict{Score: score}
}

// score computes the additive model for a document that passed every hard
// rejection, including the high-quality source floor.
func (c *Classifier) score(source, text string, words int) float64 {
	w := c.cfg.Weights
	s := 0.0
	hq := c.IsHighQualitySource(source)
	if hq {
		s += w.Source
	}
	switch {
	case c.cfg.SweetSpot.Contains(words):
		s += w.SweetSpot
	case c.cfg.Acceptable.Contains(words):
		s += w.Acceptable
	}
	s += math.Min(float64(c.technicalMatches(text))*w.PerTechnicalTerm, w.TechnicalCap)
	if headerRe.MatchString(text) {
		s += w.Header
	}
	if codeBlockRe.MatchString(text) {
		s += w.CodeBlock
	}
	if listRe.MatchString(text) {
		s += w.List
	}
	s = clamp01(s)
	if hq && s < c.cfg.SourceFloor {
		s = c.cfg.SourceFloor
	}
	return s
}

func (c *Classifier) technicalMatches(text string) int {
	n := 0
	for _, re := range c.technical {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func averageWordLength(words []string) float64 {
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	return float64(total) / float64(len(words))
}

// AverageSentenceLength returns the mean number of words per sentence, where
// sentences are separated by runs of '.', '!' or '?'. ok is false when the
// text holds no sentence with words.
func AverageSentenceLength(text string) (avg float64, ok bool) {
	sentences, words := 0, 0
	for _, s := range sentenceSplitRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		sentences++
		words += len(strings.Fields(s))
	}
	if sentences == 0 {
		return 0, false
	}
	return float64(words) / float64(sentences), true
}

// BrokenRatio is the fraction of runes that signal broken encoding: code
// points beyond the basic multilingual plane, replacement characters, and
// control characters other than newline, carriage return and tab.
func BrokenRatio(text string) float64 {
	total, broken := 0, 0
	for _, r := range text {
		total++
		if isBroken(r) {
			broken++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(broken) / float64(total)
}

func isBroken(r rune) bool {
	switch {
	case r > 0xFFFF:
		return true
	case r == utf8.RuneError:
		return true
	case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
		return true
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
