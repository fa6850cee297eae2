// Package corpus holds the document records that flow between acquisition,
// filtering, splitting and reporting.
package corpus

import "strings"

// RawDocument is one acquired file or page before any cleaning. Values are
// treated as immutable once handed to the pipeline.
type RawDocument struct {
	Source   string            `json:"source"`
	FilePath string            `json:"file_path"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScoredDocument is an accepted document carrying its normalized content and
// the score the classifier assigned to it.
type ScoredDocument struct {
	Source       string            `json:"source"`
	FilePath     string            `json:"file_path"`
	Content      string            `json:"content"`
	WordCount    int               `json:"word_count"`
	QualityScore float64           `json:"quality_score"`
	Metadata     map[string]string `json:"metadata"`
}

// Reason tags why a document was discarded. The empty Reason means accepted.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonEmptyContent      Reason = "empty_content"
	ReasonEmptyAfterClean   Reason = "empty_after_cleaning"
	ReasonBrokenEncoding    Reason = "broken_encoding"
	ReasonSpamContent       Reason = "spam_content"
	ReasonBadFilePath       Reason = "bad_file_path"
	ReasonTooShort          Reason = "too_short"
	ReasonTooLong           Reason = "too_long"
	ReasonWordsTooShort     Reason = "words_too_short"
	ReasonWordsTooLong      Reason = "words_too_long"
	ReasonSentencesTooShort Reason = "sentences_too_short"
	ReasonLowQuality        Reason = "low_quality"
	ReasonMalformedInput    Reason = "malformed_input"

	// Only produced by the legacy keyword classifier.
	ReasonMarkupHeavy        Reason = "markup_heavy"
	ReasonNoTechnicalContent Reason = "no_technical_content"
)

// Reasons lists every rejection reason in evaluation order, followed by the
// input-level and legacy reasons.
func Reasons() []Reason {
	return []Reason{
		ReasonEmptyContent,
		ReasonEmptyAfterClean,
		ReasonBrokenEncoding,
		ReasonSpamContent,
		ReasonBadFilePath,
		ReasonTooShort,
		ReasonTooLong,
		ReasonWordsTooShort,
		ReasonWordsTooLong,
		ReasonSentencesTooShort,
		ReasonLowQuality,
		ReasonMalformedInput,
		ReasonMarkupHeavy,
		ReasonNoTechnicalContent,
	}
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CloneMetadata returns a copy that is never nil.
func CloneMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
