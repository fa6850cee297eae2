package quality

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

// Legacy is the keyword-presence fast path. It only answers keep or drop and
// gives every kept document a score of 1. The additive Classifier remains
// the authoritative model.
type Legacy struct {
	MinWords int
	MaxWords int
	sources  map[string]struct{}
}

var legacyJunk = []*regexp.Regexp{
	regexp.MustCompile(`reddit\.com`),
	regexp.MustCompile(`upvote|downvote|karma`),
	regexp.MustCompile(`permalink|save comment|give award`),
	regexp.MustCompile(`continue this thread|more replies`),
	regexp.MustCompile(`sort by:|new comments|best comments`),
	regexp.MustCompile(`removed by moderator|deleted by user`),
	regexp.MustCompile(`account suspended|shadowbanned`),
	regexp.MustCompile(`[0-9]+\s+points?\s+ago`),
	regexp.MustCompile(`submitted\s+[0-9]+\s+(hour|day|week|month)s?\s+ago`),
	regexp.MustCompile(`share\s+report\s+save`),
	regexp.MustCompile(`load more comments`),
	regexp.MustCompile(`view discussions in`),
}

var legacyKeywords = []string{
	"function", "class", "import", "const", "let", "def", "public", "private",
	"algorithm", "implementation", "documentation", "example", "tutorial", "guide",
	"api", "method", "parameter", "return", "error", "testing", "security",
}

// NewLegacy builds the fast path. The allow-list of the additive config is
// reused so both modes agree on trusted sources.
func NewLegacy(cfg Config) *Legacy {
	l := &Legacy{MinWords: 30, MaxWords: 20000, sources: make(map[string]struct{})}
	for _, s := range cfg.HighQualitySources {
		l.sources[strings.TrimSpace(s)] = struct{}{}
	}
	l.sources["web_fundamentals"] = struct{}{}
	return l
}

// Classify keeps documents that are not junk and either come from a trusted
// source or mention at least one technical keyword.
func (l *Legacy) Classify(doc corpus.RawDocument, normalized string) Verdict {
	if doc.Content == "" {
		return reject(corpus.ReasonEmptyContent)
	}
	if utf8.RuneCountInString(strings.TrimSpace(doc.Content)) < 50 || normalized == "" {
		return reject(corpus.ReasonEmptyAfterClean)
	}
	n := corpus.WordCount(normalized)
	if n < l.MinWords {
		return reject(corpus.ReasonTooShort)
	}
	if n > l.MaxWords {
		return reject(corpus.ReasonTooLong)
	}
	raw := doc.Content
	lower := strings.ToLower(raw)
	for _, re := range legacyJunk {
		if re.MatchString(lower) {
			return reject(corpus.ReasonSpamContent)
		}
	}
	size := float64(utf8.RuneCountInString(raw))
	if float64(strings.Count(raw, "�")) > size*0.05 {
		return reject(corpus.ReasonBrokenEncoding)
	}
	if float64(strings.Count(raw, "<")) > size*0.1 {
		return reject(corpus.ReasonMarkupHeavy)
	}
	if _, ok := l.sources[doc.Source]; ok {
		return Verdict{Score: 1}
	}
	for _, kw := range legacyKeywords {
		if strings.Contains(lower, kw) {
			return Verdict{Score: 1}
		}
	}
	return reject(corpus.ReasonNoTechnicalContent)
}
