// Package normalize cleans raw document text before quality classification.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Placeholders substituted for redacted spans.
const (
	URLPlaceholder   = "[URL]"
	EmailPlaceholder = "[EMAIL]"
)

// Form names accepted by Options.Form.
const (
	FormNFC  = "NFC"
	FormNFKC = "NFKC"
)

// Options configures a Normalizer.
type Options struct {
	// Form is the Unicode composition form, NFC when empty.
	Form string `yaml:"form" json:"form"`
}

// Validate reports unknown forms.
func (o Options) Validate() error {
	switch strings.ToUpper(strings.TrimSpace(o.Form)) {
	case "", FormNFC, FormNFKC:
		return nil
	default:
		return fmt.Errorf("normalize: unsupported unicode form %q", o.Form)
	}
}

// Normalizer applies the cleaning steps in a fixed order. It holds no mutable
// state and is safe for concurrent use.
type Normalizer struct {
	form norm.Form
}

// New builds a Normalizer. Unknown forms fall back to NFC; call
// Options.Validate first to reject them.
func New(opt Options) *Normalizer {
	f := norm.NFC
	if strings.EqualFold(strings.TrimSpace(opt.Form), FormNFKC) {
		f = norm.NFKC
	}
	return &Normalizer{form: f}
}

var (
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
	scriptRe      = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	styleRe       = regexp.MustCompile(`(?is)<style\b.*?</style\s*>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	urlRe         = regexp.MustCompile(`(?i)https?://\S+`)
	emailRe       = regexp.MustCompile(`\S+@\S+\.\S+`)
	spaceRunRe    = regexp.MustCompile(` {2,}`)
	blankLinesRe  = regexp.MustCompile(`\n[ \t\r]*\n(?:[ \t\r]*\n)+`)
	ellipsisRe    = regexp.MustCompile(`\.{3,}`)
	exclamationRe = regexp.MustCompile(`!{2,}`)
	questionRe    = regexp.MustCompile(`\?{2,}`)
)

// Normalize returns the cleaned text. An empty result means nothing usable was
// left; callers treat that as a rejection, not an error.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	form := norm.NFC
	if n != nil {
		form = n.form
	}
	s := strings.ToValidUTF8(raw, "�")
	s = form.String(s)
	s = stripControls(s)

	s = commentRe.ReplaceAllString(s, "")
	s = scriptRe.ReplaceAllString(s, "")
	s = styleRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")

	s = urlRe.ReplaceAllString(s, URLPlaceholder)
	s = emailRe.ReplaceAllString(s, EmailPlaceholder)

	s = spaceRunRe.ReplaceAllString(s, " ")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	s = ellipsisRe.ReplaceAllString(s, "...")
	s = exclamationRe.ReplaceAllString(s, "!")
	s = questionRe.ReplaceAllString(s, "?")

	s = strings.TrimSpace(s)
	// Removing tags or controls can leave a base letter next to its combining
	// mark; recompose so a second pass is a no-op.
	if !form.IsNormalString(s) {
		s = form.String(s)
	}
	return s
}

func stripControls(s string) string {
	clean := true
	for _, r := range s {
		if isStrippedControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isStrippedControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isStrippedControl(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return unicode.IsControl(r)
}
