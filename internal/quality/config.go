package quality

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Mode selects the classifier implementation.
const (
	ModeAdditive = "additive"
	ModeLegacy   = "legacy"
)

// Band is an inclusive word-count range.
type Band struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether n lies inside the band.
func (b Band) Contains(n int) bool { return n >= b.Min && n <= b.Max }

// Weights are the additive score components.
type Weights struct {
	Source           float64 `yaml:"source" json:"source"`
	SweetSpot        float64 `yaml:"sweetSpot" json:"sweetSpot"`
	Acceptable       float64 `yaml:"acceptable" json:"acceptable"`
	PerTechnicalTerm float64 `yaml:"perTechnicalTerm" json:"perTechnicalTerm"`
	TechnicalCap     float64 `yaml:"technicalCap" json:"technicalCap"`
	Header           float64 `yaml:"header" json:"header"`
	CodeBlock        float64 `yaml:"codeBlock" json:"codeBlock"`
	List             float64 `yaml:"list" json:"list"`
}

// Config carries every threshold and pattern set the classifier uses.
type Config struct {
	Mode string `yaml:"mode" json:"mode"`

	MinWordCount        int     `yaml:"minWordCount" json:"minWordCount"`
	MaxWordCount        int     `yaml:"maxWordCount" json:"maxWordCount"`
	MinAvgWordLength    float64 `yaml:"minAvgWordLength" json:"minAvgWordLength"`
	MaxAvgWordLength    float64 `yaml:"maxAvgWordLength" json:"maxAvgWordLength"`
	MinSentenceLength   float64 `yaml:"minSentenceLength" json:"minSentenceLength"`
	MaxBrokenCharsRatio float64 `yaml:"maxBrokenCharsRatio" json:"maxBrokenCharsRatio"`
	AcceptThreshold     float64 `yaml:"acceptThreshold" json:"acceptThreshold"`
	SourceFloor         float64 `yaml:"sourceFloor" json:"sourceFloor"`

	SweetSpot  Band    `yaml:"sweetSpot" json:"sweetSpot"`
	Acceptable Band    `yaml:"acceptable" json:"acceptable"`
	Weights    Weights `yaml:"weights" json:"weights"`

	SpamPatterns       []string `yaml:"spamPatterns" json:"spamPatterns"`
	BadPathPatterns    []string `yaml:"badPathPatterns" json:"badPathPatterns"`
	TechnicalPatterns  []string `yaml:"technicalPatterns" json:"technicalPatterns"`
	HighQualitySources []string `yaml:"highQualitySources" json:"highQualitySources"`
}

// DefaultConfig returns the thresholds and pattern sets used when nothing is
// configured.
func DefaultConfig() Config {
	return Config{
		Mode:                ModeAdditive,
		MinWordCount:        50,
		MaxWordCount:        50000,
		MinAvgWordLength:    3,
		MaxAvgWordLength:    20,
		MinSentenceLength:   10,
		MaxBrokenCharsRatio: 0.1,
		AcceptThreshold:     0.5,
		SourceFloor:         0.5,
		SweetSpot:           Band{Min: 200, Max: 5000},
		Acceptable:          Band{Min: 100, Max: 10000},
		Weights: Weights{
			Source:           0.3,
			SweetSpot:        0.2,
			Acceptable:       0.1,
			PerTechnicalTerm: 0.02,
			TechnicalCap:     0.3,
			Header:           0.1,
			CodeBlock:        0.2,
			List:             0.05,
		},
		SpamPatterns:       append([]string(nil), defaultSpamPatterns...),
		BadPathPatterns:    append([]string(nil), defaultBadPathPatterns...),
		TechnicalPatterns:  append([]string(nil), defaultTechnicalPatterns...),
		HighQualitySources: append([]string(nil), defaultHighQualitySources...),
	}
}

// Validate rejects out-of-range values. Nothing is clamped.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", ModeAdditive, ModeLegacy:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.MinWordCount < 0 || c.MaxWordCount < 0 {
		errs = append(errs, errors.New("word counts must not be negative"))
	}
	if c.MaxWordCount < c.MinWordCount {
		errs = append(errs, fmt.Errorf("maxWordCount %d below minWordCount %d", c.MaxWordCount, c.MinWordCount))
	}
	if c.MinAvgWordLength < 0 || c.MaxAvgWordLength < 0 {
		errs = append(errs, errors.New("average word lengths must not be negative"))
	}
	if c.MaxAvgWordLength < c.MinAvgWordLength {
		errs = append(errs, fmt.Errorf("maxAvgWordLength %g below minAvgWordLength %g", c.MaxAvgWordLength, c.MinAvgWordLength))
	}
	if c.MinSentenceLength < 0 {
		errs = append(errs, errors.New("minSentenceLength must not be negative"))
	}
	if !unit(c.MaxBrokenCharsRatio) {
		errs = append(errs, fmt.Errorf("maxBrokenCharsRatio %g outside [0,1]", c.MaxBrokenCharsRatio))
	}
	if !unit(c.AcceptThreshold) {
		errs = append(errs, fmt.Errorf("acceptThreshold %g outside [0,1]", c.AcceptThreshold))
	}
	if !unit(c.SourceFloor) {
		errs = append(errs, fmt.Errorf("sourceFloor %g outside [0,1]", c.SourceFloor))
	}
	if b := c.SweetSpot; b.Min < 0 || b.Max < b.Min {
		errs = append(errs, fmt.Errorf("sweetSpot band [%d,%d] is invalid", b.Min, b.Max))
	}
	if b := c.Acceptable; b.Min < 0 || b.Max < b.Min {
		errs = append(errs, fmt.Errorf("acceptable band [%d,%d] is invalid", b.Min, b.Max))
	}
	w := c.Weights
	if w.Source < 0 || w.SweetSpot < 0 || w.Acceptable < 0 || w.PerTechnicalTerm < 0 ||
		w.TechnicalCap < 0 || w.Header < 0 || w.CodeBlock < 0 || w.List < 0 {
		errs = append(errs, errors.New("weights must not be negative"))
	}
	for _, set := range []struct {
		name     string
		patterns []string
	}{
		{"spamPatterns", c.SpamPatterns},
		{"badPathPatterns", c.BadPathPatterns},
		{"technicalPatterns", c.TechnicalPatterns},
	} {
		for _, p := range set.patterns {
			if strings.TrimSpace(p) == "" {
				errs = append(errs, fmt.Errorf("%s contains an empty pattern", set.name))
				continue
			}
			if _, err := regexp.Compile(p); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", set.name, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("quality: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// Forum and social-media boilerplate. Matched against lower-cased text.
var defaultSpamPatterns = []string{
	`reddit\.com`,
	`upvote`,
	`downvote`,
	`karma`,
	`[0-9]+\s+points?`,
	`permalink`,
	`save\s+comment`,
	`give\s+award`,
	`share\s+report`,
	`continue\s+this\s+thread`,
	`view\s+discussions\s+in`,
	`more\s+replies`,
	`load\s+more\s+comments`,
	`sort\s+by:`,
	`new\s+comments`,
	`best\s+comments`,
	`top\s+comments`,
	`controversial`,
	`gilded`,
	`archived`,
	`locked`,
	`stickied`,
	`removed\s+by\s+moderator`,
	`deleted\s+by\s+user`,
	`account\s+suspended`,
	`shadowbanned`,
	`[0-9]+\s+comment\s+deleted`,
	`this\s+comment\s+has\s+been\s+deleted`,
	`comment\s+removed\s+by\s+moderator`,
	`user\s+deleted\s+their\s+account`,
}

// Forum, changelog and issue-tracker shaped paths. Matched against the
// lower-cased file path.
var defaultBadPathPatterns = []string{
	`reddit`,
	`comment`,
	`discussion`,
	`forum`,
	`thread`,
	`post`,
	`blog/_posts`,
	`issues`,
	`pull`,
	`changelog`,
	`release`,
	`news`,
	`announce`,
}

// Technical vocabulary. Each pattern counts once regardless of how often it
// occurs; matching is case-insensitive.
var defaultTechnicalPatterns = []string{
	`function\s+\w+`,
	`class\s+\w+`,
	`import\s+\w+`,
	`const\s+\w+`,
	`let\s+\w+`,
	`var\s+\w+`,
	`def\s+\w+`,
	`public\s+class`,
	`private\s+\w+`,
	`algorithm`,
	`implementation`,
	`documentation`,
	`example`,
	`tutorial`,
	`guide`,
	`reference`,
	`API`,
	`method`,
	`parameter`,
	`return`,
	`exception`,
	`error`,
	`debugging`,
	`testing`,
	`deployment`,
	`configuration`,
	`performance`,
	`security`,
	`authentication`,
	`authorization`,
	`database`,
	`query`,
	`server`,
	`client`,
	`framework`,
	`library`,
	`package`,
	`module`,
	`component`,
	`service`,
	`middleware`,
	`router`,
	`controller`,
	`model`,
	`view`,
	`template`,
	`schema`,
	`validation`,
	`serialization`,
	`parsing`,
	`optimization`,
	`caching`,
	`logging`,
	`monitoring`,
	`metrics`,
	`pipeline`,
	`workflow`,
	`containerization`,
	`orchestration`,
	`microservices`,
	`architecture`,
	`design pattern`,
	`best practice`,
	`code review`,
	`version control`,
	`git`,
	`repository`,
	`branch`,
	`merge`,
	`commit`,
	`pull request`,
}

var defaultHighQualitySources = []string{
	"mdn_content",
	"owasp",
	"openai_cookbook",
	"langchain",
	"huggingface_course",
	"react_docs",
	"vue_docs",
	"nextjs_docs",
	"kubernetes_docs",
	"system_design_primer",
	"clean_code_javascript",
	"javascript_algorithms",
	"python_patterns",
}
