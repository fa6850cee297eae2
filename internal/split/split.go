// Package split assigns accepted documents to train, validation and test
// sets and packs them into size-bounded chunks.
package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

// ratioTolerance absorbs float error when checking that ratios sum to one.
const ratioTolerance = 1e-9

// Ratios are the fractions of accepted documents assigned to each split.
// Test receives whatever train and validation leave over.
type Ratios struct {
	Train      float64 `yaml:"train" json:"train"`
	Validation float64 `yaml:"validation" json:"validation"`
	Test       float64 `yaml:"test" json:"test"`
}

// DefaultRatios is the 80/10/10 split.
func DefaultRatios() Ratios { return Ratios{Train: 0.8, Validation: 0.1, Test: 0.1} }

// Validate checks each ratio is in [0,1] and that they do not exceed one.
func (r Ratios) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{{"train", r.Train}, {"validation", r.Validation}, {"test", r.Test}} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			errs = append(errs, fmt.Errorf("%s ratio %g outside [0,1]", f.name, f.v))
		}
	}
	if sum := r.Train + r.Validation + r.Test; sum > 1+ratioTolerance {
		errs = append(errs, fmt.Errorf("ratios sum to %g, more than 1", sum))
	}
	if len(errs) > 0 {
		return fmt.Errorf("split: invalid ratios: %w", errors.Join(errs...))
	}
	return nil
}

// Splits holds the three disjoint document sets.
type Splits struct {
	Train      []corpus.ScoredDocument
	Validation []corpus.ScoredDocument
	Test       []corpus.ScoredDocument
}

// Len is the number of documents across all splits.
func (s Splits) Len() int { return len(s.Train) + len(s.Validation) + len(s.Test) }

// Named returns the splits in output order with their file stems.
func (s Splits) Named() []Named {
	return []Named{
		{Name: "train", Documents: s.Train},
		{Name: "validation", Documents: s.Validation},
		{Name: "test", Documents: s.Test},
	}
}

// Named pairs a split with its name.
type Named struct {
	Name      string
	Documents []corpus.ScoredDocument
}

// NewRand returns a generator seeded with *seed, or from the clock when seed
// is nil.
func NewRand(seed *int64) *rand.Rand {
	var s uint64
	if seed != nil {
		s = uint64(*seed)
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Assemble shuffles a copy of accepted with rng and cuts it by ratios. Split
// sizes are truncated; the test split takes the remainder so every document
// lands in exactly one split. The input slice is not modified.
func Assemble(accepted []corpus.ScoredDocument, ratios Ratios, rng *rand.Rand) (Splits, error) {
	if err := ratios.Validate(); err != nil {
		return Splits{}, err
	}
	if rng == nil {
		rng = NewRand(nil)
	}
	docs := make([]corpus.ScoredDocument, len(accepted))
	copy(docs, accepted)
	rng.Shuffle(len(docs), func(i, j int) { docs[i], docs[j] = docs[j], docs[i] })

	n := len(docs)
	nTrain := portion(n, ratios.Train)
	nVal := portion(n, ratios.Validation)
	if nTrain+nVal > n {
		nVal = n - nTrain
	}
	return Splits{
		Train:      docs[:nTrain:nTrain],
		Validation: docs[nTrain : nTrain+nVal : nTrain+nVal],
		Test:       docs[nTrain+nVal:],
	}, nil
}

// portion truncates n*ratio, forgiving float error just below an integer.
func portion(n int, ratio float64) int {
	v := int(math.Floor(float64(n)*ratio + ratioTolerance))
	if v > n {
		return n
	}
	return v
}
