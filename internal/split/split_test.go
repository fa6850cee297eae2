package split

import (
	"fmt"
	"testing"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

func docs(n int) []corpus.ScoredDocument {
	out := make([]corpus.ScoredDocument, n)
	for i := range out {
		out[i] = corpus.ScoredDocument{Source: "s", FilePath: fmt.Sprintf("doc-%04d.md", i), Content: "x", WordCount: i % 17}
	}
	return out
}

func seeded(v int64) *int64 { return &v }

func TestAssemble_DefaultRatiosOnThousand(t *testing.T) {
	s, err := Assemble(docs(1000), DefaultRatios(), NewRand(seeded(42)))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(s.Train) != 800 || len(s.Validation) != 100 || len(s.Test) != 100 {
		t.Fatalf("got %d/%d/%d", len(s.Train), len(s.Validation), len(s.Test))
	}
}

func TestAssemble_CompleteAndDisjoint(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 10, 99, 1001} {
		in := docs(n)
		s, err := Assemble(in, Ratios{Train: 0.7, Validation: 0.2, Test: 0.1}, NewRand(seeded(int64(n))))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		seen := make(map[string]int)
		for _, part := range s.Named() {
			for _, d := range part.Documents {
				seen[d.FilePath]++
			}
		}
		if len(seen) != n || s.Len() != n {
			t.Fatalf("n=%d: %d distinct, %d total", n, len(seen), s.Len())
		}
		for p, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: %s appears %d times", n, p, c)
			}
		}
	}
}

func TestAssemble_SameSeedSameSplits(t *testing.T) {
	a, _ := Assemble(docs(50), DefaultRatios(), NewRand(seeded(7)))
	b, _ := Assemble(docs(50), DefaultRatios(), NewRand(seeded(7)))
	for i := range a.Train {
		if a.Train[i].FilePath != b.Train[i].FilePath {
			t.Fatalf("train differs at %d", i)
		}
	}
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	in := docs(20)
	if _, err := Assemble(in, DefaultRatios(), NewRand(seeded(1))); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for i, d := range in {
		if d.FilePath != fmt.Sprintf("doc-%04d.md", i) {
			t.Fatalf("input reordered at %d", i)
		}
	}
}

func TestAssemble_RemainderGoesToTest(t *testing.T) {
	s, err := Assemble(docs(10), Ratios{Train: 0.5, Validation: 0.25}, NewRand(seeded(3)))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(s.Train) != 5 || len(s.Validation) != 2 || len(s.Test) != 3 {
		t.Fatalf("got %d/%d/%d", len(s.Train), len(s.Validation), len(s.Test))
	}
}

func TestRatios_Validate(t *testing.T) {
	bad := []Ratios{
		{Train: -0.1, Validation: 0.5, Test: 0.1},
		{Train: 1.2},
		{Train: 0.8, Validation: 0.2, Test: 0.1},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for %+v", r)
		}
	}
	if err := (Ratios{Train: 0.7, Validation: 0.2, Test: 0.1}).Validate(); err != nil {
		t.Fatalf("float sum should be tolerated: %v", err)
	}
	if _, err := Assemble(docs(3), Ratios{Train: 2}, nil); err == nil {
		t.Fatalf("Assemble must reject invalid ratios")
	}
}
