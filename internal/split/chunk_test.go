package split

import (
	"strings"
	"testing"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

func sized(path string, words int) corpus.ScoredDocument {
	return corpus.ScoredDocument{Source: "s", FilePath: path, Content: strings.Repeat("w ", words), WordCount: words}
}

func lineLen(t *testing.T, d corpus.ScoredDocument) int {
	t.Helper()
	b, err := EncodeLine(d)
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}
	return len(b)
}

func TestChunks_RespectBudget(t *testing.T) {
	var in []corpus.ScoredDocument
	for i := 0; i < 40; i++ {
		in = append(in, sized(strings.Repeat("p", i+1), 10+i*3))
	}
	budget := 1024
	chunks, err := Chunks(in, budget)
	if err != nil {
		t.Fatalf("Chunks: %v", err)
	}
	total := 0
	for i, c := range chunks {
		if c.Index != i+1 {
			t.Fatalf("chunk %d has index %d", i, c.Index)
		}
		sum := 0
		for _, d := range c.Documents {
			sum += lineLen(t, d)
		}
		if sum != c.Bytes {
			t.Fatalf("chunk %d bytes %d, recomputed %d", c.Index, c.Bytes, sum)
		}
		if c.Bytes > budget && len(c.Documents) > 1 {
			t.Fatalf("chunk %d over budget with %d documents", c.Index, len(c.Documents))
		}
		total += len(c.Documents)
	}
	if total != len(in) {
		t.Fatalf("chunked %d of %d", total, len(in))
	}
	if first := chunks[0].Documents[0]; first.WordCount != 10+39*3 {
		t.Fatalf("largest document should come first, got %d words", first.WordCount)
	}
}

func TestChunks_OversizedDocumentIsolated(t *testing.T) {
	small := sized("a.md", 5)
	huge := sized("b.md", 2000)
	chunks, err := Chunks([]corpus.ScoredDocument{small, huge, small}, 500)
	if err != nil {
		t.Fatalf("Chunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Documents) != 1 || chunks[0].Documents[0].FilePath != "b.md" {
		t.Fatalf("oversized document should sit alone in the first chunk")
	}
	if len(chunks[1].Documents) != 2 {
		t.Fatalf("small documents should share a chunk")
	}
}

func TestChunks_InvalidBudget(t *testing.T) {
	if _, err := Chunks(nil, 0); err == nil {
		t.Fatalf("expected error")
	}
	chunks, err := Chunks(nil, 10)
	if err != nil || len(chunks) != 0 {
		t.Fatalf("empty input: %v %d", err, len(chunks))
	}
}

func TestEncodeLine_KeepsMarkupUnescaped(t *testing.T) {
	b, err := EncodeLine(corpus.ScoredDocument{Content: "<a> & b"})
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}
	if !strings.Contains(string(b), "<a> & b") || !strings.HasSuffix(string(b), "\n") {
		t.Fatalf("unexpected line %q", b)
	}
}
