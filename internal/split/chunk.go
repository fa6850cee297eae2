package split

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

// DefaultChunkBytes is the chunk budget when none is configured.
const DefaultChunkBytes = 50 << 20

// Chunk is a group of documents whose encoded JSONL lines fit the budget,
// unless it holds a single oversized document.
type Chunk struct {
	Index     int
	Documents []corpus.ScoredDocument
	Bytes     int
}

// EncodeLine renders doc as one JSONL line including the trailing newline.
// Writers use it too so chunk sizes match the files on disk.
func EncodeLine(doc corpus.ScoredDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Chunks orders docs by word count, largest first (ties keep input order),
// and packs them greedily so no chunk exceeds budgetBytes. A document larger
// than the budget gets a chunk of its own. Indexes start at 1.
func Chunks(docs []corpus.ScoredDocument, budgetBytes int) ([]Chunk, error) {
	if budgetBytes <= 0 {
		return nil, errors.New("split: chunk budget must be positive")
	}
	sorted := make([]corpus.ScoredDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].WordCount > sorted[j].WordCount })

	var out []Chunk
	cur := Chunk{Index: 1}
	flush := func() {
		if len(cur.Documents) == 0 {
			return
		}
		out = append(out, cur)
		cur = Chunk{Index: cur.Index + 1}
	}
	for _, d := range sorted {
		line, err := EncodeLine(d)
		if err != nil {
			return nil, fmt.Errorf("split: encode %s: %w", d.FilePath, err)
		}
		size := len(line)
		if cur.Bytes+size > budgetBytes {
			flush()
		}
		cur.Documents = append(cur.Documents, d)
		cur.Bytes += size
		if size > budgetBytes {
			flush()
		}
	}
	flush()
	return out, nil
}
