// Package acquire produces raw documents from local data: JSONL record
// files and checked-out documentation repositories.
package acquire

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

// MalformedFunc is told about every record that could not be decoded. where
// is "file:line".
type MalformedFunc func(where string, err error)

// errFieldType marks a record whose fields have the wrong JSON types.
var errFieldType = errors.New("wrong field type")

// ReadJSONLFile reads raw document records from path. See ReadJSONL.
func ReadJSONLFile(path string, onMalformed MalformedFunc) ([]corpus.RawDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("acquire: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSONL(f, path, onMalformed)
}

// ReadJSONL decodes one record per line. Blank lines are ignored. Lines that
// are not JSON objects or carry wrongly typed fields are reported through
// onMalformed and skipped; only read errors abort.
func ReadJSONL(r io.Reader, name string, onMalformed MalformedFunc) ([]corpus.RawDocument, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var out []corpus.RawDocument
	for line := 1; ; line++ {
		raw, err := br.ReadBytes('\n')
		if len(bytes.TrimSpace(raw)) > 0 {
			doc, derr := decodeRecord(raw)
			if derr != nil {
				if onMalformed != nil {
					onMalformed(name+":"+strconv.Itoa(line), derr)
				}
			} else {
				out = append(out, doc)
			}
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("acquire: read %s: %w", name, err)
		}
	}
}

// record mirrors the accepted input shape. url stands in for file_path, and
// timestamp, type and word_count are kept as metadata.
type record struct {
	Source    *string         `json:"source"`
	FilePath  *string         `json:"file_path"`
	URL       *string         `json:"url"`
	Content   *string         `json:"content"`
	Metadata  json.RawMessage `json:"metadata"`
	Timestamp json.RawMessage `json:"timestamp"`
	Type      json.RawMessage `json:"type"`
	WordCount json.RawMessage `json:"word_count"`
}

func decodeRecord(line []byte) (corpus.RawDocument, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return corpus.RawDocument{}, err
	}
	if rec.Content == nil {
		return corpus.RawDocument{}, fmt.Errorf("%w: content is missing", errFieldType)
	}
	doc := corpus.RawDocument{Source: "unknown", Content: *rec.Content}
	if rec.Source != nil && *rec.Source != "" {
		doc.Source = *rec.Source
	}
	switch {
	case rec.FilePath != nil && *rec.FilePath != "":
		doc.FilePath = *rec.FilePath
	case rec.URL != nil:
		doc.FilePath = *rec.URL
	}

	meta := map[string]string{}
	if len(rec.Metadata) > 0 && string(rec.Metadata) != "null" {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(rec.Metadata, &m); err != nil {
			return corpus.RawDocument{}, fmt.Errorf("%w: metadata must be an object", errFieldType)
		}
		for k, v := range m {
			meta[k] = stringify(v)
		}
	}
	for k, v := range map[string]json.RawMessage{"timestamp": rec.Timestamp, "type": rec.Type, "word_count": rec.WordCount} {
		if len(v) > 0 && string(v) != "null" {
			if _, ok := meta[k]; !ok {
				meta[k] = stringify(v)
			}
		}
	}
	if len(meta) > 0 {
		doc.Metadata = meta
	}
	return doc, nil
}

// stringify renders a JSON value as a metadata string: strings unquoted,
// everything else in compact JSON.
func stringify(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
