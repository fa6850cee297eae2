package app

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/gocurate/internal/corpus"
)

func TestBuildManifestEntries_HashesAndSorts(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"b.txt": "world\n", "a.txt": "hello"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := buildManifestEntries(dir, []string{"b.txt", "a.txt"}, map[string]int{"b.txt": 1})
	if err != nil {
		t.Fatalf("buildManifestEntries: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "a.txt" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	// sha256("hello")
	if entries[0].SHA256 != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" || entries[0].Bytes != 5 {
		t.Fatalf("bad digest %+v", entries[0])
	}
	if entries[1].Records != 1 || entries[0].Records != 0 {
		t.Fatalf("records not attached: %+v", entries)
	}
	if _, err := buildManifestEntries(dir, []string{"missing"}, nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteSHA256SUMSAndBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := writeJSONL(filepath.Join(dir, "train.jsonl"), []corpus.ScoredDocument{{Source: "s", Content: "x"}}); err != nil {
		t.Fatalf("writeJSONL: %v", err)
	}
	names := []string{"train.jsonl"}
	if err := writeSHA256SUMS(dir, names); err != nil {
		t.Fatalf("writeSHA256SUMS: %v", err)
	}
	sums, _ := os.ReadFile(filepath.Join(dir, checksumsName))
	if !strings.HasSuffix(string(sums), "  train.jsonl\n") {
		t.Fatalf("unexpected sums %q", sums)
	}

	out := filepath.Join(dir, bundleName)
	if err := tarGzFiles(dir, append(names, checksumsName), out); err != nil {
		t.Fatalf("tarGzFiles: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	tr := tar.NewReader(gz)
	var got []string
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		got = append(got, hdr.Name)
	}
	if len(got) != 2 || got[0] != "out/SHA256SUMS" || got[1] != "out/train.jsonl" {
		t.Fatalf("unexpected archive entries %v", got)
	}
}

func TestWriteSample_TruncatesPreview(t *testing.T) {
	p := filepath.Join(t.TempDir(), sampleName)
	docs := []corpus.ScoredDocument{
		{Source: "s", FilePath: "a.md", Content: strings.Repeat("é", 20), WordCount: 1, QualityScore: 0.75},
		{Source: "s", FilePath: "b.md", Content: "short"},
	}
	if err := writeSample(p, docs, 10, 5); err != nil {
		t.Fatalf("writeSample: %v", err)
	}
	b, _ := os.ReadFile(p)
	s := string(b)
	if !strings.Contains(s, "Sample of 2 training documents") || !strings.Contains(s, "ééééé...") || !strings.Contains(s, "Quality: 0.75") {
		t.Fatalf("unexpected sample:\n%s", s)
	}
	if strings.Contains(s, "short...") {
		t.Fatalf("short content must not be marked as truncated")
	}
}
