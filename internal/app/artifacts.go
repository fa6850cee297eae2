package app

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperifyio/gocurate/internal/corpus"
	"github.com/hyperifyio/gocurate/internal/split"
)

// Artifact file names inside the output directory.
const (
	reportJSONName     = "quality_report.json"
	reportMarkdownName = "quality_report.md"
	reportPDFName      = "quality_report.pdf"
	manifestName       = "manifest.json"
	sampleName         = "sample_inspection.txt"
	checksumsName      = "SHA256SUMS"
	bundleName         = "corpus_bundle.tar.gz"
)

// writeJSONL writes one document per line and returns the record count.
func writeJSONL(path string, docs []corpus.ScoredDocument) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	w := bufio.NewWriterSize(f, 1<<20)
	for _, d := range docs {
		line, err := split.EncodeLine(d)
		if err != nil {
			f.Close()
			return 0, fmt.Errorf("encode %s: %w", d.FilePath, err)
		}
		if _, err := w.Write(line); err != nil {
			f.Close()
			return 0, err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, err
	}
	return len(docs), f.Close()
}

func chunkName(index int) string { return fmt.Sprintf("corpus_chunk_%03d.jsonl", index) }

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// writeSample writes the first n training documents with a preview of at
// most preview characters each, for eyeballing a run.
func writeSample(path string, docs []corpus.ScoredDocument, n, preview int) error {
	if n > len(docs) {
		n = len(docs)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sample of %d training documents\n", n)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")
	for i, d := range docs[:n] {
		fmt.Fprintf(&b, "Document %d\n", i+1)
		fmt.Fprintf(&b, "Source: %s\n", d.Source)
		fmt.Fprintf(&b, "File: %s\n", d.FilePath)
		fmt.Fprintf(&b, "Words: %d\n", d.WordCount)
		fmt.Fprintf(&b, "Quality: %.2f\n", d.QualityScore)
		text := truncateRunes(d.Content, preview)
		b.WriteString("Preview:\n")
		b.WriteString(text)
		if len(text) < len(d.Content) {
			b.WriteString("...")
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", 50))
		b.WriteString("\n\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// writeSHA256SUMS lists the digest of the named files of dir in sha256sum
// format.
func writeSHA256SUMS(dir string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		sum, _, err := sha256File(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		b.WriteString(sum)
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(dir, checksumsName), []byte(b.String()), 0o644)
}

func sha256File(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// tarGzFiles packs the named files of dir into outPath under a directory
// named after dir. Names are sorted so the archive layout is stable.
func tarGzFiles(dir string, names []string, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	base := filepath.Base(dir)
	for _, name := range sorted {
		if err := addToTar(tw, filepath.Join(dir, name), filepath.ToSlash(filepath.Join(base, name))); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addToTar(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
