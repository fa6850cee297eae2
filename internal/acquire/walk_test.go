package acquire

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_ReadsSupportedFormats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/guide.md", "---\ntitle: Guide\ntags: [a, b]\n---\n# Guide\n\nBody text.\n")
	writeFile(t, root, "docs/nested/page.html", "<html><head><title>Page</title></head><body><main><h1>Hi</h1><p>There</p></main></body></html>")
	writeFile(t, root, "nb/intro.ipynb", `{"cells":[{"cell_type":"markdown","source":["# Intro\n","text"]},{"cell_type":"code","source":"x = 1  # set x\nprint(x)"}]}`)
	writeFile(t, root, "node_modules/dep/readme.md", "ignored")
	writeFile(t, root, "docs/empty.md", "")
	writeFile(t, root, "docs/image.md", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00")

	w := NewWalker(zerolog.Nop(), 2)
	docs, err := w.Walk(context.Background(), []Repo{
		{Source: "site", Dir: root},
		{Source: "gone", Dir: filepath.Join(root, "does-not-exist")},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	byPath := map[string]int{}
	for i, d := range docs {
		byPath[d.FilePath] = i
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d: %v", len(docs), byPath)
	}

	md := docs[byPath["docs/guide.md"]]
	if md.Source != "site" || md.Metadata["title"] != "Guide" || md.Metadata["tags"] != "a, b" {
		t.Fatalf("unexpected markdown doc %+v", md)
	}
	if !strings.HasPrefix(md.Content, "# Guide") {
		t.Fatalf("front matter should be stripped, got %q", md.Content)
	}

	page := docs[byPath["docs/nested/page.html"]]
	if page.Content != "# Hi\n\nThere" || page.Metadata["title"] != "Page" {
		t.Fatalf("unexpected html doc %+v", page)
	}

	nb := docs[byPath["nb/intro.ipynb"]]
	if nb.Source != "site_notebooks" || nb.Content != "# Intro\ntext\n\n# set x" {
		t.Fatalf("unexpected notebook doc %+v", nb)
	}

	// Sorted by path within the repository.
	if docs[0].FilePath != "docs/guide.md" || docs[2].FilePath != "nb/intro.ipynb" {
		t.Fatalf("documents not sorted: %v", byPath)
	}
}

func TestWalk_PythonDocstrings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/mod.py", "def f():\n    \"\"\"Compute f.\"\"\"\n    return 1\n\n'''Module notes.'''\n")
	writeFile(t, root, "pkg/bare.py", "x = 1\n")
	docs, err := NewWalker(zerolog.Nop(), 0).Walk(context.Background(), []Repo{{Source: "lib", Dir: root, Patterns: []string{"**/*.py"}}})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	if docs[0].Source != "lib_code_docs" || docs[0].Content != "Compute f.\n\nModule notes." {
		t.Fatalf("unexpected doc %+v", docs[0])
	}
}

func TestWalk_BadPattern(t *testing.T) {
	root := t.TempDir()
	_, err := NewWalker(zerolog.Nop(), 1).Walk(context.Background(), []Repo{{Source: "x", Dir: root, Patterns: []string{"[-"}}})
	if err == nil {
		t.Fatalf("expected glob error")
	}
}

func TestRepo_Validate(t *testing.T) {
	if err := (Repo{Source: "docs", Dir: "d", Patterns: []string{"**/*.md", "guide/*.{md,rst}"}}).Validate(); err != nil {
		t.Fatalf("valid repo rejected: %v", err)
	}
	if err := (Repo{Source: "docs", Dir: "d"}).Validate(); err != nil {
		t.Fatalf("default patterns must be allowed: %v", err)
	}
	for _, r := range []Repo{
		{Source: "docs", Dir: "d", Patterns: []string{"[-"}},
		{Source: "docs", Dir: "d", Patterns: []string{" "}},
		{Source: "", Dir: "d"},
	} {
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for %+v", r)
		}
	}
}

func TestWalk_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "text")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWalker(zerolog.Nop(), 1).Walk(ctx, []Repo{{Source: "x", Dir: root}}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDecodeText_Latin1(t *testing.T) {
	got, err := decodeText([]byte("caf\xe9\r\nna\xefve"), "text/plain; charset=iso-8859-1")
	if err != nil {
		t.Fatalf("decodeText: %v", err)
	}
	if got != "café\nnaïve" {
		t.Fatalf("got %q", got)
	}
}

func TestFrontMatter(t *testing.T) {
	meta, body := frontMatter("no front matter")
	if meta != nil || body != "no front matter" {
		t.Fatalf("unexpected %v %q", meta, body)
	}
	meta, body = frontMatter("---\ntitle: [unclosed\nauthor: Ann\n---\nbody")
	if meta["author"] != "Ann" || body != "body" {
		t.Fatalf("fallback parse failed: %v %q", meta, body)
	}
	meta, body = frontMatter("---\nseo:\n  title: T\n  rank: 2\n---\n\nbody")
	if meta["seo"] != "rank=2, title=T" || body != "body" {
		t.Fatalf("nested parse failed: %v %q", meta, body)
	}
}

func TestNotebookText_Invalid(t *testing.T) {
	if _, err := notebookText([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
