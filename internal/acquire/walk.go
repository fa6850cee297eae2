package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/gocurate/internal/corpus"
	"github.com/hyperifyio/gocurate/internal/extract"
)

// DefaultPatterns are the globs used for a repository that lists none.
var DefaultPatterns = []string{"**/*.md", "**/*.mdx", "**/*.rst", "**/*.txt", "**/*.html", "**/*.htm", "**/*.ipynb"}

// maxFileBytes bounds a single file; larger files are skipped.
const maxFileBytes = 16 << 20

// Repo is a checked-out documentation source.
type Repo struct {
	Source   string   `yaml:"source" json:"source"`
	Dir      string   `yaml:"dir" json:"dir"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Validate reports a missing source or directory and glob patterns that
// doublestar cannot parse.
func (r Repo) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.Dir) == "" {
		errs = append(errs, errors.New("source and dir are required"))
	}
	for _, p := range r.Patterns {
		if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid pattern %q", p))
		}
	}
	return errors.Join(errs...)
}

// Walker turns repository files into raw documents.
type Walker struct {
	Logger    zerolog.Logger
	Extractor extract.Extractor
	// Workers bounds how many repositories are read at once.
	Workers int
}

// NewWalker returns a Walker using the heuristic HTML extractor.
func NewWalker(logger zerolog.Logger, workers int) *Walker {
	return &Walker{Logger: logger, Extractor: extract.HeuristicExtractor{}, Workers: workers}
}

// Walk reads every repository and returns the documents grouped by
// repository in the order given, files sorted by path. Missing directories
// and unreadable files are logged and skipped.
func (w *Walker) Walk(ctx context.Context, repos []Repo) ([]corpus.RawDocument, error) {
	results := make([][]corpus.RawDocument, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	if w.Workers > 0 {
		g.SetLimit(w.Workers)
	}
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			docs, err := w.walkRepo(gctx, repo)
			if err != nil {
				return err
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []corpus.RawDocument
	for _, docs := range results {
		out = append(out, docs...)
	}
	return out, nil
}

func (w *Walker) walkRepo(ctx context.Context, repo Repo) ([]corpus.RawDocument, error) {
	log := w.Logger.With().Str("source", repo.Source).Str("dir", repo.Dir).Logger()
	info, err := os.Stat(repo.Dir)
	if err != nil || !info.IsDir() {
		log.Warn().Msg("repository directory missing, skipping")
		return nil, nil
	}
	root := filepath.Clean(repo.Dir)
	patterns := repo.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	files := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("acquire: glob %q in %s: %w", pattern, repo.Source, err)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(root, m)
			if err != nil || strings.HasPrefix(rel, "..") || skipPath(rel) {
				continue
			}
			files[rel] = struct{}{}
		}
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var docs []corpus.RawDocument
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, ok, err := w.readFile(root, rel, repo.Source)
		if err != nil {
			log.Debug().Err(err).Str("file", rel).Msg("skipping file")
			continue
		}
		if ok {
			docs = append(docs, doc)
		}
	}
	log.Info().Int("files", len(paths)).Int("documents", len(docs)).Msg("repository read")
	return docs, nil
}

// skipPath drops vendored and VCS directories.
func skipPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		switch part {
		case ".git", "node_modules", "vendor", ".ipynb_checkpoints", "__pycache__":
			return true
		}
	}
	return false
}

func (w *Walker) readFile(root, rel, source string) (corpus.RawDocument, bool, error) {
	full := filepath.Join(root, rel)
	info, err := os.Stat(full)
	if err != nil {
		return corpus.RawDocument{}, false, err
	}
	if info.IsDir() {
		return corpus.RawDocument{}, false, nil
	}
	if info.Size() > maxFileBytes {
		return corpus.RawDocument{}, false, fmt.Errorf("file is %d bytes, limit %d", info.Size(), maxFileBytes)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return corpus.RawDocument{}, false, err
	}
	mime := mimetype.Detect(data)
	if !isText(mime) {
		return corpus.RawDocument{}, false, fmt.Errorf("binary content %s", mime.String())
	}
	text, err := decodeText(data, mime.String())
	if err != nil {
		return corpus.RawDocument{}, false, err
	}

	path := filepath.ToSlash(rel)
	doc := corpus.RawDocument{Source: source, FilePath: path}
	switch ext := strings.ToLower(filepath.Ext(rel)); ext {
	case ".ipynb":
		content, err := notebookText([]byte(text))
		if err != nil {
			return corpus.RawDocument{}, false, err
		}
		doc.Source = source + "_notebooks"
		doc.Content = content
		doc.Metadata = map[string]string{"type": "jupyter_notebook"}
	case ".py":
		content := docstrings(text)
		if content == "" {
			return corpus.RawDocument{}, false, nil
		}
		doc.Source = source + "_code_docs"
		doc.Content = content
		doc.Metadata = map[string]string{"type": "python_docstrings"}
	case ".html", ".htm":
		page := w.Extractor.Extract([]byte(text))
		doc.Content = page.Text
		doc.Metadata = corpus.CloneMetadata(page.Meta)
		if page.Title != "" {
			doc.Metadata["title"] = page.Title
		}
	default:
		meta, body := frontMatter(text)
		doc.Content = body
		doc.Metadata = meta
	}
	if doc.Content == "" {
		return corpus.RawDocument{}, false, nil
	}
	return doc, true, nil
}

// isText accepts anything in the text/plain hierarchy plus JSON, which is
// how notebooks are detected.
func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("application/json") {
			return true
		}
	}
	return false
}

// decodeText converts data to UTF-8, guessing the charset when it is not
// valid UTF-8 already. Line endings become \n.
func decodeText(data []byte, contentType string) (string, error) {
	if !utf8.Valid(data) {
		enc, name, _ := charset.DetermineEncoding(data, contentType)
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
		if err != nil {
			return "", fmt.Errorf("transcode from %s: %w", name, err)
		}
		data = decoded
	}
	s := string(bytes.TrimPrefix(data, []byte("\ufeff")))
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n"), nil
}
