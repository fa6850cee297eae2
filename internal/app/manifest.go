package app

import (
	"path/filepath"
	"sort"
	"time"
)

// manifestEntry records one written artifact.
type manifestEntry struct {
	Name    string `json:"name"`
	SHA256  string `json:"sha256"`
	Bytes   int64  `json:"bytes"`
	Records int    `json:"records,omitempty"`
}

// manifest captures run details that aid reproducibility.
type manifest struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Version     string          `json:"version"`
	Commit      string          `json:"commit"`
	Seed        *int64          `json:"seed,omitempty"`
	Inputs      []string        `json:"inputs,omitempty"`
	Repos       []string        `json:"repos,omitempty"`
	Artifacts   []manifestEntry `json:"artifacts"`
}

// buildManifestEntries hashes each named file in dir. records maps file
// names to the number of JSONL records they hold.
func buildManifestEntries(dir string, names []string, records map[string]int) ([]manifestEntry, error) {
	out := make([]manifestEntry, 0, len(names))
	for _, name := range names {
		sum, n, err := sha256File(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, manifestEntry{Name: name, SHA256: sum, Bytes: n, Records: records[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
