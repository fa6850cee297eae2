package acquire

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter splits a leading "---" delimited YAML block from text. Values
// are flattened to strings. Text without a block is returned unchanged with
// nil metadata.
func frontMatter(text string) (map[string]string, string) {
	if !strings.HasPrefix(text, "---\n") {
		return nil, text
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, text
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}

	meta := map[string]string{}
	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(block), &parsed); err == nil {
		for k, v := range parsed {
			meta[k] = flatten(v)
		}
	} else {
		for _, line := range strings.Split(block, "\n") {
			if k, v, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(k) != "" {
				meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}
	if len(meta) == 0 {
		meta = nil
	}
	return meta, strings.TrimLeft(body, "\n")
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, flatten(e))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+flatten(t[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

type notebook struct {
	Cells []struct {
		CellType string          `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	} `json:"cells"`
}

var commentRe = regexp.MustCompile(`(?m)#.*$`)

// notebookText keeps markdown cells and the comments of code cells.
func notebookText(data []byte) (string, error) {
	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return "", fmt.Errorf("notebook: %w", err)
	}
	var parts []string
	for _, cell := range nb.Cells {
		src, err := cellSource(cell.Source)
		if err != nil {
			return "", fmt.Errorf("notebook cell: %w", err)
		}
		switch cell.CellType {
		case "markdown":
			if strings.TrimSpace(src) != "" {
				parts = append(parts, src)
			}
		case "code":
			if comments := commentRe.FindAllString(src, -1); len(comments) > 0 {
				parts = append(parts, strings.Join(comments, "\n"))
			}
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// cellSource accepts both the list-of-lines and the single-string form.
func cellSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, ""), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

var (
	tripleDoubleRe = regexp.MustCompile(`(?s)"""(.*?)"""`)
	tripleSingleRe = regexp.MustCompile(`(?s)'''(.*?)'''`)
)

// docstrings collects triple-quoted strings from Python source, double
// quoted ones first.
func docstrings(src string) string {
	var parts []string
	for _, re := range []*regexp.Regexp{tripleDoubleRe, tripleSingleRe} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			if s := strings.TrimSpace(m[1]); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}
