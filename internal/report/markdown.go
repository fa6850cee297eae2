package report

import (
	"fmt"
	"strings"
)

// Markdown renders the report as a human-readable summary. The PDF writer
// lays out the same text.
func Markdown(r Report) string {
	var b strings.Builder
	b.WriteString("# Corpus quality report\n\n")
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n\n", r.RunID)
	}

	b.WriteString("## Totals\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Input documents | %d |\n", r.TotalInput)
	fmt.Fprintf(&b, "| Kept | %d |\n", r.TotalKept)
	fmt.Fprintf(&b, "| Filtered | %d |\n", r.TotalFiltered)
	fmt.Fprintf(&b, "| Malformed records (not in input) | %d |\n", r.MalformedInput)
	fmt.Fprintf(&b, "| Retention rate | %.1f%% |\n", r.RetentionRate*100)
	fmt.Fprintf(&b, "| Total words | %d |\n", r.TotalWords)
	fmt.Fprintf(&b, "| Estimated tokens | %d |\n", r.EstimatedTokens)
	fmt.Fprintf(&b, "| Sequences of %d tokens | %d |\n", r.WindowTokens, r.Sequences)
	fmt.Fprintf(&b, "| Documents longer than one sequence | %d |\n", r.LongDocuments)
	b.WriteString("\n")

	b.WriteString("## Word counts\n\n")
	fmt.Fprintf(&b, "Min %d, max %d, mean %.1f, median %d.\n\n", r.WordStats.Min, r.WordStats.Max, r.WordStats.Mean, r.WordStats.Median)

	if len(r.RejectionReasons) > 0 {
		b.WriteString("## Rejection reasons\n\n| Reason | Count |\n|---|---|\n")
		for _, rc := range r.RejectionReasons {
			fmt.Fprintf(&b, "| %s | %d |\n", rc.Reason, rc.Count)
		}
		b.WriteString("\n")
	}
	if len(r.Sources) > 0 {
		b.WriteString("## Sources\n\n| Source | Documents | Words |\n|---|---|---|\n")
		for _, s := range r.Sources {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", s.Source, s.Documents, s.Words)
		}
		b.WriteString("\n")
	}
	if len(r.FileTypes) > 0 {
		b.WriteString("## File types\n\n| Type | Documents |\n|---|---|\n")
		for _, ft := range r.FileTypes {
			fmt.Fprintf(&b, "| %s | %d |\n", ft.Type, ft.Count)
		}
		b.WriteString("\n")
	}
	if len(r.Splits) > 0 {
		b.WriteString("## Splits\n\n| Split | Documents | Words | Sources |\n|---|---|---|---|\n")
		for _, s := range r.Splits {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", s.Name, s.Documents, s.Words, s.Sources)
		}
		b.WriteString("\n")
	}
	return b.String()
}
