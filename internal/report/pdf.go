package report

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the report to a PDF file at outPath.
func WritePDF(r Report, outPath string) error {
	return writeSimplePDF(Markdown(r), outPath)
}

// writeSimplePDF lays out the small Markdown subset Markdown produces:
// headings, paragraphs and pipe tables. The first row of a table is bold and
// separator rows are skipped.
func writeSimplePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	inTable := false
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			inTable = false
			pdf.Ln(4)
			continue
		}
		if strings.HasPrefix(s, "#") {
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 16.0
			if i >= 2 {
				size = 13.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			inTable = false
			continue
		}
		if strings.HasPrefix(s, "|") {
			cells := splitRow(s)
			if isSeparatorRow(cells) {
				continue
			}
			w := usable / float64(len(cells))
			style := ""
			if !inTable {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 10)
			for i, c := range cells {
				align := "L"
				if i > 0 {
					align = "R"
				}
				pdf.CellFormat(w, 6, tr(c), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 11)
			inTable = true
			continue
		}
		pdf.MultiCell(0, 5, tr(s), "", "L", false)
		inTable = false
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}

func splitRow(s string) []string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "|"), "|")
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}
