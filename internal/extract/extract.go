// Package extract turns HTML pages into plain text that keeps the page
// structure in Markdown form: headings, list items and fenced code blocks.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is a simplified representation of extracted page content.
type Document struct {
	Title string
	Text  string
	// Meta holds the page language and description when present.
	Meta map[string]string
}

// FromHTML extracts readable text from HTML, preferring <main> or <article>,
// falling back to <body>. Navigation, footers and consent banners are
// skipped.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}

	doc := Document{Title: strings.TrimSpace(findTitle(node)), Meta: findMeta(node)}
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	if content != nil {
		var b strings.Builder
		w := &writer{b: &b}
		w.walk(content)
		doc.Text = normalizeWhitespace(b.String())
	}
	return doc
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findMeta(n *html.Node) map[string]string {
	meta := map[string]string{}
	if root := findFirst(n, "html"); root != nil {
		if lang := attr(root, "lang"); lang != "" {
			meta["lang"] = lang
		}
	}
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode && cur.Data == "meta" {
			name := strings.ToLower(attr(cur, "name"))
			if name == "" {
				name = strings.ToLower(attr(cur, "property"))
			}
			if name == "description" || name == "og:description" {
				if v := strings.TrimSpace(attr(cur, "content")); v != "" {
					if _, ok := meta["description"]; !ok {
						meta["description"] = v
					}
				}
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	if head := findFirst(n, "head"); head != nil {
		dfs(head)
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

type writer struct {
	b     *strings.Builder
	depth int // list nesting
}

func (w *writer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		data := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(n.Data)
		w.b.WriteString(data)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	if isBoilerplateContainer(n) {
		return
	}
	name := strings.ToLower(n.Data)
	switch name {
	case "script", "style", "noscript", "nav", "footer", "aside", "iframe", "form", "button", "svg", "template":
		return
	case "pre":
		w.fence(n)
		return
	case "br":
		w.b.WriteString("\n")
		return
	case "hr":
		w.b.WriteString("\n\n")
		return
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.b.WriteString("\n\n")
		w.b.WriteString(strings.Repeat("#", int(name[1]-'0')))
		w.b.WriteString(" ")
		w.children(n)
		w.b.WriteString("\n\n")
		return
	case "li":
		w.b.WriteString("\n")
		if w.depth > 1 {
			w.b.WriteString(strings.Repeat("  ", w.depth-1))
		}
		w.b.WriteString("- ")
		w.children(n)
		w.b.WriteString("\n")
		return
	case "ul", "ol":
		w.depth++
		w.b.WriteString("\n")
		w.children(n)
		w.b.WriteString("\n")
		w.depth--
		return
	case "code":
		w.b.WriteString("`")
		w.children(n)
		w.b.WriteString("`")
		return
	case "p", "div", "section", "blockquote", "table", "tr", "dl", "dt", "dd", "figure", "figcaption":
		w.b.WriteString("\n")
		w.children(n)
		w.b.WriteString("\n")
		if name == "p" || name == "blockquote" {
			w.b.WriteString("\n")
		}
		return
	case "td", "th":
		w.children(n)
		w.b.WriteString(" ")
		return
	}
	w.children(n)
}

func (w *writer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// fence writes a <pre> block verbatim inside a Markdown code fence.
func (w *writer) fence(n *html.Node) {
	var code strings.Builder
	rawText(&code, n)
	body := strings.Trim(code.String(), "\n")
	if strings.TrimSpace(body) == "" {
		return
	}
	w.b.WriteString("\n\n```")
	w.b.WriteString(language(n))
	w.b.WriteString("\n")
	w.b.WriteString(body)
	w.b.WriteString("\n```\n\n")
}

func rawText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rawText(b, c)
	}
}

// language reads a "language-x" or "lang-x" class from the block or its
// first <code> child.
func language(pre *html.Node) string {
	nodes := []*html.Node{pre}
	if code := findFirst(pre, "code"); code != nil {
		nodes = append(nodes, code)
	}
	for _, n := range nodes {
		for _, cls := range strings.Fields(attr(n, "class")) {
			for _, prefix := range []string{"language-", "lang-"} {
				if strings.HasPrefix(cls, prefix) {
					return strings.TrimPrefix(cls, prefix)
				}
			}
		}
	}
	return ""
}

// isBoilerplateContainer returns true if the element looks like a consent
// banner or site chrome.
func isBoilerplateContainer(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if key != "id" && key != "class" && !strings.HasPrefix(key, "data-") && key != "aria-label" && key != "role" {
			continue
		}
		val := strings.ToLower(a.Val)
		if containsAny(val, []string{"cookie", "consent", "gdpr"}) {
			return true
		}
		if key == "role" && containsAny(val, []string{"navigation", "banner", "contentinfo"}) {
			return true
		}
		if containsAny(val, []string{"breadcrumb", "sidebar", "edit-this-page", "pagination"}) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// normalizeWhitespace trims lines, collapses space runs and keeps at most
// one blank line in a row. Lines inside code fences are left untouched.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			out = append(out, strings.TrimSpace(line))
			continue
		}
		if inFence {
			out = append(out, strings.TrimRight(line, " \t\r"))
			continue
		}
		indent := ""
		if t := strings.TrimLeft(line, " "); strings.HasPrefix(t, "- ") {
			indent = line[:len(line)-len(t)]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, indent+collapseSpaces(trimmed))
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
