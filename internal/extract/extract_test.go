package extract

import (
	"strings"
	"testing"
)

func TestFromHTML_PrefersMainOverBody(t *testing.T) {
	html := `<!doctype html>
    <html lang="en">
      <head><title>Test Page</title><meta name="description" content="A test page."></head>
      <body>
        <nav>Nav should be ignored</nav>
        <main>
          <h1>Main Heading</h1>
          <p>This is the main content paragraph.</p>
        </main>
        <footer>Footer text</footer>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "Test Page" {
		t.Fatalf("expected title 'Test Page', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "# Main Heading") {
		t.Fatalf("expected markdown heading, got %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "This is the main content paragraph.") {
		t.Fatalf("expected to contain main paragraph")
	}
	if strings.Contains(doc.Text, "Nav should be ignored") || strings.Contains(doc.Text, "Footer text") {
		t.Fatalf("did not expect site chrome in extracted content: %q", doc.Text)
	}
	if doc.Meta["lang"] != "en" || doc.Meta["description"] != "A test page." {
		t.Fatalf("unexpected meta %v", doc.Meta)
	}
}

func TestFromHTML_FallbackToBody(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>No Main</title></head>
      <body>
        <h2>Body Heading</h2>
        <p>Body paragraph</p>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "No Main" {
		t.Fatalf("expected title 'No Main', got %q", doc.Title)
	}
	if doc.Text != "## Body Heading\n\nBody paragraph" {
		t.Fatalf("unexpected text %q", doc.Text)
	}
	if doc.Meta != nil {
		t.Fatalf("expected no meta, got %v", doc.Meta)
	}
}

func TestFromHTML_ListsAndFencedCode(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Code and List</title></head>
      <body>
        <article>
          <h3>Examples</h3>
          <ul>
            <li>First item</li>
            <li>Second item
              <ul><li>Nested item</li></ul>
            </li>
          </ul>
          <pre><code class="language-python">def f():
    return   1</code></pre>
        </article>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	for _, want := range []string{"### Examples", "- First item", "- Second item", "  - Nested item", "```python\ndef f():\n    return   1\n```"} {
		if !strings.Contains(doc.Text, want) {
			t.Fatalf("expected %q in %q", want, doc.Text)
		}
	}
}

func TestFromHTML_SkipsConsentBanner(t *testing.T) {
	html := `<html><body><main>
      <div class="cookie-banner">We use cookies</div>
      <div role="navigation">Menu</div>
      <p>Real <code>content</code> here.</p>
    </main></body></html>`
	doc := FromHTML([]byte(html))
	if doc.Text != "Real `content` here." {
		t.Fatalf("unexpected text %q", doc.Text)
	}
}

func TestHeuristicExtractor(t *testing.T) {
	var e Extractor = HeuristicExtractor{}
	if got := e.Extract([]byte("<p>hi</p>")).Text; got != "hi" {
		t.Fatalf("got %q", got)
	}
}
