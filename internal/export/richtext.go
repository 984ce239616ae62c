package export

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FlattenHTML reduces rich post content to plain paragraphs for the PDF.
// Block boundaries become newlines; input that is not HTML passes through
// unchanged.
func FlattenHTML(content string) string {
	if !strings.Contains(content, "<") {
		return strings.TrimSpace(content)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(content)
	}

	doc.Find("br").ReplaceWithHtml("\n")
	var lines []string
	blocks := doc.Find("p, div, li, h1, h2, h3, h4")
	if blocks.Length() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	blocks.Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks repeat their parent's text; keep leaves only.
		if sel.Find("p, div, li, h1, h2, h3, h4").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n")
}
