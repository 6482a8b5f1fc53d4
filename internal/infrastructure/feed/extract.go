package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minBodyLength is the threshold below which a candidate container is not
// trusted and extraction falls back to the full rendered page.
const minBodyLength = 100

// strippedNodes never contain article text.
const strippedNodes = "script,style,nav,footer,header,iframe,noscript,form,aside"

// containerSelectors are tried in DOM order; the largest matching element wins.
var containerSelectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".article-body",
	".article-content",
	".post-content",
	".entry-content",
	".story-body",
	"#content",
}

// ExtractArticleText pulls readable article text out of rendered page HTML.
// It selects the largest candidate container, strips non-content nodes, and
// falls back to the whole page when the candidate is too short. Returns ""
// when the document holds no text at all.
func ExtractArticleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find(strippedNodes).Remove()

	var best string
	for _, selector := range containerSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := collapseWhitespace(sel.Text()); len(text) > len(best) {
				best = text
			}
		})
	}

	if len(best) >= minBodyLength {
		return best
	}

	return collapseWhitespace(doc.Text())
}

// collapseWhitespace trims every line and drops the empty ones, matching how
// page text reads after container stripping.
func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
