package feed

import (
	"strings"
	"testing"
)

func TestExtractArticleTextPrefersLargestContainer(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<nav>Home News Sports</nav>
		<article>
			<h1>Headline</h1>
			<script>trackPageView();</script>
			<p>` + strings.Repeat("Article body sentence. ", 10) + `</p>
		</article>
		<footer>Copyright notice</footer>
	</body></html>`

	text := ExtractArticleText(html)

	if !strings.Contains(text, "Headline") || !strings.Contains(text, "Article body sentence.") {
		t.Fatalf("article content missing: %q", text)
	}
	if strings.Contains(text, "trackPageView") {
		t.Fatalf("script content leaked into extraction: %q", text)
	}
	if strings.Contains(text, "Copyright notice") || strings.Contains(text, "Home News Sports") {
		t.Fatalf("chrome nodes leaked into extraction: %q", text)
	}
}

func TestExtractArticleTextFallsBackToFullPage(t *testing.T) {
	t.Parallel()

	// The article container is below the minimum length, so extraction must
	// widen to the whole rendered page.
	html := `<html><body>
		<article>Too short.</article>
		<div class="unrecognized">` + strings.Repeat("Page level text. ", 10) + `</div>
	</body></html>`

	text := ExtractArticleText(html)

	if !strings.Contains(text, "Page level text.") {
		t.Fatalf("expected full-page fallback, got %q", text)
	}
}

func TestExtractArticleTextEmptyDocument(t *testing.T) {
	t.Parallel()

	if got := ExtractArticleText("<html><body><script>x()</script></body></html>"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	in := "  first line \n\n\t\n second line\t\n"
	want := "first line\nsecond line"
	if got := collapseWhitespace(in); got != want {
		t.Fatalf("collapseWhitespace = %q, want %q", got, want)
	}
}
