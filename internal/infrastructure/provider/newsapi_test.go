package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/source"
)

func newsAPIFixtureServer(t *testing.T, captured *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{
					"source": {"id": null, "name": "Example Times"},
					"author": "Jane Doe",
					"title": "Library funding doubles",
					"description": "Short summary.",
					"url": "https://example.org/a1",
					"publishedAt": "2026-08-28T09:00:00Z",
					"content": "Full body text."
				},
				{
					"source": {"id": null, "name": ""},
					"author": null,
					"title": "Second story",
					"description": null,
					"url": "https://example.org/a2",
					"publishedAt": "2026-08-28T10:00:00Z",
					"content": null
				}
			]
		}`))
	}))
}

func TestNewsAPIFetchMapsResponse(t *testing.T) {
	t.Parallel()

	var captured url.Values
	server := newsAPIFixtureServer(t, &captured)
	defer server.Close()

	adapter := NewNewsAPI(NewClient(5*time.Second, 100, 0, nil), 24*time.Hour)
	prov := source.Provider{ID: 7, Name: "News API", Endpoint: server.URL, Secret: "k3y"}

	drafts, err := adapter.Fetch(context.Background(), prov, source.Keyword{Text: "public library"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	if captured.Get("q") != "public library" {
		t.Fatalf("unexpected q param: %s", captured.Get("q"))
	}
	if captured.Get("apiKey") != "k3y" {
		t.Fatalf("unexpected apiKey param: %s", captured.Get("apiKey"))
	}
	if captured.Get("language") != "en" {
		t.Fatalf("expected default language en, got %s", captured.Get("language"))
	}
	if captured.Get("sortBy") != "publishedAt" {
		t.Fatalf("unexpected sortBy: %s", captured.Get("sortBy"))
	}
	if captured.Get("from") == "" {
		t.Fatal("expected trailing-window from param")
	}

	first := drafts[0]
	if first.Authors != "Jane Doe" {
		t.Fatalf("unexpected authors: %q", first.Authors)
	}
	if first.Metadata["source"] != "Example Times" {
		t.Fatalf("unexpected source metadata: %+v", first.Metadata)
	}
	if !strings.HasPrefix(first.ExternalRef, "url:") {
		t.Fatalf("expected synthesized url ref, got %s", first.ExternalRef)
	}

	// Vendor nulls must map to empty strings, never stay unset.
	second := drafts[1]
	if second.Authors != "" || second.Summary != "" || second.NewsText != "" {
		t.Fatalf("null fields not mapped to empty strings: %+v", second)
	}

	if first.ExternalRef == second.ExternalRef {
		t.Fatal("distinct URLs must produce distinct refs")
	}
}

func TestNewsAPIFetchFailsFastWithoutSecret(t *testing.T) {
	t.Parallel()

	adapter := NewNewsAPI(NewClient(5*time.Second, 100, 0, nil), 24*time.Hour)
	_, err := adapter.Fetch(context.Background(),
		source.Provider{Name: "News API", Endpoint: "https://unused"}, source.Keyword{Text: "x"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if domain.Classify(err) != domain.KindConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}
