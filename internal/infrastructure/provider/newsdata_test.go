package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Smartoire/Contentoire/internal/source"
)

func TestNewsDataFetchMapsResponse(t *testing.T) {
	t.Parallel()

	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"status": "success",
			"totalResults": 1,
			"results": [
				{
					"article_id": "nd-123",
					"title": "Branch reopens",
					"link": "https://example.org/branch",
					"keywords": ["library", "community"],
					"creator": ["A. Writer", "B. Reporter"],
					"description": "Reopening after renovations.",
					"pubDate": "2026-08-28 08:00:00",
					"language": "english"
				}
			]
		}`))
	}))
	defer server.Close()

	adapter := NewNewsData(NewClient(5*time.Second, 100, 0, nil))
	prov := source.Provider{ID: 3, Name: "NewsData.io", Endpoint: server.URL, Secret: "k3y"}
	kw := source.Keyword{Text: "library", Language: "en", Region: "ca", Category: "top"}

	drafts, err := adapter.Fetch(context.Background(), prov, kw)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}

	if captured.Get("apikey") != "k3y" {
		t.Fatalf("unexpected apikey: %s", captured.Get("apikey"))
	}
	if captured.Get("country") != "ca" || captured.Get("category") != "top" {
		t.Fatalf("optional keyword params not applied: %v", captured)
	}
	if captured.Get("removeduplicate") != "1" {
		t.Fatalf("expected removeduplicate=1, got %s", captured.Get("removeduplicate"))
	}

	draft := drafts[0]
	if draft.ExternalRef != "nd-123" {
		t.Fatalf("expected vendor article id as ref, got %s", draft.ExternalRef)
	}
	if draft.Authors != "A. Writer, B. Reporter" {
		t.Fatalf("unexpected authors join: %q", draft.Authors)
	}
	if draft.Metadata["keywords"] != "library, community" {
		t.Fatalf("unexpected keywords metadata: %+v", draft.Metadata)
	}
	if draft.PublishedDate != "2026-08-28 08:00:00" {
		t.Fatalf("published date must be stored verbatim, got %q", draft.PublishedDate)
	}
}

func TestNewsDataOmitsEmptyOptionalParams(t *testing.T) {
	t.Parallel()

	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write([]byte(`{"status":"success","totalResults":0,"results":[]}`))
	}))
	defer server.Close()

	adapter := NewNewsData(NewClient(5*time.Second, 100, 0, nil))
	prov := source.Provider{Name: "NewsData.io", Endpoint: server.URL, Secret: "k3y"}

	if _, err := adapter.Fetch(context.Background(), prov, source.Keyword{Text: "library"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	for _, param := range []string{"language", "country", "category"} {
		if _, present := captured[param]; present {
			t.Fatalf("empty keyword field %s must not reach the wire", param)
		}
	}
}
