package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
)

func TestGetJSONClassifiesStatusCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   domain.ErrorKind
	}{
		{"server error", http.StatusInternalServerError, "boom", domain.KindTransient},
		{"auth failure", http.StatusUnauthorized, `{"message":"bad key"}`, domain.KindVendor},
		{"quota", http.StatusTooManyRequests, "quota exceeded", domain.KindVendor},
		{"malformed body", http.StatusOK, "{not json", domain.KindParse},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(5*time.Second, 100, 0, nil)
			var out map[string]any
			err := client.GetJSON(context.Background(), "vendor", server.URL, url.Values{}, &out)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := domain.Classify(err); got != tc.want {
				t.Fatalf("Classify = %s, want %s (err: %v)", got, tc.want, err)
			}
		})
	}
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 100, 1, nil)
	var out map[string]any
	if err := client.GetJSON(context.Background(), "vendor", server.URL, url.Values{}, &out); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", hits.Load())
	}
}

func TestGetJSONDoesNotRetryVendorRejections(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 100, 3, nil)
	var out map[string]any
	err := client.GetJSON(context.Background(), "vendor", server.URL, url.Values{}, &out)
	if err == nil {
		t.Fatal("expected an error")
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single request, got %d", hits.Load())
	}
}

func TestBuildURLMergesEndpointQuery(t *testing.T) {
	t.Parallel()

	params := url.Values{}
	params.Set("q", "public library")
	got, err := buildURL("https://api.example.org/search?format=json", params)
	if err != nil {
		t.Fatalf("buildURL: %v", err)
	}

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if parsed.Query().Get("format") != "json" {
		t.Fatalf("endpoint query lost: %s", got)
	}
	if parsed.Query().Get("q") != "public library" {
		t.Fatalf("param not applied: %s", got)
	}
}
