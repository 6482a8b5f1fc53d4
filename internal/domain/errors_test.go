package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"config", &ConfigError{Source: "newsapi", Reason: "missing API key"}, KindConfig},
		{"vendor", &VendorRejection{Vendor: "gnews", Status: 401}, KindVendor},
		{"parse", &ParseError{Source: "currents", Err: errors.New("bad json")}, KindParse},
		{"transient", &TransientError{Op: "request", Err: errors.New("timeout")}, KindTransient},
		{"wrapped transient", fmt.Errorf("keyword x: %w", &TransientError{Op: "request", Err: errors.New("timeout")}), KindTransient},
		{"wrapped vendor", fmt.Errorf("keyword x: %w", &VendorRejection{Vendor: "newsdata", Status: 429}), KindVendor},
		{"unknown", errors.New("connection reset"), KindTransient},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	if !IsRetryable(&TransientError{Op: "render", Err: errors.New("timeout")}) {
		t.Fatal("transient errors must be retryable")
	}
	if IsRetryable(&VendorRejection{Vendor: "newsapi", Status: 403}) {
		t.Fatal("vendor rejections must not be retryable")
	}
	if IsRetryable(&ConfigError{Source: "feed", Reason: "disabled"}) {
		t.Fatal("config errors must not be retryable")
	}
}

func TestSourceReportCapsErrorSamples(t *testing.T) {
	t.Parallel()

	rep := NewSourceReport("newsapi")
	for i := 0; i < 10; i++ {
		rep.RecordFailure(&TransientError{Op: "request", Err: fmt.Errorf("attempt %d", i)})
	}

	if rep.Failed != 10 {
		t.Fatalf("expected 10 failures counted, got %d", rep.Failed)
	}
	if got := len(rep.Errors[KindTransient]); got != 3 {
		t.Fatalf("expected 3 sampled messages, got %d", got)
	}
}

func TestOriginValid(t *testing.T) {
	t.Parallel()

	if !(Origin{ProviderID: 1}).Valid() {
		t.Fatal("provider-only origin must be valid")
	}
	if !(Origin{FeedID: 2, KeywordID: 0}).Valid() {
		t.Fatal("feed-only origin must be valid")
	}
	if (Origin{}).Valid() {
		t.Fatal("empty origin must be invalid")
	}
	if (Origin{ProviderID: 1, FeedID: 2}).Valid() {
		t.Fatal("origin naming both sources must be invalid")
	}
}
