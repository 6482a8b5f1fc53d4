package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/Smartoire/Contentoire/internal/domain"
)

const (
	requestUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	rejectionBodyCap = 512
)

// Client is the request skeleton shared by all vendor adapters: one bounded
// HTTP call with rate limiting, error classification, and retry of transient
// failures only.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	retries uint64
	logger  *slog.Logger
}

// NewClient wires the shared HTTP transport. retries applies to transient
// failures only; API adapters default to zero to keep a run bounded in time.
func NewClient(timeout time.Duration, requestsPerSecond float64, retries int, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		retries: uint64(retries),
		logger:  logger,
	}
}

// GetJSON performs a GET against endpoint with the given query parameters and
// decodes the JSON body into out. Errors are returned pre-classified.
func (c *Client) GetJSON(ctx context.Context, vendor, endpoint string, params url.Values, out any) error {
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		err := c.getOnce(ctx, vendor, endpoint, params, out)
		if err != nil && !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		if err != nil && c.logger != nil {
			c.logger.Warn("request failed, may retry", "vendor", vendor, "error", err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) getOnce(ctx context.Context, vendor, endpoint string, params url.Values, out any) error {
	target, err := buildURL(endpoint, params)
	if err != nil {
		return &domain.ConfigError{Source: vendor, Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", requestUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransientError{Op: vendor + " request", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return &domain.TransientError{Op: vendor + " request", Err: fmt.Errorf("status %s", resp.Status)}
	case resp.StatusCode >= 400:
		return &domain.VendorRejection{Vendor: vendor, Status: resp.StatusCode, Body: readSnippet(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ParseError{Source: vendor, Err: err}
	}

	return nil
}

func buildURL(endpoint string, params url.Values) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}

	query := parsed.Query()
	for key, values := range params {
		for _, v := range values {
			query.Set(key, v)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func readSnippet(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, rejectionBodyCap))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
