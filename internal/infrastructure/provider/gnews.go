package provider

import (
	"context"
	"strconv"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/source"
)

const gnewsPageSize = 20

// GNews queries the gnews.io search endpoint. Like NewsAPI, the vendor exposes
// no article identifier.
type GNews struct {
	client *Client
	window time.Duration
}

var _ source.Adapter = (*GNews)(nil)

// NewGNews wires the shared client.
func NewGNews(client *Client, window time.Duration) *GNews {
	return &GNews{client: client, window: window}
}

// Name identifies the adapter inside the registry.
func (a *GNews) Name() string { return "gnews" }

type gnewsResponse struct {
	TotalArticles int `json:"totalArticles"`
	Articles      []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch executes one search for the keyword and maps the response.
func (a *GNews) Fetch(ctx context.Context, p source.Provider, kw source.Keyword) ([]domain.Article, error) {
	if p.Secret == "" {
		return nil, &domain.ConfigError{Source: p.Name, Reason: "missing API key"}
	}

	params := searchParams{
		"q":       kw.Text,
		"max":     strconv.Itoa(gnewsPageSize),
		"from":    time.Now().Add(-a.window).UTC().Format(time.RFC3339),
		"apikey":  p.Secret,
		"lang":    kw.Language,
		"country": kw.Region,
	}
	// GNews has no category filter on the search endpoint.

	var resp gnewsResponse
	if err := a.client.GetJSON(ctx, a.Name(), p.Endpoint, params.values(), &resp); err != nil {
		return nil, err
	}

	drafts := make([]domain.Article, 0, len(resp.Articles))
	for _, raw := range resp.Articles {
		meta := map[string]string{}
		if raw.Source.Name != "" {
			meta["source"] = raw.Source.Name
		}
		drafts = append(drafts, domain.Article{
			Title:         raw.Title,
			NewsText:      raw.Content,
			Summary:       raw.Description,
			Authors:       "",
			URL:           raw.URL,
			PublishedDate: raw.PublishedAt,
			Language:      kw.Language,
			ExternalRef:   urlRef(raw.URL),
			Metadata:      meta,
		})
	}

	return drafts, nil
}
