package provider

import (
	"context"
	"strings"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/source"
)

// NewsData queries the NewsData.io latest-news endpoint. The vendor filters on
// its own rolling window and exposes no date parameter, so the trailing-window
// default does not apply here.
type NewsData struct {
	client *Client
}

var _ source.Adapter = (*NewsData)(nil)

// NewNewsData wires the shared client.
func NewNewsData(client *Client) *NewsData {
	return &NewsData{client: client}
}

// Name identifies the adapter inside the registry.
func (a *NewsData) Name() string { return "newsdata" }

type newsDataResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Results      []struct {
		ArticleID   string   `json:"article_id"`
		Title       string   `json:"title"`
		Link        string   `json:"link"`
		Keywords    []string `json:"keywords"`
		Creator     []string `json:"creator"`
		Description string   `json:"description"`
		PubDate     string   `json:"pubDate"`
		Language    string   `json:"language"`
	} `json:"results"`
}

// Fetch executes one search for the keyword and maps the response.
func (a *NewsData) Fetch(ctx context.Context, p source.Provider, kw source.Keyword) ([]domain.Article, error) {
	if p.Secret == "" {
		return nil, &domain.ConfigError{Source: p.Name, Reason: "missing API key"}
	}

	params := searchParams{
		"q":               kw.Text,
		"removeduplicate": "1",
		"apikey":          p.Secret,
		"language":        kw.Language,
		"country":         kw.Region,
		"category":        kw.Category,
	}

	var resp newsDataResponse
	if err := a.client.GetJSON(ctx, a.Name(), p.Endpoint, params.values(), &resp); err != nil {
		return nil, err
	}

	drafts := make([]domain.Article, 0, len(resp.Results))
	for _, raw := range resp.Results {
		ref := raw.ArticleID
		if ref == "" {
			ref = urlRef(raw.Link)
		}
		meta := map[string]string{}
		if len(raw.Keywords) > 0 {
			meta["keywords"] = strings.Join(raw.Keywords, ", ")
		}
		drafts = append(drafts, domain.Article{
			Title:         raw.Title,
			NewsText:      raw.Description,
			Summary:       raw.Description,
			Authors:       strings.Join(raw.Creator, ", "),
			URL:           raw.Link,
			PublishedDate: raw.PubDate,
			Language:      raw.Language,
			ExternalRef:   ref,
			Metadata:      meta,
		})
	}

	return drafts, nil
}
