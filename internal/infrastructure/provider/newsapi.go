package provider

import (
	"context"
	"strconv"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/source"
)

const newsAPIPageSize = 20

// NewsAPI queries the newsapi.org "everything" endpoint. The vendor exposes no
// article identifier, so external references are synthesized from URLs.
type NewsAPI struct {
	client *Client
	window time.Duration
}

var _ source.Adapter = (*NewsAPI)(nil)

// NewNewsAPI wires the shared client; window is the trailing publish-date filter.
func NewNewsAPI(client *Client, window time.Duration) *NewsAPI {
	return &NewsAPI{client: client, window: window}
}

// Name identifies the adapter inside the registry.
func (a *NewsAPI) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Fetch executes one search for the keyword and maps the response.
func (a *NewsAPI) Fetch(ctx context.Context, p source.Provider, kw source.Keyword) ([]domain.Article, error) {
	if p.Secret == "" {
		return nil, &domain.ConfigError{Source: p.Name, Reason: "missing API key"}
	}

	language := kw.Language
	if language == "" {
		language = "en"
	}

	params := searchParams{
		"q":        kw.Text,
		"pageSize": strconv.Itoa(newsAPIPageSize),
		"from":     time.Now().Add(-a.window).Format("2006-01-02"),
		"sortBy":   "publishedAt",
		"apiKey":   p.Secret,
		"language": language,
	}
	// NewsAPI has no region or category filter on this endpoint.

	var resp newsAPIResponse
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
			Authors:       raw.Author,
			URL:           raw.URL,
			PublishedDate: raw.PublishedAt,
			Language:      language,
			ExternalRef:   urlRef(raw.URL),
			Metadata:      meta,
		})
	}

	return drafts, nil
}
