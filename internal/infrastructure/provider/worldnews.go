package provider

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/source"
)

const worldNewsPageSize = 20

// WorldNews queries the World News API search-news endpoint. This is the only
// vendor that ships full article text in search results.
type WorldNews struct {
	client *Client
	window time.Duration
}

var _ source.Adapter = (*WorldNews)(nil)

// NewWorldNews wires the shared client.
func NewWorldNews(client *Client, window time.Duration) *WorldNews {
	return &WorldNews{client: client, window: window}
}

// Name identifies the adapter inside the registry.
func (a *WorldNews) Name() string { return "worldnews" }

type worldNewsResponse struct {
	Available int `json:"available"`
	Number    int `json:"number"`
	Offset    int `json:"offset"`
	News      []struct {
		ID          int64    `json:"id"`
		Title       string   `json:"title"`
		Text        string   `json:"text"`
		Summary     string   `json:"summary"`
		URL         string   `json:"url"`
		Authors     []string `json:"authors"`
		Language    string   `json:"language"`
		PublishDate string   `json:"publish_date"`
		Sentiment   *float64 `json:"sentiment"`
	} `json:"news"`
}

// Fetch executes one search for the keyword and maps the response.
func (a *WorldNews) Fetch(ctx context.Context, p source.Provider, kw source.Keyword) ([]domain.Article, error) {
	if p.Secret == "" {
		return nil, &domain.ConfigError{Source: p.Name, Reason: "missing API key"}
	}

	params := searchParams{
		"text":                  kw.Text,
		"number":                strconv.Itoa(worldNewsPageSize),
		"earliest-publish-date": time.Now().Add(-a.window).Format("2006-01-02"),
		"min-sentiment":         "-0.1",
		"max-sentiment":         "1",
		"sort":                  "publish-time",
		"sort-direction":        "desc",
		"api-key":               p.Secret,
		"language":              kw.Language,
		"source-country":        kw.Region,
		"categories":            kw.Category,
	}

	var resp worldNewsResponse
	if err := a.client.GetJSON(ctx, a.Name(), p.Endpoint, params.values(), &resp); err != nil {
		return nil, err
	}

	drafts := make([]domain.Article, 0, len(resp.News))
	for _, raw := range resp.News {
		ref := urlRef(raw.URL)
		if raw.ID > 0 {
			ref = strconv.FormatInt(raw.ID, 10)
		}
		meta := map[string]string{}
		if raw.Sentiment != nil {
			meta["sentiment"] = strconv.FormatFloat(*raw.Sentiment, 'f', -1, 64)
		}
		if raw.PublishDate != "" {
			meta["published_date"] = raw.PublishDate
		}
		drafts = append(drafts, domain.Article{
			Title:         raw.Title,
			NewsText:      raw.Text,
			Summary:       raw.Summary,
			Authors:       strings.Join(raw.Authors, ", "),
			URL:           raw.URL,
			PublishedDate: raw.PublishDate,
			Language:      raw.Language,
			ExternalRef:   ref,
			Metadata:      meta,
		})
	}

	return drafts, nil
}
