package provider

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/source"
)

const currentsPageSize = 20

// Currents queries the Currents API search endpoint.
type Currents struct {
	client *Client
	window time.Duration
}

var _ source.Adapter = (*Currents)(nil)

// NewCurrents wires the shared client.
func NewCurrents(client *Client, window time.Duration) *Currents {
	return &Currents{client: client, window: window}
}

// Name identifies the adapter inside the registry.
func (a *Currents) Name() string { return "currents" }

type currentsResponse struct {
	Status string `json:"status"`
	News   []struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		URL         string   `json:"url"`
		Author      string   `json:"author"`
		Published   string   `json:"published"`
		Language    string   `json:"language"`
		Category    []string `json:"category"`
	} `json:"news"`
}

// Fetch executes one search for the keyword and maps the response.
func (a *Currents) Fetch(ctx context.Context, p source.Provider, kw source.Keyword) ([]domain.Article, error) {
	if p.Secret == "" {
		return nil, &domain.ConfigError{Source: p.Name, Reason: "missing API key"}
	}

	language := kw.Language
	if language == "" {
		language = "en"
	}

	params := searchParams{
		"keyword":    kw.Text,
		"type":       "1",
		"page_size":  strconv.Itoa(currentsPageSize),
		"start_date": time.Now().Add(-a.window).Format("2006-01-02"),
		"apiKey":     p.Secret,
		"language":   language,
		"category":   kw.Category,
		"country":    kw.Region,
	}

	var resp currentsResponse
	if err := a.client.GetJSON(ctx, a.Name(), p.Endpoint, params.values(), &resp); err != nil {
		return nil, err
	}

	drafts := make([]domain.Article, 0, len(resp.News))
	for _, raw := range resp.News {
		ref := raw.ID
		if ref == "" {
			ref = urlRef(raw.URL)
		}
		meta := map[string]string{}
		if len(raw.Category) > 0 {
			meta["category"] = strings.Join(raw.Category, ", ")
		}
		drafts = append(drafts, domain.Article{
			Title:         raw.Title,
			NewsText:      raw.Description,
			Summary:       raw.Description,
			Authors:       raw.Author,
			URL:           raw.URL,
			PublishedDate: raw.Published,
			Language:      raw.Language,
			ExternalRef:   ref,
			Metadata:      meta,
		})
	}

	return drafts, nil
}
