package source

import (
	"context"
	"fmt"

	"github.com/Smartoire/Contentoire/internal/domain"
)

// Keyword parameterizes one provider search. Language, Region and Category are
// optional; each adapter applies only the parameters its vendor supports.
type Keyword struct {
	ID       int64
	Text     string
	Language string
	Region   string
	Category string
}

// Provider carries the per-vendor configuration an adapter needs for one call.
type Provider struct {
	ID       int64
	Name     string
	Endpoint string
	Secret   string
}

// Feed identifies one RSS/Atom endpoint. Feeds carry no keywords; every feed
// is polled in full each run.
type Feed struct {
	ID       int64
	Name     string
	Endpoint string
}

// Adapter translates a (provider, keyword) pair into one bounded API call and
// maps the vendor response onto canonical article drafts. Adapters perform no
// writes; persistence is the orchestrator's job.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, p Provider, kw Keyword) ([]domain.Article, error)
}

// FeedAdapter polls one feed and returns drafts for its new entries.
type FeedAdapter interface {
	Fetch(ctx context.Context, f Feed) ([]domain.Article, error)
}

// Registry maps adapter names from configuration to implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(a Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[a.Name()] = a
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if a, ok := r.adapters[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("adapter %s is not registered", name)
}
