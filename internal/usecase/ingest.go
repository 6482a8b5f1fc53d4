package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Smartoire/Contentoire/internal/config"
	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/ports"
	"github.com/Smartoire/Contentoire/internal/source"
)

// Family selects which source group an ingestion run covers.
type Family string

const (
	FamilyProviders Family = "providers"
	FamilyFeeds     Family = "feeds"
	FamilyAll       Family = "all"
)

// IngestorDeps wires all collaborators into the orchestrator.
type IngestorDeps struct {
	Registry    *source.Registry
	FeedAdapter source.FeedAdapter
	Store       ports.ArticleStore
	Notifier    ports.Notifier
	Logger      *slog.Logger
	Providers   []config.ProviderConfig
	Feeds       []config.FeedConfig
	Concurrency int
}

// Ingestor enumerates enabled sources, fans out work units, and aggregates a
// run report. Runs are idempotent: re-running only adds genuinely new records.
type Ingestor struct {
	registry    *source.Registry
	feedAdapter source.FeedAdapter
	store       ports.ArticleStore
	notifier    ports.Notifier
	logger      *slog.Logger
	providers   []config.ProviderConfig
	feeds       []config.FeedConfig
	concurrency int
}

// NewIngestor constructs the orchestration component.
func NewIngestor(deps IngestorDeps) *Ingestor {
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Ingestor{
		registry:    deps.Registry,
		feedAdapter: deps.FeedAdapter,
		store:       deps.Store,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		providers:   deps.Providers,
		feeds:       deps.Feeds,
		concurrency: concurrency,
	}
}

// Run executes one ingestion pass for the family. Per-unit failures are
// absorbed into the report; the returned error covers only invocation
// problems such as an unknown family.
func (i *Ingestor) Run(ctx context.Context, family Family) (domain.RunReport, error) {
	report := domain.RunReport{Family: string(family), StartedAt: time.Now()}

	switch family {
	case FamilyProviders:
		report.Sources = i.runProviders(ctx)
	case FamilyFeeds:
		report.Sources = i.runFeeds(ctx)
	case FamilyAll:
		report.Sources = append(i.runProviders(ctx), i.runFeeds(ctx)...)
	default:
		return report, fmt.Errorf("unknown source family %q", family)
	}

	report.FinishedAt = time.Now()
	i.info("run finished", "family", family,
		"inserted", report.TotalInserted(), "failed", report.TotalFailed())

	if i.notifier != nil {
		if err := i.notifier.PublishReport(ctx, report.Summary()); err != nil {
			i.warn("cannot publish run report", "error", err)
		}
	}

	return report, nil
}

func (i *Ingestor) runProviders(ctx context.Context) []domain.SourceReport {
	var (
		mu      sync.Mutex
		reports []domain.SourceReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, cfg := range i.providers {
		if !cfg.Enabled {
			i.debug("provider disabled, skipping", "provider", cfg.Name)
			continue
		}
		cfg := cfg
		g.Go(func() error {
			rep := i.runProvider(gctx, cfg)
			mu.Lock()
			reports = append(reports, rep)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sortReports(reports)
	return reports
}

// runProvider walks the provider's keywords. A transient or parse failure on
// one keyword leaves the siblings untouched; configuration problems and vendor
// rejections end the provider's run because every further call would fail the
// same way.
func (i *Ingestor) runProvider(ctx context.Context, cfg config.ProviderConfig) domain.SourceReport {
	rep := domain.NewSourceReport(cfg.Name)

	adapter, err := i.registry.Resolve(cfg.Adapter)
	if err != nil {
		rep.RecordFailure(&domain.ConfigError{Source: cfg.Name, Reason: err.Error()})
		return *rep
	}

	prov := source.Provider{ID: cfg.ID, Name: cfg.Name, Endpoint: cfg.Endpoint, Secret: cfg.Secret}
	for _, kw := range cfg.Keywords {
		keyword := source.Keyword{
			ID:       kw.ID,
			Text:     kw.Text,
			Language: kw.Language,
			Region:   kw.Region,
			Category: kw.Category,
		}

		drafts, err := adapter.Fetch(ctx, prov, keyword)
		if err != nil {
			rep.RecordFailure(err)
			kind := domain.Classify(err)
			i.warn("keyword fetch failed", "provider", cfg.Name, "keyword", kw.Text,
				"kind", kind, "error", err)
			if kind == domain.KindConfig || kind == domain.KindVendor {
				break
			}
			continue
		}

		rep.Fetched += len(drafts)
		origin := domain.Origin{ProviderID: cfg.ID, KeywordID: kw.ID}
		for _, draft := range drafts {
			i.gate(ctx, draft, origin, rep)
		}
	}

	return *rep
}

func (i *Ingestor) runFeeds(ctx context.Context) []domain.SourceReport {
	var (
		mu      sync.Mutex
		reports []domain.SourceReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, cfg := range i.feeds {
		if !cfg.Enabled {
			i.debug("feed disabled, skipping", "feed", cfg.Name)
			continue
		}
		cfg := cfg
		g.Go(func() error {
			rep := i.runFeed(gctx, cfg)
			mu.Lock()
			reports = append(reports, rep)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sortReports(reports)
	return reports
}

func (i *Ingestor) runFeed(ctx context.Context, cfg config.FeedConfig) domain.SourceReport {
	rep := domain.NewSourceReport(cfg.Name)

	if i.feedAdapter == nil {
		rep.RecordFailure(&domain.ConfigError{Source: cfg.Name, Reason: "feed adapter is not configured"})
		return *rep
	}

	drafts, err := i.feedAdapter.Fetch(ctx, source.Feed{ID: cfg.ID, Name: cfg.Name, Endpoint: cfg.Endpoint})
	if err != nil {
		rep.RecordFailure(err)
		i.warn("feed fetch failed", "feed", cfg.Name, "error", err)
		return *rep
	}

	rep.Fetched = len(drafts)
	origin := domain.Origin{FeedID: cfg.ID}
	for _, draft := range drafts {
		i.gate(ctx, draft, origin, rep)
	}

	return *rep
}

// gate is the dedup and upsert gate shared by every adapter path: an existence
// pre-check followed by an insert whose conflicts also count as skips.
func (i *Ingestor) gate(ctx context.Context, draft domain.Article, origin domain.Origin, rep *domain.SourceReport) {
	exists, err := i.store.Exists(ctx, origin, draft.ExternalRef)
	if err != nil {
		rep.RecordFailure(err)
		return
	}
	if exists {
		rep.Skipped++
		return
	}

	outcome, err := i.store.Insert(ctx, draft, origin)
	if err != nil {
		rep.RecordFailure(err)
		return
	}

	if outcome == domain.Inserted {
		rep.Inserted++
	} else {
		rep.Skipped++
	}
}

func sortReports(reports []domain.SourceReport) {
	sort.Slice(reports, func(a, b int) bool {
		return reports[a].Source < reports[b].Source
	})
}

func (i *Ingestor) info(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Info(msg, args...)
	}
}

func (i *Ingestor) warn(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}

func (i *Ingestor) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}
