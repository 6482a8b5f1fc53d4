package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/ports"
	"github.com/Smartoire/Contentoire/internal/source"
)

// SentinelBody is stored when extraction exhausts its retry budget; the entry
// is kept because title/summary/metadata are still useful downstream.
const SentinelBody = "[Content could not be loaded]"

// Options tunes the per-entry extraction pipeline.
type Options struct {
	LoadTimeout      time.Duration // per page render, default 15s
	RenderRetries    int           // extra render attempts after the first, default 1
	EntryConcurrency int           // entries extracted in parallel, default 3
}

func (o Options) withDefaults() Options {
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = 15 * time.Second
	}
	if o.RenderRetries < 0 {
		o.RenderRetries = 1
	}
	if o.EntryConcurrency <= 0 {
		o.EntryConcurrency = 3
	}
	return o
}

// Adapter polls one RSS/Atom feed and extracts article bodies from the live
// pages behind its entries.
type Adapter struct {
	parser   *gofeed.Parser
	renderer ports.PageRenderer
	store    ports.ArticleStore
	policy   *bluemonday.Policy
	logger   *slog.Logger
	opts     Options
}

var _ source.FeedAdapter = (*Adapter)(nil)

// NewAdapter wires the renderer used for page extraction and the store used
// for the pre-render dedup check.
func NewAdapter(renderer ports.PageRenderer, store ports.ArticleStore, logger *slog.Logger, opts Options) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		parser:   gofeed.NewParser(),
		renderer: renderer,
		store:    store,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// Fetch parses the feed and processes its entries. A failing entry never
// aborts the feed; a malformed feed document fails the feed as a whole.
func (a *Adapter) Fetch(ctx context.Context, f source.Feed) ([]domain.Article, error) {
	parsed, err := a.parser.ParseURLWithContext(f.Endpoint, ctx)
	if err != nil {
		return nil, &domain.ParseError{Source: f.Name, Err: err}
	}

	a.debug("feed parsed", "feed", f.Name, "entries", len(parsed.Items))

	var (
		mu     sync.Mutex
		drafts []domain.Article
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.EntryConcurrency)
	for _, entry := range parsed.Items {
		entry := entry
		g.Go(func() error {
			draft, ok := a.processEntry(gctx, f, entry)
			if ok {
				mu.Lock()
				drafts = append(drafts, draft)
				mu.Unlock()
			}
			// Entry failures are absorbed here so siblings keep processing.
			return nil
		})
	}
	_ = g.Wait()

	return drafts, nil
}

func (a *Adapter) processEntry(ctx context.Context, f source.Feed, entry *gofeed.Item) (domain.Article, bool) {
	ref := entryRef(entry)
	origin := domain.Origin{FeedID: f.ID}

	// Pre-render dedup check: a page load is the expensive part of this
	// pipeline, so known entries are dropped before any fetch happens.
	if a.store != nil {
		exists, err := a.store.Exists(ctx, origin, ref)
		if err != nil {
			a.debug("dedup pre-check failed, continuing", "feed", f.Name, "ref", ref, "error", err)
		} else if exists {
			a.debug("entry already ingested", "feed", f.Name, "ref", ref)
			return domain.Article{}, false
		}
	}

	pageURL := resolveLink(entry.Link)
	if isVideoHost(pageURL) {
		// Hard skip: no extraction attempt and no record for video hosts.
		a.logger.Info("skipping video entry", "feed", f.Name, "url", pageURL)
		return domain.Article{}, false
	}

	meta := map[string]string{}
	if entry.GUID != "" {
		meta["feed_entry_id"] = entry.GUID
	}

	draft := domain.Article{
		Title:         a.sanitize(entry.Title),
		NewsText:      a.extractBody(ctx, f, pageURL),
		Summary:       a.entrySummary(entry),
		Authors:       joinAuthors(entry),
		URL:           pageURL,
		PublishedDate: entry.Published,
		Language:      "",
		ExternalRef:   ref,
		Metadata:      meta,
	}

	return draft, true
}

// extractBody runs the layered extraction strategy against the rendered page.
// After the retry budget is spent the sentinel body is returned instead of
// dropping the entry.
func (a *Adapter) extractBody(ctx context.Context, f source.Feed, pageURL string) string {
	if a.renderer == nil || pageURL == "" {
		return SentinelBody
	}

	attempts := a.opts.RenderRetries + 1
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			break
		}
		html, err := a.renderer.Render(ctx, pageURL, a.opts.LoadTimeout)
		if err != nil {
			a.logger.Warn("page render failed", "feed", f.Name, "url", pageURL, "attempt", i+1, "error", err)
			continue
		}
		if text := ExtractArticleText(html); text != "" {
			return text
		}
		a.logger.Warn("rendered page yielded no text", "feed", f.Name, "url", pageURL, "attempt", i+1)
	}

	return SentinelBody
}

// entrySummary prefers the entry's own content block over its description,
// independent of what page extraction produced.
func (a *Adapter) entrySummary(entry *gofeed.Item) string {
	if entry.Content != "" {
		return a.sanitize(entry.Content)
	}
	return a.sanitize(entry.Description)
}

func (a *Adapter) sanitize(html string) string {
	return collapseWhitespace(a.policy.Sanitize(html))
}

func (a *Adapter) debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// entryRef prefers the feed's stable entry id; entries without one get a hash
// of title+link so re-runs still dedup.
func entryRef(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	sum := sha256.Sum256([]byte(entry.Title + "\x00" + entry.Link))
	return "feed:" + hex.EncodeToString(sum[:12])
}

func joinAuthors(entry *gofeed.Item) string {
	names := make([]string, 0, len(entry.Authors))
	for _, person := range entry.Authors {
		if person != nil && person.Name != "" {
			names = append(names, person.Name)
		}
	}
	if len(names) == 0 && entry.Author != nil && entry.Author.Name != "" {
		names = append(names, entry.Author.Name)
	}
	return strings.Join(names, ", ")
}
