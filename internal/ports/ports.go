package ports

import (
	"context"
	"time"

	"github.com/Smartoire/Contentoire/internal/domain"
)

// ArticleStore persists canonical articles and backs the dedup gate.
type ArticleStore interface {
	// Exists reports whether a record with the external reference is already
	// stored for the given origin scope.
	Exists(ctx context.Context, origin domain.Origin, externalRef string) (bool, error)
	// Insert writes a draft unless an equivalent record exists; a conflicting
	// concurrent insert yields Skipped, not an error.
	Insert(ctx context.Context, draft domain.Article, origin domain.Origin) (domain.InsertOutcome, error)
	// FindUnprocessed lists records not yet claimed by a downstream consumer.
	FindUnprocessed(ctx context.Context, limit int) ([]domain.StoredArticle, error)
	// MarkProcessed stamps a record as claimed.
	MarkProcessed(ctx context.Context, id int64, at time.Time) error
}

// PageRenderer loads a page in a real browser and returns the rendered HTML.
type PageRenderer interface {
	Render(ctx context.Context, pageURL string, timeout time.Duration) (string, error)
}

// Notifier publishes run summaries to an external channel.
type Notifier interface {
	PublishReport(ctx context.Context, summary string) error
}

// Scheduler controls when ingestion runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
