package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/ports"
)

const uniqueViolation = "23505"

// schema keeps external_ref uniqueness scoped per source via partial indexes,
// and enforces the exactly-one-source invariant at the table level as well.
const schema = `
CREATE TABLE IF NOT EXISTS news (
	id             BIGSERIAL PRIMARY KEY,
	title          TEXT NOT NULL,
	authors        TEXT NOT NULL DEFAULT '',
	news_text      TEXT NOT NULL DEFAULT '',
	summary        TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL DEFAULT '',
	published_date TEXT NOT NULL DEFAULT '',
	language       TEXT NOT NULL DEFAULT '',
	external_ref   TEXT NOT NULL,
	options        TEXT NOT NULL DEFAULT '{}',
	provider_id    BIGINT,
	keyword_id     BIGINT,
	feed_id        BIGINT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed_at   TIMESTAMPTZ,
	CHECK ((provider_id IS NULL) <> (feed_id IS NULL))
);
CREATE UNIQUE INDEX IF NOT EXISTS news_provider_external_ref
	ON news (provider_id, external_ref) WHERE provider_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS news_feed_external_ref
	ON news (feed_id, external_ref) WHERE feed_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS news_unprocessed ON news (id) WHERE processed_at IS NULL;
`

// PostgresStore persists canonical articles into Postgres.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the news table and its indexes if absent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Exists reports whether the external reference is already stored for the
// origin's source scope.
func (s *PostgresStore) Exists(ctx context.Context, origin domain.Origin, externalRef string) (bool, error) {
	if !origin.Valid() {
		return false, fmt.Errorf("origin must name exactly one of provider or feed")
	}

	query, args, err := s.builder.
		Select("1").
		From("news").
		Where(sq.Eq{"external_ref": externalRef}).
		Where(scopeClause(origin)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query existence: %w", err)
	}
	return true, nil
}

// Insert writes the draft unless its external reference is already present in
// the origin's scope; a conflicting insert from a concurrent writer comes back
// as Skipped rather than an error.
func (s *PostgresStore) Insert(ctx context.Context, draft domain.Article, origin domain.Origin) (domain.InsertOutcome, error) {
	if !origin.Valid() {
		return domain.Skipped, fmt.Errorf("origin must name exactly one of provider or feed")
	}

	options, err := marshalMetadata(draft.Metadata)
	if err != nil {
		return domain.Skipped, fmt.Errorf("encode metadata: %w", err)
	}

	query, args, err := s.builder.
		Insert("news").
		Columns("title", "authors", "news_text", "summary", "url", "published_date",
			"language", "external_ref", "options", "provider_id", "keyword_id", "feed_id").
		Values(draft.Title, draft.Authors, draft.NewsText, draft.Summary, draft.URL,
			draft.PublishedDate, draft.Language, draft.ExternalRef, options,
			nullableID(origin.ProviderID), nullableID(origin.KeywordID), nullableID(origin.FeedID)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return domain.Skipped, fmt.Errorf("build insert query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.Skipped, nil
		}
		return domain.Skipped, fmt.Errorf("insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Skipped, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Skipped, nil
	}
	return domain.Inserted, nil
}

// FindUnprocessed lists records not yet claimed by a downstream consumer,
// oldest first.
func (s *PostgresStore) FindUnprocessed(ctx context.Context, limit int) ([]domain.StoredArticle, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := s.builder.
		Select("id", "title", "authors", "news_text", "summary", "url", "published_date",
			"language", "external_ref", "options", "provider_id", "keyword_id", "feed_id",
			"created_at", "processed_at").
		From("news").
		Where("processed_at IS NULL").
		OrderBy("id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed: %w", err)
	}
	defer rows.Close()

	var result []domain.StoredArticle
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// MarkProcessed stamps the record as claimed by a downstream consumer.
func (s *PostgresStore) MarkProcessed(ctx context.Context, id int64, at time.Time) error {
	query, args, err := s.builder.
		Update("news").
		Set("processed_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

func scanArticle(rows *sql.Rows) (domain.StoredArticle, error) {
	var (
		article     domain.StoredArticle
		options     string
		providerID  sql.NullInt64
		keywordID   sql.NullInt64
		feedID      sql.NullInt64
		processedAt sql.NullTime
	)

	err := rows.Scan(&article.ID, &article.Title, &article.Authors, &article.NewsText,
		&article.Summary, &article.URL, &article.PublishedDate, &article.Language,
		&article.ExternalRef, &options, &providerID, &keywordID, &feedID,
		&article.CreatedAt, &processedAt)
	if err != nil {
		return domain.StoredArticle{}, fmt.Errorf("scan article: %w", err)
	}

	article.Metadata = unmarshalMetadata(options)
	article.ProviderID = providerID.Int64
	article.KeywordID = keywordID.Int64
	article.FeedID = feedID.Int64
	if processedAt.Valid {
		t := processedAt.Time
		article.ProcessedAt = &t
	}

	return article, nil
}

// marshalMetadata serializes the sidecar map at the store boundary; key order
// is irrelevant because the value is a JSON object.
func marshalMetadata(meta map[string]string) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalMetadata(options string) map[string]string {
	meta := map[string]string{}
	if options == "" {
		return meta
	}
	_ = json.Unmarshal([]byte(options), &meta)
	return meta
}

func scopeClause(origin domain.Origin) sq.Eq {
	if origin.ProviderID > 0 {
		return sq.Eq{"provider_id": origin.ProviderID}
	}
	return sq.Eq{"feed_id": origin.FeedID}
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
