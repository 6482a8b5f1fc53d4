package domain

import "time"

// Article is a normalized draft produced by a source adapter before persistence.
// Optional vendor fields are mapped to empty strings, never left unset, so that
// downstream text processing stays total.
type Article struct {
	Title         string
	NewsText      string
	Summary       string
	Authors       string // comma-joined; "" when the vendor reports none
	URL           string
	PublishedDate string // vendor-native form, stored verbatim
	Language      string
	ExternalRef   string
	Metadata      map[string]string
}

// Origin ties a record to the configuration that produced it.
// Exactly one of ProviderID/FeedID must be set; KeywordID is zero for
// feed-derived records.
type Origin struct {
	ProviderID int64
	FeedID     int64
	KeywordID  int64
}

// Valid reports whether the origin names exactly one source.
func (o Origin) Valid() bool {
	return (o.ProviderID > 0) != (o.FeedID > 0)
}

// StoredArticle is a persisted record as read back from the store.
type StoredArticle struct {
	ID int64
	Article
	Origin
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// InsertOutcome reports what the dedup gate decided for a draft.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	Skipped
)

func (o InsertOutcome) String() string {
	if o == Skipped {
		return "skipped"
	}
	return "inserted"
}
