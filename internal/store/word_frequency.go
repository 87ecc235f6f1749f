package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
)

// WordFrequencyMatch is one ranked search result: a word-frequency row
// joined with the content and creation time of its paragraph.
type WordFrequencyMatch struct {
	ParagraphID uuid.UUID
	Content     string
	Count       int
	CreatedAt   time.Time
}

// WordFrequencyStore defines the interface for word-frequency data
// persistence. The row set for a paragraph is only ever written as a
// complete generation via ReplaceForParagraph.
type WordFrequencyStore interface {
	// ReplaceForParagraph deletes all existing word-frequency rows for
	// the given paragraph and inserts the provided set. Both steps must
	// execute within the caller's transaction, so the store must be
	// transactional (WithTx); calling this on a non-transactional store
	// returns an error. An empty rows slice is valid and leaves the
	// paragraph with no index entries.
	ReplaceForParagraph(ctx context.Context, paragraphID uuid.UUID, rows []*domain.WordFrequency) error

	// FindByParagraph retrieves all word-frequency rows for the given
	// paragraph, ordered by count descending. Returns an empty slice if
	// the paragraph has no index entries.
	FindByParagraph(ctx context.Context, paragraphID uuid.UUID) ([]*domain.WordFrequency, error)

	// FindTopByWord retrieves up to limit matches for the exact
	// normalized word, scoped to the given owner, ordered by count
	// descending. Returns an empty slice when nothing matches.
	FindTopByWord(ctx context.Context, userID uuid.UUID, word string, limit int) ([]*WordFrequencyMatch, error)

	// WithTx returns a new WordFrequencyStore instance that uses the
	// provided transaction. The transaction is created and managed by
	// the caller.
	WithTx(tx *sql.Tx) WordFrequencyStore
}
