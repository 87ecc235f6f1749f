package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/platform/logger"
	"github.com/parafreq/parafreq-api/internal/store"
)

// PostgresWordFrequencyStore implements the store.WordFrequencyStore
// interface using a PostgreSQL database as the storage backend.
type PostgresWordFrequencyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordFrequencyStore creates a new PostgreSQL implementation of
// the WordFrequencyStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWordFrequencyStore(db store.DBTX, logger *slog.Logger) *PostgresWordFrequencyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordFrequencyStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_frequency_store")),
	}
}

// Ensure PostgresWordFrequencyStore implements store.WordFrequencyStore interface
var _ store.WordFrequencyStore = (*PostgresWordFrequencyStore)(nil)

// WithTx returns a new WordFrequencyStore that runs against the provided
// transaction.
func (s *PostgresWordFrequencyStore) WithTx(tx *sql.Tx) store.WordFrequencyStore {
	return &PostgresWordFrequencyStore{
		db:     tx,
		logger: s.logger,
	}
}

// ReplaceForParagraph implements store.WordFrequencyStore.ReplaceForParagraph
// It deletes the paragraph's existing rows and bulk-inserts the new set.
// Both statements run on the caller's transaction so a reader at any
// consistent point sees either the old complete generation or the new one,
// never a mix. An empty rows slice leaves the paragraph with no index
// entries, which is the correct result for content with no tokens.
func (s *PostgresWordFrequencyStore) ReplaceForParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
	rows []*domain.WordFrequency,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := s.db.(*sql.Tx); !ok {
		return store.NewStoreError("word_frequency", "replace",
			"atomic replacement requires a transactional store", nil)
	}

	for _, wf := range rows {
		if err := wf.Validate(); err != nil {
			log.Warn("word frequency validation failed during replace",
				slog.String("error", err.Error()),
				slog.String("paragraph_id", paragraphID.String()),
				slog.String("word", wf.Word))
			return err
		}
	}

	deleteQuery := `
		DELETE FROM word_frequencies
		WHERE paragraph_id = $1
	`
	if _, err := s.db.ExecContext(ctx, deleteQuery, paragraphID); err != nil {
		log.Error("failed to delete existing word frequencies",
			slog.String("error", err.Error()),
			slog.String("paragraph_id", paragraphID.String()))
		return err
	}

	if len(rows) == 0 {
		log.Debug("no word frequencies to insert",
			slog.String("paragraph_id", paragraphID.String()))
		return nil
	}

	// Single multi-row INSERT; 6 columns per row.
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO word_frequencies (id, user_id, paragraph_id, word, count, created_at)
		VALUES `)
	args := make([]any, 0, len(rows)*6)
	for i, wf := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		sb.WriteString("(")
		for j := 1; j <= 6; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(base + j))
		}
		sb.WriteString(")")
		args = append(args, wf.ID, wf.UserID, wf.ParagraphID, wf.Word, wf.Count, wf.CreatedAt)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		log.Error("failed to insert word frequencies",
			slog.String("error", err.Error()),
			slog.String("paragraph_id", paragraphID.String()),
			slog.Int("row_count", len(rows)))
		return err
	}

	log.Debug("word frequencies replaced",
		slog.String("paragraph_id", paragraphID.String()),
		slog.Int("row_count", len(rows)))
	return nil
}

// FindByParagraph implements store.WordFrequencyStore.FindByParagraph
func (s *PostgresWordFrequencyStore) FindByParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
) ([]*domain.WordFrequency, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, paragraph_id, word, count, created_at
		FROM word_frequencies
		WHERE paragraph_id = $1
		ORDER BY count DESC, word ASC
	`

	rows, err := s.db.QueryContext(ctx, query, paragraphID)
	if err != nil {
		log.Error("failed to query word frequencies by paragraph",
			slog.String("error", err.Error()),
			slog.String("paragraph_id", paragraphID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	frequencies := []*domain.WordFrequency{}
	for rows.Next() {
		var wf domain.WordFrequency
		if err := rows.Scan(&wf.ID, &wf.UserID, &wf.ParagraphID, &wf.Word, &wf.Count, &wf.CreatedAt); err != nil {
			log.Error("failed to scan word frequency row",
				slog.String("error", err.Error()))
			return nil, err
		}
		frequencies = append(frequencies, &wf)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning word frequency rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return frequencies, nil
}

// FindTopByWord implements store.WordFrequencyStore.FindTopByWord
// It returns the highest-count matches for the exact word scoped to the
// owner, joined with paragraph content for the result preview. The
// denormalized user_id keeps the ownership filter on the indexed
// word_frequencies columns.
func (s *PostgresWordFrequencyStore) FindTopByWord(
	ctx context.Context,
	userID uuid.UUID,
	word string,
	limit int,
) ([]*store.WordFrequencyMatch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT wf.paragraph_id, p.content, wf.count, p.created_at
		FROM word_frequencies wf
		JOIN paragraphs p ON p.id = wf.paragraph_id
		WHERE wf.user_id = $1 AND wf.word = $2
		ORDER BY wf.count DESC, p.created_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, word, limit)
	if err != nil {
		log.Error("failed to query word frequencies by word",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word", word))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	matches := []*store.WordFrequencyMatch{}
	for rows.Next() {
		var m store.WordFrequencyMatch
		if err := rows.Scan(&m.ParagraphID, &m.Content, &m.Count, &m.CreatedAt); err != nil {
			log.Error("failed to scan word frequency match row",
				slog.String("error", err.Error()))
			return nil, err
		}
		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning word frequency match rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("word frequency search completed",
		slog.String("user_id", userID.String()),
		slog.String("word", word),
		slog.Int("match_count", len(matches)))
	return matches, nil
}
