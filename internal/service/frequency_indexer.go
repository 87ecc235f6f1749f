package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/store"
	"github.com/parafreq/parafreq-api/internal/task"
	"github.com/parafreq/parafreq-api/internal/tokenizer"
)

// FrequencyIndexerService rebuilds the word-frequency index for a
// paragraph. It implements task.FrequencyIndexer and is the only writer
// to word_frequencies.
type FrequencyIndexerService struct {
	db             *sql.DB
	paragraphStore store.ParagraphStore
	frequencyStore store.WordFrequencyStore
	logger         *slog.Logger
}

// NewFrequencyIndexerService creates a new FrequencyIndexerService.
func NewFrequencyIndexerService(
	db *sql.DB,
	paragraphStore store.ParagraphStore,
	frequencyStore store.WordFrequencyStore,
	logger *slog.Logger,
) (*FrequencyIndexerService, error) {
	if db == nil {
		return nil, &ParagraphServiceError{
			Operation: "create_indexer",
			Message:   "db cannot be nil",
		}
	}
	if paragraphStore == nil {
		return nil, &ParagraphServiceError{
			Operation: "create_indexer",
			Message:   "paragraphStore cannot be nil",
		}
	}
	if frequencyStore == nil {
		return nil, &ParagraphServiceError{
			Operation: "create_indexer",
			Message:   "frequencyStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FrequencyIndexerService{
		db:             db,
		paragraphStore: paragraphStore,
		frequencyStore: frequencyStore,
		logger:         logger.With("component", "frequency_indexer"),
	}, nil
}

// Ensure FrequencyIndexerService implements task.FrequencyIndexer
var _ task.FrequencyIndexer = (*FrequencyIndexerService)(nil)

// ReindexParagraph recomputes and atomically replaces the paragraph's
// frequency rows. The paragraph row is locked for the duration of the
// transaction, serializing concurrent computations for the same
// paragraph; the delete-and-insert runs in that same transaction so
// readers see either the old complete index or the new one. Re-running
// the computation for unchanged content is idempotent.
//
// Returns store.ErrParagraphNotFound when the paragraph does not exist
// yet, which callers retry on a shorter delay.
func (s *FrequencyIndexerService) ReindexParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
) (*task.IndexSummary, error) {
	var summary *task.IndexSummary

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		paragraph, err := s.paragraphStore.WithTx(tx).GetByIDForUpdate(ctx, paragraphID)
		if err != nil {
			return err
		}

		counts := tokenizer.Counts(paragraph.Content)

		rows := make([]*domain.WordFrequency, 0, len(counts))
		for word, count := range counts {
			wf, err := domain.NewWordFrequency(paragraph.UserID, paragraph.ID, word, count)
			if err != nil {
				return err
			}
			rows = append(rows, wf)
		}

		if err := s.frequencyStore.WithTx(tx).ReplaceForParagraph(ctx, paragraphID, rows); err != nil {
			return err
		}

		summary = &task.IndexSummary{
			ParagraphID: paragraphID,
			TotalWords:  tokenizer.Total(counts),
			UniqueWords: len(counts),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("paragraph reindexed",
		"paragraph_id", paragraphID,
		"total_words", summary.TotalWords,
		"unique_words", summary.UniqueWords)

	return summary, nil
}
