package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/store"
)

// fakeParagraphStore implements store.ParagraphStore with per-test functions.
type fakeParagraphStore struct {
	getForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error)
}

func (f *fakeParagraphStore) Create(ctx context.Context, paragraph *domain.Paragraph) error {
	return nil
}

func (f *fakeParagraphStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
	return f.getForUpdateFn(ctx, id)
}

func (f *fakeParagraphStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
	return f.getForUpdateFn(ctx, id)
}

func (f *fakeParagraphStore) WithTx(tx *sql.Tx) store.ParagraphStore {
	return f
}

// fakeWordFrequencyStore implements store.WordFrequencyStore and
// records the rows handed to ReplaceForParagraph.
type fakeWordFrequencyStore struct {
	replacedRows []*domain.WordFrequency
	replaceErr   error
}

func (f *fakeWordFrequencyStore) ReplaceForParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
	rows []*domain.WordFrequency,
) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replacedRows = rows
	return nil
}

func (f *fakeWordFrequencyStore) FindByParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
) ([]*domain.WordFrequency, error) {
	return nil, nil
}

func (f *fakeWordFrequencyStore) FindTopByWord(
	ctx context.Context,
	userID uuid.UUID,
	word string,
	limit int,
) ([]*store.WordFrequencyMatch, error) {
	return nil, nil
}

func (f *fakeWordFrequencyStore) WithTx(tx *sql.Tx) store.WordFrequencyStore {
	return f
}

func newIndexerUnderTest(
	t *testing.T,
	paragraphs *fakeParagraphStore,
	frequencies *fakeWordFrequencyStore,
) (*FrequencyIndexerService, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	indexer, err := NewFrequencyIndexerService(db, paragraphs, frequencies, nil)
	require.NoError(t, err)

	return indexer, dbMock
}

func TestReindexParagraph(t *testing.T) {
	t.Parallel()

	t.Run("computes and replaces frequency rows", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		paragraphID := uuid.New()
		paragraph := &domain.Paragraph{
			ID:        paragraphID,
			UserID:    userID,
			Content:   "The cat sat. The cat ran.",
			CreatedAt: time.Now().UTC(),
		}

		paragraphs := &fakeParagraphStore{
			getForUpdateFn: func(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
				assert.Equal(t, paragraphID, id)
				return paragraph, nil
			},
		}
		frequencies := &fakeWordFrequencyStore{}
		indexer, dbMock := newIndexerUnderTest(t, paragraphs, frequencies)

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		summary, err := indexer.ReindexParagraph(context.Background(), paragraphID)
		require.NoError(t, err)
		assert.Equal(t, paragraphID, summary.ParagraphID)
		assert.Equal(t, 6, summary.TotalWords)
		assert.Equal(t, 4, summary.UniqueWords)

		got := make(map[string]int, len(frequencies.replacedRows))
		for _, row := range frequencies.replacedRows {
			assert.Equal(t, userID, row.UserID)
			assert.Equal(t, paragraphID, row.ParagraphID)
			got[row.Word] = row.Count
		}
		assert.Equal(t, map[string]int{"the": 2, "cat": 2, "sat": 1, "ran": 1}, got)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("content with no tokens clears the index", func(t *testing.T) {
		t.Parallel()

		paragraphID := uuid.New()
		paragraphs := &fakeParagraphStore{
			getForUpdateFn: func(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
				return &domain.Paragraph{
					ID:      paragraphID,
					UserID:  uuid.New(),
					Content: "12345 !!! 67890",
				}, nil
			},
		}
		frequencies := &fakeWordFrequencyStore{
			replacedRows: []*domain.WordFrequency{{Word: "stale"}},
		}
		indexer, dbMock := newIndexerUnderTest(t, paragraphs, frequencies)

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		summary, err := indexer.ReindexParagraph(context.Background(), paragraphID)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.TotalWords)
		assert.Equal(t, 0, summary.UniqueWords)
		assert.Empty(t, frequencies.replacedRows)
	})

	t.Run("missing paragraph surfaces sentinel and rolls back", func(t *testing.T) {
		t.Parallel()

		paragraphs := &fakeParagraphStore{
			getForUpdateFn: func(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
				return nil, store.ErrParagraphNotFound
			},
		}
		indexer, dbMock := newIndexerUnderTest(t, paragraphs, &fakeWordFrequencyStore{})

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		_, err := indexer.ReindexParagraph(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrParagraphNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("replace failure rolls back", func(t *testing.T) {
		t.Parallel()

		paragraphs := &fakeParagraphStore{
			getForUpdateFn: func(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
				return &domain.Paragraph{
					ID:      id,
					UserID:  uuid.New(),
					Content: "some words",
				}, nil
			},
		}
		frequencies := &fakeWordFrequencyStore{replaceErr: errors.New("deadlock detected")}
		indexer, dbMock := newIndexerUnderTest(t, paragraphs, frequencies)

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		_, err := indexer.ReindexParagraph(context.Background(), uuid.New())
		assert.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
