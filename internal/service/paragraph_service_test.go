package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parafreq/parafreq-api/internal/domain"
	"github.com/parafreq/parafreq-api/internal/events"
	"github.com/parafreq/parafreq-api/internal/store"
	"github.com/parafreq/parafreq-api/internal/task"
)

// MockParagraphRepository is a mock implementation of ParagraphRepository
type MockParagraphRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockParagraphRepository) Create(ctx context.Context, paragraph *domain.Paragraph) error {
	args := m.Called(ctx, paragraph)
	return args.Error(0)
}

func (m *MockParagraphRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Paragraph, error) {
	args := m.Called(ctx, id)
	paragraph, _ := args.Get(0).(*domain.Paragraph)
	return paragraph, args.Error(1)
}

func (m *MockParagraphRepository) WithTx(tx *sql.Tx) ParagraphRepository {
	return m
}

func (m *MockParagraphRepository) DB() *sql.DB {
	return m.db
}

// MockWordFrequencyRepository is a mock implementation of WordFrequencyRepository
type MockWordFrequencyRepository struct {
	mock.Mock
}

func (m *MockWordFrequencyRepository) FindTopByWord(
	ctx context.Context,
	userID uuid.UUID,
	word string,
	limit int,
) ([]*store.WordFrequencyMatch, error) {
	args := m.Called(ctx, userID, word, limit)
	matches, _ := args.Get(0).([]*store.WordFrequencyMatch)
	return matches, args.Error(1)
}

func (m *MockWordFrequencyRepository) FindByParagraph(
	ctx context.Context,
	paragraphID uuid.UUID,
) ([]*domain.WordFrequency, error) {
	args := m.Called(ctx, paragraphID)
	frequencies, _ := args.Get(0).([]*domain.WordFrequency)
	return frequencies, args.Error(1)
}

// recordingEmitter records emitted events and optionally fails.
type recordingEmitter struct {
	emitted []*events.TaskRequestEvent
	err     error
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.emitted = append(e.emitted, event)
	return nil
}

func newServiceUnderTest(t *testing.T) (*MockParagraphRepository, *MockWordFrequencyRepository, *recordingEmitter, ParagraphService, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	paragraphRepo := &MockParagraphRepository{db: db}
	frequencyRepo := &MockWordFrequencyRepository{}
	emitter := &recordingEmitter{}

	svc, err := NewParagraphService(paragraphRepo, frequencyRepo, emitter, nil)
	require.NoError(t, err)

	return paragraphRepo, frequencyRepo, emitter, svc, dbMock
}

func TestNewParagraphService_NilDependencies(t *testing.T) {
	t.Parallel()

	repo := &MockParagraphRepository{}
	freq := &MockWordFrequencyRepository{}
	emitter := &recordingEmitter{}

	_, err := NewParagraphService(nil, freq, emitter, nil)
	assert.Error(t, err)

	_, err = NewParagraphService(repo, nil, emitter, nil)
	assert.Error(t, err)

	_, err = NewParagraphService(repo, freq, nil, nil)
	assert.Error(t, err)
}

func TestSubmitParagraphs(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("empty list rejected without side effects", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, emitter, svc, dbMock := newServiceUnderTest(t)

		_, err := svc.SubmitParagraphs(context.Background(), userID, nil)
		assert.ErrorIs(t, err, ErrEmptySubmission)

		paragraphRepo.AssertNotCalled(t, "Create")
		assert.Empty(t, emitter.emitted)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("all-blank list rejected without side effects", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, emitter, svc, _ := newServiceUnderTest(t)

		_, err := svc.SubmitParagraphs(context.Background(), userID, []string{"", "   ", "\t\n"})
		assert.ErrorIs(t, err, ErrEmptySubmission)

		paragraphRepo.AssertNotCalled(t, "Create")
		assert.Empty(t, emitter.emitted)
	})

	t.Run("persists non-blank items and emits one event each", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, emitter, svc, dbMock := newServiceUnderTest(t)

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		paragraphRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Paragraph")).
			Return(nil).Times(2)

		created, err := svc.SubmitParagraphs(context.Background(), userID,
			[]string{"The cat sat.", "   ", "The cat ran."})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, "The cat sat.", created[0].Content)
		assert.Equal(t, "The cat ran.", created[1].Content)

		require.Len(t, emitter.emitted, 2)
		for i, event := range emitter.emitted {
			assert.Equal(t, task.TaskTypeFrequencyComputation, event.Type)

			var payload struct {
				ParagraphID uuid.UUID `json:"paragraph_id"`
			}
			require.NoError(t, event.UnmarshalPayload(&payload))
			assert.Equal(t, created[i].ID, payload.ParagraphID)
		}

		paragraphRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("duplicate content creates independent paragraphs", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, emitter, svc, dbMock := newServiceUnderTest(t)

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		paragraphRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Paragraph")).
			Return(nil).Times(2)

		created, err := svc.SubmitParagraphs(context.Background(), userID,
			[]string{"same text", "same text"})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.NotEqual(t, created[0].ID, created[1].ID)
		assert.Len(t, emitter.emitted, 2)
	})

	t.Run("storage failure rolls back and emits nothing", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, emitter, svc, dbMock := newServiceUnderTest(t)

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		paragraphRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Paragraph")).
			Return(errors.New("insert failed")).Once()

		_, err := svc.SubmitParagraphs(context.Background(), userID, []string{"doomed"})
		assert.Error(t, err)
		assert.Empty(t, emitter.emitted)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("emit failure surfaces to caller", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, emitter, svc, dbMock := newServiceUnderTest(t)
		emitter.err = errors.New("queue unavailable")

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		paragraphRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Paragraph")).
			Return(nil).Once()

		_, err := svc.SubmitParagraphs(context.Background(), userID, []string{"orphan"})
		assert.Error(t, err)

		var svcErr *ParagraphServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestSearchWord(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("empty word rejected without query", func(t *testing.T) {
		t.Parallel()

		_, frequencyRepo, _, svc, _ := newServiceUnderTest(t)

		_, err := svc.SearchWord(context.Background(), userID, "   ")
		assert.ErrorIs(t, err, ErrEmptySearchWord)
		frequencyRepo.AssertNotCalled(t, "FindTopByWord")
	})

	t.Run("word is trimmed and lowercased", func(t *testing.T) {
		t.Parallel()

		_, frequencyRepo, _, svc, _ := newServiceUnderTest(t)

		frequencyRepo.On("FindTopByWord", mock.Anything, userID, "cat", SearchResultLimit).
			Return([]*store.WordFrequencyMatch{}, nil).Once()

		matches, err := svc.SearchWord(context.Background(), userID, "  CaT ")
		require.NoError(t, err)
		assert.Empty(t, matches)
		frequencyRepo.AssertExpectations(t)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		t.Parallel()

		_, frequencyRepo, _, svc, _ := newServiceUnderTest(t)

		frequencyRepo.On("FindTopByWord", mock.Anything, userID, "cat", SearchResultLimit).
			Return(nil, errors.New("query failed")).Once()

		_, err := svc.SearchWord(context.Background(), userID, "cat")
		assert.Error(t, err)

		var svcErr *ParagraphServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestGetParagraph(t *testing.T) {
	t.Parallel()

	t.Run("maps store not-found to service sentinel", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, _, _, svc, _ := newServiceUnderTest(t)

		paragraphRepo.On("GetByID", mock.Anything, mock.Anything).
			Return(nil, store.ErrParagraphNotFound).Once()

		_, err := svc.GetParagraph(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrParagraphNotFound)
	})
}

func TestGetParagraphIndex(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns paragraph with its word frequencies", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, frequencyRepo, _, svc, _ := newServiceUnderTest(t)

		paragraph, err := domain.NewParagraph(userID, "the cat sat")
		require.NoError(t, err)

		frequencies := []*domain.WordFrequency{
			{ID: uuid.New(), UserID: userID, ParagraphID: paragraph.ID, Word: "the", Count: 1},
			{ID: uuid.New(), UserID: userID, ParagraphID: paragraph.ID, Word: "cat", Count: 1},
		}

		paragraphRepo.On("GetByID", mock.Anything, paragraph.ID).
			Return(paragraph, nil).Once()
		frequencyRepo.On("FindByParagraph", mock.Anything, paragraph.ID).
			Return(frequencies, nil).Once()

		got, gotFrequencies, err := svc.GetParagraphIndex(context.Background(), userID, paragraph.ID)
		require.NoError(t, err)
		assert.Equal(t, paragraph, got)
		assert.Equal(t, frequencies, gotFrequencies)

		paragraphRepo.AssertExpectations(t)
		frequencyRepo.AssertExpectations(t)
	})

	t.Run("another user's paragraph reads as not found", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, frequencyRepo, _, svc, _ := newServiceUnderTest(t)

		paragraph, err := domain.NewParagraph(uuid.New(), "someone else's words")
		require.NoError(t, err)

		paragraphRepo.On("GetByID", mock.Anything, paragraph.ID).
			Return(paragraph, nil).Once()

		_, _, err = svc.GetParagraphIndex(context.Background(), userID, paragraph.ID)
		assert.ErrorIs(t, err, ErrParagraphNotFound)

		frequencyRepo.AssertNotCalled(t, "FindByParagraph", mock.Anything, mock.Anything)
	})

	t.Run("frequency lookup error is wrapped", func(t *testing.T) {
		t.Parallel()

		paragraphRepo, frequencyRepo, _, svc, _ := newServiceUnderTest(t)

		paragraph, err := domain.NewParagraph(userID, "the cat sat")
		require.NoError(t, err)

		paragraphRepo.On("GetByID", mock.Anything, paragraph.ID).
			Return(paragraph, nil).Once()
		frequencyRepo.On("FindByParagraph", mock.Anything, paragraph.ID).
			Return(nil, errors.New("query failed")).Once()

		_, _, err = svc.GetParagraphIndex(context.Background(), userID, paragraph.ID)

		var svcErr *ParagraphServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}
