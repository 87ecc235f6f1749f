package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/store"
)

// Status constants for FrequencyComputationTask results. These mirror
// the observable outcomes of one computation attempt.
const (
	resultCompleted = "completed"
	resultRetrying  = "retrying"
	resultError     = "error"
)

// Common errors
var (
	ErrNilIndexer     = errors.New("indexer cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyParagraph = errors.New("paragraph ID cannot be empty")
)

// IndexSummary is the structured result of one successful computation
// run, suitable for logs and diagnostics. It is never returned to the
// submitting caller, which has already received its response.
type IndexSummary struct {
	ParagraphID uuid.UUID `json:"paragraph_id"`
	TotalWords  int       `json:"total_words"`
	UniqueWords int       `json:"unique_words"`
}

// FrequencyIndexer performs the locked, atomic index recomputation for
// one paragraph. Implementations must return store.ErrParagraphNotFound
// (possibly wrapped) when the paragraph does not exist, since the task
// retries that case on a shorter delay than other failures.
type FrequencyIndexer interface {
	ReindexParagraph(ctx context.Context, paragraphID uuid.UUID) (*IndexSummary, error)
}

// RetryPolicy bounds how a frequency-computation task retries.
// NotFoundDelay applies when the paragraph is not yet visible (the job
// can race ahead of the creating commit); FailureDelay applies to every
// other error. After MaxRetries additional attempts the task is
// abandoned with a failed status.
type RetryPolicy struct {
	MaxRetries    int
	NotFoundDelay time.Duration
	FailureDelay  time.Duration
}

// DefaultRetryPolicy returns the standard retry policy: three retries,
// 5s after a missed paragraph lookup, 10s after any other failure.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		NotFoundDelay: 5 * time.Second,
		FailureDelay:  10 * time.Second,
	}
}

// frequencyComputationPayload represents the serialized data stored in the task
type frequencyComputationPayload struct {
	ParagraphID uuid.UUID `json:"paragraph_id"`
}

// FrequencyComputationTask implements the Task interface for rebuilding
// one paragraph's word-frequency index. The payload is only the
// paragraph identifier: the task re-reads current state on every
// attempt, which keeps re-delivery and re-execution idempotent.
type FrequencyComputationTask struct {
	id          uuid.UUID
	paragraphID uuid.UUID
	indexer     FrequencyIndexer
	retry       RetryPolicy
	logger      *slog.Logger
	status      TaskStatus
}

// NewFrequencyComputationTask creates a new frequency computation task
func NewFrequencyComputationTask(
	paragraphID uuid.UUID,
	indexer FrequencyIndexer,
	retry RetryPolicy,
	logger *slog.Logger,
) (*FrequencyComputationTask, error) {
	return newFrequencyComputationTask(uuid.New(), paragraphID, indexer, retry, logger)
}

// newFrequencyComputationTask is the shared constructor; recovery
// rebuilds tasks with their persisted ID so status updates hit the
// original row.
func newFrequencyComputationTask(
	id uuid.UUID,
	paragraphID uuid.UUID,
	indexer FrequencyIndexer,
	retry RetryPolicy,
	logger *slog.Logger,
) (*FrequencyComputationTask, error) {
	if indexer == nil {
		return nil, ErrNilIndexer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if paragraphID == uuid.Nil {
		return nil, ErrEmptyParagraph
	}

	if retry.MaxRetries < 0 {
		retry = DefaultRetryPolicy()
	}

	return &FrequencyComputationTask{
		id:          id,
		paragraphID: paragraphID,
		indexer:     indexer,
		retry:       retry,
		logger:      logger.With("task_type", TaskTypeFrequencyComputation, "paragraph_id", paragraphID),
		status:      TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *FrequencyComputationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *FrequencyComputationTask) Type() string {
	return TaskTypeFrequencyComputation
}

// Payload returns the task data as a byte slice
func (t *FrequencyComputationTask) Payload() []byte {
	payload := frequencyComputationPayload{
		ParagraphID: t.paragraphID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *FrequencyComputationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the frequency computation with bounded retries. A
// paragraph that is not yet visible retries on the short delay; any
// other failure retries on the longer delay carrying the original
// error. Exhausting retries abandons the task with a failed status and
// leaves the paragraph un-indexed; a later re-submission gets a fresh
// job.
func (t *FrequencyComputationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting frequency computation task")

	var lastErr error
	for attempt := 0; attempt <= t.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			t.status = TaskStatusFailed
			t.logger.Error("task cancelled by context", "error", err)
			return fmt.Errorf("task cancelled by context: %w", err)
		}

		summary, err := t.indexer.ReindexParagraph(ctx, t.paragraphID)
		if err == nil {
			t.status = TaskStatusCompleted
			t.logger.Info("frequency computation completed",
				"status", resultCompleted,
				"total_words", summary.TotalWords,
				"unique_words", summary.UniqueWords)
			return nil
		}

		lastErr = err
		if attempt == t.retry.MaxRetries {
			break
		}

		delay := t.retry.FailureDelay
		if errors.Is(err, store.ErrParagraphNotFound) {
			delay = t.retry.NotFoundDelay
		}

		t.logger.Warn("frequency computation attempt failed, retrying",
			"status", resultRetrying,
			"attempt", attempt+1,
			"max_retries", t.retry.MaxRetries,
			"retry_delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			t.status = TaskStatusFailed
			return fmt.Errorf("task cancelled while waiting to retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	t.status = TaskStatusFailed
	t.logger.Error("frequency computation abandoned after exhausting retries",
		"status", resultError,
		"max_retries", t.retry.MaxRetries,
		"error", lastErr)
	return fmt.Errorf("frequency computation failed after %d retries: %w", t.retry.MaxRetries, lastErr)
}
