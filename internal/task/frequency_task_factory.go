package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// FrequencyTaskFactory creates frequency computation tasks and
// rehydrates them from persisted records after a restart. It implements
// the Hydrator interface used by the TaskRunner's recovery path.
type FrequencyTaskFactory struct {
	indexer FrequencyIndexer
	retry   RetryPolicy
	logger  *slog.Logger
}

// NewFrequencyTaskFactory creates a new task factory
func NewFrequencyTaskFactory(
	indexer FrequencyIndexer,
	retry RetryPolicy,
	logger *slog.Logger,
) (*FrequencyTaskFactory, error) {
	if indexer == nil {
		return nil, ErrNilIndexer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &FrequencyTaskFactory{
		indexer: indexer,
		retry:   retry,
		logger:  logger.With("component", "frequency_task_factory"),
	}, nil
}

// CreateTask builds a fresh frequency computation task for the given
// paragraph.
func (f *FrequencyTaskFactory) CreateTask(paragraphID uuid.UUID) (Task, error) {
	return NewFrequencyComputationTask(paragraphID, f.indexer, f.retry, f.logger)
}

// Hydrate rebuilds an executable task from a persisted record,
// preserving the record's ID so subsequent status updates land on the
// original row.
func (f *FrequencyTaskFactory) Hydrate(record *Record) (Task, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot hydrate nil record")
	}
	if record.Type != TaskTypeFrequencyComputation {
		return nil, fmt.Errorf("unknown task type %q", record.Type)
	}

	var payload frequencyComputationPayload
	if err := json.Unmarshal(record.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	return newFrequencyComputationTask(record.ID, payload.ParagraphID, f.indexer, f.retry, f.logger)
}
