package task

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockTaskStore implements the TaskStore interface for testing. It
// keeps task records in memory and allows individual methods to be
// overridden per test.
type MockTaskStore struct {
	mutex           sync.RWMutex
	records         map[uuid.UUID]*Record
	taskStatusTimes map[uuid.UUID]time.Time
	SaveFn          func(ctx context.Context, task Task) error
	UpdateStatusFn  func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// NewMockTaskStore creates a new MockTaskStore with default implementations
func NewMockTaskStore() *MockTaskStore {
	store := &MockTaskStore{
		records:         make(map[uuid.UUID]*Record),
		taskStatusTimes: make(map[uuid.UUID]time.Time),
	}

	store.SaveFn = func(ctx context.Context, task Task) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		now := time.Now()
		store.records[task.ID()] = &Record{
			ID:        task.ID(),
			Type:      task.Type(),
			Payload:   task.Payload(),
			Status:    task.Status(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		store.taskStatusTimes[task.ID()] = now
		return nil
	}

	store.UpdateStatusFn = func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		record, exists := store.records[taskID]
		if !exists {
			return nil
		}

		record.Status = status
		record.ErrorMessage = errorMsg
		record.UpdatedAt = time.Now()
		store.taskStatusTimes[taskID] = record.UpdatedAt
		return nil
	}

	return store
}

// SaveTask persists a task to the mock store
func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

// UpdateTaskStatus updates the status of a task in the mock store
func (s *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetPendingTasks retrieves all records with "pending" status
func (s *MockTaskStore) GetPendingTasks(ctx context.Context) ([]*Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pending []*Record
	for _, record := range s.records {
		if record.Status == TaskStatusPending {
			pending = append(pending, record)
		}
	}
	return pending, nil
}

// GetProcessingTasks retrieves records with "processing" status,
// optionally filtered to those older than the given duration.
func (s *MockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]*Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cutoff := time.Now().Add(-olderThan)

	var processing []*Record
	for id, record := range s.records {
		if record.Status != TaskStatusProcessing {
			continue
		}
		if olderThan > 0 {
			statusTime, ok := s.taskStatusTimes[id]
			if !ok || statusTime.After(cutoff) {
				continue
			}
		}
		processing = append(processing, record)
	}
	return processing, nil
}

// WithTx returns the same store; the mock has no transaction scope.
func (s *MockTaskStore) WithTx(tx *sql.Tx) TaskStore {
	return s
}

// GetRecord returns the stored record for a task ID, for assertions.
func (s *MockTaskStore) GetRecord(taskID uuid.UUID) (*Record, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, ok := s.records[taskID]
	return record, ok
}

// SetStatusTime overrides the recorded status-change time for a task,
// letting tests age a record past the stuck-task threshold.
func (s *MockTaskStore) SetStatusTime(taskID uuid.UUID, at time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.taskStatusTimes[taskID] = at
}
