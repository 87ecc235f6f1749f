package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parafreq/parafreq-api/internal/events"
)

type mockTaskCreator struct {
	createFn func(paragraphID uuid.UUID) (Task, error)
}

func (m *mockTaskCreator) CreateTask(paragraphID uuid.UUID) (Task, error) {
	return m.createFn(paragraphID)
}

type mockTaskSubmitter struct {
	submitted []Task
	submitErr error
}

func (m *mockTaskSubmitter) Submit(ctx context.Context, task Task) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submitted = append(m.submitted, task)
	return nil
}

func frequencyEvent(t *testing.T, paragraphID string) *events.TaskRequestEvent {
	t.Helper()
	event, err := events.NewTaskRequestEvent(TaskTypeFrequencyComputation,
		map[string]string{"paragraph_id": paragraphID})
	require.NoError(t, err)
	return event
}

func TestTaskFactoryEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	logger := testLogger()

	t.Run("creates and submits task", func(t *testing.T) {
		t.Parallel()

		paragraphID := uuid.New()
		created := NewMockTask(uuid.New(), TaskTypeFrequencyComputation, nil)
		creator := &mockTaskCreator{
			createFn: func(id uuid.UUID) (Task, error) {
				assert.Equal(t, paragraphID, id)
				return created, nil
			},
		}
		submitter := &mockTaskSubmitter{}
		handler := NewTaskFactoryEventHandler(creator, submitter, logger)

		err := handler.HandleEvent(context.Background(), frequencyEvent(t, paragraphID.String()))
		require.NoError(t, err)
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, created.ID(), submitter.submitted[0].ID())
	})

	t.Run("ignores other event types", func(t *testing.T) {
		t.Parallel()

		creator := &mockTaskCreator{
			createFn: func(id uuid.UUID) (Task, error) {
				t.Fatal("factory should not be called")
				return nil, nil
			},
		}
		submitter := &mockTaskSubmitter{}
		handler := NewTaskFactoryEventHandler(creator, submitter, logger)

		event, err := events.NewTaskRequestEvent("unrelated_event", map[string]string{})
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.Empty(t, submitter.submitted)
	})

	t.Run("invalid paragraph ID", func(t *testing.T) {
		t.Parallel()

		creator := &mockTaskCreator{
			createFn: func(id uuid.UUID) (Task, error) { return nil, nil },
		}
		handler := NewTaskFactoryEventHandler(creator, &mockTaskSubmitter{}, logger)

		err := handler.HandleEvent(context.Background(), frequencyEvent(t, "not-a-uuid"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid paragraph ID")
	})

	t.Run("factory error surfaces", func(t *testing.T) {
		t.Parallel()

		creator := &mockTaskCreator{
			createFn: func(id uuid.UUID) (Task, error) {
				return nil, errors.New("factory broken")
			},
		}
		handler := NewTaskFactoryEventHandler(creator, &mockTaskSubmitter{}, logger)

		err := handler.HandleEvent(context.Background(), frequencyEvent(t, uuid.NewString()))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create task")
	})

	t.Run("submit error surfaces", func(t *testing.T) {
		t.Parallel()

		creator := &mockTaskCreator{
			createFn: func(id uuid.UUID) (Task, error) {
				return NewMockTask(uuid.New(), TaskTypeFrequencyComputation, nil), nil
			},
		}
		submitter := &mockTaskSubmitter{submitErr: errors.New("queue is full")}
		handler := NewTaskFactoryEventHandler(creator, submitter, logger)

		err := handler.HandleEvent(context.Background(), frequencyEvent(t, uuid.NewString()))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to submit task")
	})
}
