package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parafreq/parafreq-api/internal/events"
)

// TaskCreator builds a runnable task for a paragraph. It is satisfied
// by *FrequencyTaskFactory.
type TaskCreator interface {
	CreateTask(paragraphID uuid.UUID) (Task, error)
}

// TaskSubmitter accepts tasks for asynchronous execution. It is
// satisfied by *TaskRunner.
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler turns task request events into runnable tasks
// and hands them to the runner. It implements events.EventHandler.
type TaskFactoryEventHandler struct {
	factory TaskCreator
	runner  TaskSubmitter
	logger  *slog.Logger
}

// NewTaskFactoryEventHandler creates an event handler wired to the
// given factory and runner.
func NewTaskFactoryEventHandler(
	factory TaskCreator,
	runner TaskSubmitter,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent creates and submits a task for a frequency computation
// request. Events of other types are ignored so additional handlers can
// claim them later.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeFrequencyComputation {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		ParagraphID string `json:"paragraph_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	paragraphID, err := uuid.Parse(payload.ParagraphID)
	if err != nil {
		h.logger.Error("invalid paragraph ID",
			"error", err,
			"paragraph_id", payload.ParagraphID,
			"event_id", event.ID)
		return fmt.Errorf("invalid paragraph ID: %w", err)
	}

	task, err := h.factory.CreateTask(paragraphID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"paragraph_id", paragraphID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"paragraph_id", paragraphID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("task submitted",
		"task_id", task.ID(),
		"paragraph_id", paragraphID,
		"event_id", event.ID)
	return nil
}
