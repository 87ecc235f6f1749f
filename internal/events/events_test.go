package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskRequestEvent(t *testing.T) {
	type testPayload struct {
		ParagraphID uuid.UUID `json:"paragraph_id"`
	}

	payload := testPayload{ParagraphID: uuid.New()}

	event, err := NewTaskRequestEvent("frequency_computation", payload)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "frequency_computation", event.Type)
	assert.NotNil(t, event.Payload)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded testPayload
	err = json.Unmarshal(event.Payload, &decoded)
	require.NoError(t, err)
	assert.Equal(t, payload.ParagraphID, decoded.ParagraphID)
}

func TestUnmarshalPayload(t *testing.T) {
	type testPayload struct {
		ParagraphID uuid.UUID `json:"paragraph_id"`
	}

	original := testPayload{ParagraphID: uuid.New()}
	event, err := NewTaskRequestEvent("frequency_computation", original)
	require.NoError(t, err)

	var decoded testPayload
	err = event.UnmarshalPayload(&decoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

// MockEventHandler implements EventHandler for tests.
type MockEventHandler struct {
	LastEvent    *TaskRequestEvent
	HandledCount int
	HandlerError error
}

func (m *MockEventHandler) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	m.LastEvent = event
	m.HandledCount++
	return m.HandlerError
}
