package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewWordFrequency(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	paragraphID := uuid.New()

	wf, err := NewWordFrequency(userID, paragraphID, "cat", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if wf.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if wf.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, wf.UserID)
	}

	if wf.ParagraphID != paragraphID {
		t.Errorf("Expected paragraph ID %s, got %s", paragraphID, wf.ParagraphID)
	}

	if wf.Word != "cat" {
		t.Errorf("Expected word %q, got %q", "cat", wf.Word)
	}

	if wf.Count != 2 {
		t.Errorf("Expected count 2, got %d", wf.Count)
	}

	if wf.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestWordFrequencyValidate(t *testing.T) {
	t.Parallel()

	valid := WordFrequency{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ParagraphID: uuid.New(),
		Word:        "cat",
		Count:       1,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*WordFrequency)
		wantErr error
	}{
		{"nil ID", func(wf *WordFrequency) { wf.ID = uuid.Nil }, ErrEmptyWordFrequencyID},
		{"nil user ID", func(wf *WordFrequency) { wf.UserID = uuid.Nil }, ErrEmptyWordFrequencyUserID},
		{
			"nil paragraph ID",
			func(wf *WordFrequency) { wf.ParagraphID = uuid.Nil },
			ErrEmptyWordFrequencyParagraphID,
		},
		{"empty word", func(wf *WordFrequency) { wf.Word = "" }, ErrEmptyWord},
		{
			"word too long",
			func(wf *WordFrequency) { wf.Word = strings.Repeat("a", MaxWordLength+1) },
			ErrWordTooLong,
		},
		{"zero count", func(wf *WordFrequency) { wf.Count = 0 }, ErrNonPositiveCount},
		{"negative count", func(wf *WordFrequency) { wf.Count = -3 }, ErrNonPositiveCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := valid
			tt.mutate(&wf)
			if err := wf.Validate(); err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
