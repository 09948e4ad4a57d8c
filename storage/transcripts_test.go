package storage

import (
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *TranscriptStorage {
	t.Helper()
	ts, err := NewTranscriptStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewTranscriptStorage failed: %v", err)
	}
	t.Cleanup(func() { ts.Close() })
	return ts
}

func TestTranscriptAppendAndList(t *testing.T) {
	ts := newTestStorage(t)

	entries := []TranscriptEntry{
		{Conversation: "default", UserMessage: "hi", AssistantText: "hello!", Model: "test-model"},
		{Conversation: "default", UserMessage: "set a reminder", AssistantText: "done", Model: "test-model"},
		{Conversation: "other", UserMessage: "x", AssistantText: "y"},
	}
	for _, e := range entries {
		if err := ts.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := ts.List("default")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].UserMessage != "hi" || got[1].UserMessage != "set a reminder" {
		t.Error("entries not in insertion order")
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on append")
	}

	count, err := ts.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestTranscriptListEmpty(t *testing.T) {
	ts := newTestStorage(t)

	got, err := ts.List("nope")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

func TestTranscriptKeepsExplicitTimestamp(t *testing.T) {
	ts := newTestStorage(t)

	stamp := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	err := ts.Append(TranscriptEntry{
		Conversation:  "default",
		UserMessage:   "hi",
		AssistantText: "hello",
		CreatedAt:     stamp,
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := ts.List("default")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !got[0].CreatedAt.Equal(stamp) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, stamp)
	}
}
