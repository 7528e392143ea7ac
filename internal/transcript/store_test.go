package transcript

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryStoreAppendHistory(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	first := Record{Question: "q1", Answer: "a1", Timestamp: time.Now()}
	second := Record{Question: "q2", Answer: "a2", Timestamp: time.Now()}

	if err := store.Append(ctx, "session-a", first); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, "session-a", second); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, "session-b", first); err != nil {
		t.Fatal(err)
	}

	history, err := store.History(ctx, "session-a")
	if err != nil {
		t.Fatal(err)
	}

	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].Question != "q1" || history[1].Question != "q2" {
		t.Errorf("records out of order: %+v", history)
	}

	other, err := store.History(ctx, "session-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 1 {
		t.Errorf("sessions must not share transcripts, got %d records", len(other))
	}
}

func TestInMemoryStoreMissingSession(t *testing.T) {
	store := NewInMemoryStore()

	history, err := store.History(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if history == nil || len(history) != 0 {
		t.Errorf("expected an empty slice for a missing session, got %v", history)
	}
}

func TestInMemoryStoreHistoryIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Append(ctx, "session-a", Record{Question: "q1"}); err != nil {
		t.Fatal(err)
	}

	history, err := store.History(ctx, "session-a")
	if err != nil {
		t.Fatal(err)
	}

	history[0].Question = "mutated"

	again, err := store.History(ctx, "session-a")
	if err != nil {
		t.Fatal(err)
	}
	if again[0].Question != "q1" {
		t.Error("mutating a returned history must not affect the store")
	}
}

func TestInMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	if err := store.Append(ctx, "session-a", Record{Question: "q1"}); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(ctx, "session-a"); err != nil {
		t.Fatal(err)
	}

	history, err := store.History(ctx, "session-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("expected an empty transcript after clear, got %v", history)
	}

	// Clearing a missing session is not an error.
	if err := store.Clear(ctx, "never-existed"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
