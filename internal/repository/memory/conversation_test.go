package memory

import (
	"context"
	"fmt"
	"testing"

	"verbum/internal/domain/models"
)

func TestConversationStore_AppendOrder(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		turn := models.UserTurn(fmt.Sprintf("message %d", i))
		if err := store.AppendTurn(ctx, "u1", turn); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	history, err := store.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(history))
	}
	for i, turn := range history {
		want := fmt.Sprintf("message %d", i)
		if turn.Content != want {
			t.Errorf("turn %d: expected %q, got %q", i, want, turn.Content)
		}
	}
}

func TestConversationStore_UnknownUserEmpty(t *testing.T) {
	store := NewConversationStore()

	history, err := store.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d turns", len(history))
	}
}

func TestConversationStore_Reset(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	store.AppendTurn(ctx, "u1", models.UserTurn("hello"))
	store.AppendTurn(ctx, "u2", models.UserTurn("other user"))

	if err := store.Reset(ctx, "u1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	history, _ := store.History(ctx, "u1")
	if len(history) != 0 {
		t.Errorf("expected empty history after reset, got %d turns", len(history))
	}

	// Reset is per user.
	other, _ := store.History(ctx, "u2")
	if len(other) != 1 {
		t.Errorf("reset leaked into another user's history: %d turns", len(other))
	}
}

func TestConversationStore_HistoryIsCopy(t *testing.T) {
	store := NewConversationStore()
	ctx := context.Background()

	store.AppendTurn(ctx, "u1", models.UserTurn("original"))

	history, _ := store.History(ctx, "u1")
	history[0].Content = "mutated"

	fresh, _ := store.History(ctx, "u1")
	if fresh[0].Content != "original" {
		t.Error("History returned a live reference to internal state")
	}
}
