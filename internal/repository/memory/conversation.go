package memory

import (
	"context"
	"sync"

	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
)

// ConversationStore is an in-memory ConversationStore for dev mode and
// tests. The mutex serializes appends so insertion order is history order.
type ConversationStore struct {
	mu        sync.RWMutex
	histories map[string][]models.Turn
}

var _ repositories.ConversationStore = (*ConversationStore)(nil)

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		histories: make(map[string][]models.Turn),
	}
}

// AppendTurn adds a turn to the end of the user's history.
func (s *ConversationStore) AppendTurn(_ context.Context, userID string, turn models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[userID] = append(s.histories[userID], turn)
	return nil
}

// History returns a copy of the user's turns in insertion order.
func (s *ConversationStore) History(_ context.Context, userID string) ([]models.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.histories[userID]
	out := make([]models.Turn, len(history))
	copy(out, history)
	return out, nil
}

// Reset discards the user's entire history.
func (s *ConversationStore) Reset(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.histories, userID)
	return nil
}
