package repositories

import (
	"context"

	"verbum/internal/domain/models"
)

// QuotaLedger tracks each user's remaining message allowance.
//
// Implementations must serialize TryConsume and Replenish per user id:
// two concurrent TryConsume calls that both observe a remaining count of 1
// must never both succeed. Remaining is never negative.
type QuotaLedger interface {
	// Remaining returns the user's current standing. An unseen user is
	// lazily initialized to the default starting allotment; standing of
	// already-seen users is never mutated by this call.
	Remaining(ctx context.Context, userID string) (models.Allowance, error)

	// TryConsume atomically checks the user's standing and, if a message
	// is available, deducts one and returns true. An exhausted finite
	// standing returns false with no mutation. The unlimited tier always
	// succeeds without decrementing.
	TryConsume(ctx context.Context, userID string) (bool, error)

	// Replenish overwrites the user's standing with the given allotment.
	// An allotment of zero is a valid explicit lockout; negative finite
	// allotments are rejected with domain.ErrValidation.
	Replenish(ctx context.Context, userID string, allotment models.Allowance) error
}

// ConversationStore keeps each user's ordered message history.
// Appends for the same user id serialize relative to each other so that
// insertion order is history order.
type ConversationStore interface {
	// AppendTurn adds a turn to the end of the user's history.
	AppendTurn(ctx context.Context, userID string, turn models.Turn) error

	// History returns the user's turns in insertion order. An unknown
	// user has an empty history.
	History(ctx context.Context, userID string) ([]models.Turn, error)

	// Reset discards the user's entire history. The only supported
	// deletion; retained as a policy hook for replenishment events.
	Reset(ctx context.Context, userID string) error
}

// GrantLog records applied payment events, keyed by provider event id.
// It is the deduplication barrier for redelivered payment webhooks.
type GrantLog interface {
	// Record appends the grant. A grant whose event id was already
	// recorded returns domain.ErrDuplicateGrant with no mutation.
	Record(ctx context.Context, grant models.Grant) error
}
