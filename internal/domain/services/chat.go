package services

import (
	"context"

	"verbum/internal/domain/models"
)

// ConverseRequest is a single chat turn from a user.
type ConverseRequest struct {
	UserID string `json:"-"`
	Text   string `json:"text"`
}

// ConverseResult is the outcome of an admitted, completed chat turn.
type ConverseResult struct {
	Reply     string           `json:"reply"`
	Remaining models.Allowance `json:"remaining"`
}

// ChatService is the entitlement gate for chat turns: it admits or rejects
// a request against the quota ledger, runs the completion call, and records
// the exchange.
type ChatService interface {
	// Converse handles one chat turn end to end. Quota consumption
	// happens before the provider call; a provider failure does not
	// refund the consumed unit.
	Converse(ctx context.Context, req *ConverseRequest) (*ConverseResult, error)

	// History returns the user's stored conversation.
	History(ctx context.Context, userID string) ([]models.Turn, error)

	// Remaining returns the user's current quota standing.
	Remaining(ctx context.Context, userID string) (models.Allowance, error)
}
