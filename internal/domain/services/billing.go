package services

import (
	"context"

	"verbum/internal/domain/models"
)

// BillingService owns the plan catalog, payment-intent creation, and quota
// replenishment after a confirmed payment.
type BillingService interface {
	// Plans returns the purchasable plan catalog.
	Plans() []models.Plan

	// CreateIntent starts a payment for the given plan and returns the
	// client secret the caller relays to the payment page.
	CreateIntent(ctx context.Context, userID, planID string) (string, error)

	// ApplyPayment credits the plan's message allotment to the user's
	// ledger entry and records the grant under the provider's event id.
	// Redelivery of an already-applied event id is acknowledged without
	// touching the ledger. Callers must have verified the payment
	// confirmation's authenticity before invoking this; ApplyPayment
	// trusts its input.
	ApplyPayment(ctx context.Context, eventID, userID, planID string) (models.Allowance, error)
}
