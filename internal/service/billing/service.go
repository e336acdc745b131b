package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v72"

	"verbum/internal/domain"
	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
	"verbum/internal/domain/services"
)

// Service implements the BillingService interface: plan catalog lookup,
// payment-intent creation, and quota replenishment after confirmed payment.
type Service struct {
	plans    map[string]models.Plan
	ordered  []models.Plan
	ledger   repositories.QuotaLedger
	grants   repositories.GrantLog
	tx       repositories.TransactionManager
	payments PaymentClient
	logger   *slog.Logger
}

// NewService creates a new billing service. payments may be nil in
// deployments without payment collection (intent creation then fails
// cleanly while webhook-driven replenishment still works). tx may be nil
// for stores without transactions; grant and replenish then run
// sequentially without atomicity.
func NewService(
	plans []models.Plan,
	ledger repositories.QuotaLedger,
	grants repositories.GrantLog,
	tx repositories.TransactionManager,
	payments PaymentClient,
	logger *slog.Logger,
) services.BillingService {
	byID := make(map[string]models.Plan, len(plans))
	for _, plan := range plans {
		byID[plan.ID] = plan
	}

	return &Service{
		plans:    byID,
		ordered:  plans,
		ledger:   ledger,
		grants:   grants,
		tx:       tx,
		payments: payments,
		logger:   logger,
	}
}

// Plans returns the purchasable plan catalog.
func (s *Service) Plans() []models.Plan {
	out := make([]models.Plan, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// CreateIntent starts a payment for the given plan and returns the client
// secret to relay to the caller.
func (s *Service) CreateIntent(ctx context.Context, userID, planID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	plan, ok := s.plans[planID]
	if !ok {
		return "", fmt.Errorf("plan %q: %w", planID, domain.ErrInvalidPlan)
	}

	if s.payments == nil {
		return "", &domain.UpstreamError{
			Collaborator: "payment",
			Err:          fmt.Errorf("payment collection not configured"),
		}
	}

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:             stripe.Int64(int64(plan.Price)),
		Currency:           stripe.String(plan.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	// The webhook reads these back to route the confirmation.
	params.AddMetadata("user_id", userID)
	params.AddMetadata("plan_id", plan.ID)

	intent, err := s.payments.NewIntent(params)
	if err != nil {
		s.logger.Error("payment intent creation failed",
			"user_id", userID,
			"plan_id", planID,
			"error", err,
		)
		return "", &domain.UpstreamError{Collaborator: "payment", Err: err}
	}

	s.logger.Info("payment intent created",
		"user_id", userID,
		"plan_id", planID,
		"amount", plan.Price,
	)

	return intent.ClientSecret, nil
}

// ApplyPayment credits the plan's message allotment to the user's ledger
// entry. Overwrite semantics: the new standing is exactly the plan's
// allotment. The grant record and the ledger overwrite commit together so
// a redelivered event can never observe one without the other. Callers
// must have verified the payment confirmation's authenticity.
func (s *Service) ApplyPayment(ctx context.Context, eventID, userID, planID string) (models.Allowance, error) {
	if eventID == "" {
		return models.Allowance{}, fmt.Errorf("%w: event id is required", domain.ErrValidation)
	}
	if userID == "" {
		return models.Allowance{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	plan, ok := s.plans[planID]
	if !ok {
		return models.Allowance{}, fmt.Errorf("plan %q: %w", planID, domain.ErrInvalidPlan)
	}

	apply := func(ctx context.Context) error {
		if err := s.grants.Record(ctx, models.Grant{
			EventID:   eventID,
			UserID:    userID,
			PlanID:    planID,
			Allotment: plan.Allotment,
		}); err != nil {
			return err
		}
		return s.ledger.Replenish(ctx, userID, plan.Allotment)
	}

	var err error
	if s.tx != nil {
		err = s.tx.ExecTx(ctx, apply)
	} else {
		err = apply(ctx)
	}
	if errors.Is(err, domain.ErrDuplicateGrant) {
		s.logger.Info("payment event already applied, acknowledging redelivery",
			"event_id", eventID,
			"user_id", userID,
		)
		return s.ledger.Remaining(ctx, userID)
	}
	if err != nil {
		return models.Allowance{}, err
	}

	s.logger.Info("quota replenished from plan",
		"event_id", eventID,
		"user_id", userID,
		"plan_id", planID,
		"allotment", plan.Allotment.String(),
	)

	return plan.Allotment, nil
}
