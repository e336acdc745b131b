package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"verbum/internal/config"
	"verbum/internal/domain"
	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
	"verbum/internal/domain/services"
)

// Service implements the ChatService interface. It is the single
// request-handling state machine for a chat turn: validate, consume a
// quota unit, record the user turn, call the completion provider, record
// the reply.
type Service struct {
	ledger      repositories.QuotaLedger
	store       repositories.ConversationStore
	provider    services.CompletionProvider
	persona     string
	temperature float64
	logger      *slog.Logger
}

// NewService creates a new entitlement gate.
func NewService(
	ledger repositories.QuotaLedger,
	store repositories.ConversationStore,
	provider services.CompletionProvider,
	cfg *config.Config,
	logger *slog.Logger,
) services.ChatService {
	return &Service{
		ledger:      ledger,
		store:       store,
		provider:    provider,
		persona:     cfg.PersonaPrompt,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Converse handles one chat turn end to end.
//
// Ordering guarantee: quota consumption happens before the provider call
// and before any history write. A consumed unit is never refunded, even
// when the provider fails; the user turn is kept so the next admitted
// request still carries full context.
func (s *Service) Converse(ctx context.Context, req *services.ConverseRequest) (*services.ConverseResult, error) {
	if err := s.validateConverseRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	admitted, err := s.ledger.TryConsume(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !admitted {
		s.logger.Info("chat rejected, quota exhausted", "user_id", req.UserID)
		return nil, &domain.QuotaExceededError{UserID: req.UserID}
	}

	if err := s.store.AppendTurn(ctx, req.UserID, models.UserTurn(req.Text)); err != nil {
		return nil, err
	}

	history, err := s.store.History(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	prompt := models.BuildPrompt(s.persona, history)

	reply, err := s.provider.Complete(ctx, prompt, s.temperature)
	if err != nil {
		s.logger.Error("completion failed",
			"user_id", req.UserID,
			"error", err,
		)
		return nil, &domain.UpstreamError{Collaborator: "completion", Err: err}
	}

	if err := s.store.AppendTurn(ctx, req.UserID, models.AssistantTurn(reply)); err != nil {
		return nil, err
	}

	remaining, err := s.ledger.Remaining(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat completed",
		"user_id", req.UserID,
		"turns", len(history)+1,
		"remaining", remaining.String(),
	)

	return &services.ConverseResult{
		Reply:     reply,
		Remaining: remaining,
	}, nil
}

// History returns the user's stored conversation.
func (s *Service) History(ctx context.Context, userID string) ([]models.Turn, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.store.History(ctx, userID)
}

// Remaining returns the user's current quota standing.
func (s *Service) Remaining(ctx context.Context, userID string) (models.Allowance, error) {
	if userID == "" {
		return models.Allowance{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	return s.ledger.Remaining(ctx, userID)
}

func (s *Service) validateConverseRequest(req *services.ConverseRequest) error {
	req.Text = strings.TrimSpace(req.Text)

	return validation.ValidateStruct(req,
		validation.Field(&req.UserID,
			validation.Required,
			validation.Length(1, config.MaxUserIDLength),
		),
		validation.Field(&req.Text,
			validation.Required,
			validation.Length(1, config.MaxMessageLength),
		),
	)
}
