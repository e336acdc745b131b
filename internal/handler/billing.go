package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"

	"verbum/internal/domain/services"
	"verbum/internal/httputil"
)

// maxWebhookBytes bounds webhook payloads, per Stripe's recommendation.
const maxWebhookBytes = int64(65536)

// BillingHandler handles plan listing, payment-intent creation, and the
// payment-confirmation webhook.
type BillingHandler struct {
	billingService services.BillingService
	webhookSecret  string
	logger         *slog.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService services.BillingService, webhookSecret string, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

// Plans returns the purchasable plan catalog
// GET /api/plans
func (h *BillingHandler) Plans(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"plans": h.billingService.Plans(),
	})
}

// createIntentRequest is the payment-intent request body.
type createIntentRequest struct {
	PlanID string `json:"plan_id"`
}

// CreateIntent starts a payment for a plan
// POST /api/billing/intent
func (h *BillingHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req createIntentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	clientSecret, err := h.billingService.CreateIntent(r.Context(), userID, req.PlanID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"client_secret": clientSecret,
	})
}

// Webhook handles Stripe payment events and replenishes quota.
// POST /api/billing/webhook
//
// Signature verification here is the authenticity boundary required before
// the replenishment handler may be invoked; the handler itself trusts its
// input.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		h.logger.Error("webhook read failed", "error", err)
		httputil.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	event, err := webhook.ConstructEvent(body, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.logger.Error("webhook signature verification failed", "error", err)
		httputil.RespondError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			h.logger.Error("webhook intent unmarshal failed", "error", err)
			httputil.RespondError(w, http.StatusBadRequest, "invalid intent payload")
			return
		}

		userID := intent.Metadata["user_id"]
		planID := intent.Metadata["plan_id"]
		if userID == "" || planID == "" {
			h.logger.Error("webhook intent missing metadata",
				"intent_id", intent.ID,
			)
			httputil.RespondError(w, http.StatusBadRequest, "intent missing user or plan metadata")
			return
		}

		allotment, err := h.billingService.ApplyPayment(r.Context(), event.ID, userID, planID)
		if err != nil {
			h.logger.Error("replenishment failed",
				"event_id", event.ID,
				"user_id", userID,
				"plan_id", planID,
				"error", err,
			)
			handleError(w, err)
			return
		}

		h.logger.Info("payment confirmed, quota replenished",
			"user_id", userID,
			"plan_id", planID,
			"allotment", allotment.String(),
		)
	default:
		h.logger.Debug("webhook event ignored", "type", event.Type)
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
