package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verbum/internal/domain/models"
	"verbum/internal/repository/memory"
	"verbum/internal/service/billing"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header for the given payload,
// matching the scheme ConstructEvent verifies.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newWebhookFixture() (*BillingHandler, *memory.QuotaLedger) {
	ledger := memory.NewQuotaLedger(10)
	plans := []models.Plan{
		{ID: "medium", Price: 1999, Currency: "pln", Allotment: models.Finite(50)},
	}
	svc := billing.NewService(plans, ledger, memory.NewGrantLog(), nil, nil, testLogger())
	return NewBillingHandler(svc, testWebhookSecret, testLogger()), ledger
}

func postWebhook(h *BillingHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/billing/webhook", strings.NewReader(string(payload)))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func TestWebhook(t *testing.T) {
	succeededPayload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_1",
				"object": "payment_intent",
				"metadata": {"user_id": "u1", "plan_id": "medium"}
			}
		}
	}`)

	t.Run("verified payment replenishes quota", func(t *testing.T) {
		h, ledger := newWebhookFixture()

		rec := postWebhook(h, succeededPayload, signPayload(succeededPayload, testWebhookSecret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		remaining, _ := ledger.Remaining(context.Background(), "u1")
		if remaining.Count != 50 {
			t.Errorf("expected remaining 50, got %s", remaining)
		}
	})

	t.Run("redelivered event acknowledged without re-applying", func(t *testing.T) {
		h, ledger := newWebhookFixture()

		rec := postWebhook(h, succeededPayload, signPayload(succeededPayload, testWebhookSecret))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ok, err := ledger.TryConsume(context.Background(), "u1"); err != nil || !ok {
			t.Fatalf("TryConsume: ok=%v err=%v", ok, err)
		}

		// Stripe retries deliveries; the same event must not reset the quota.
		rec = postWebhook(h, succeededPayload, signPayload(succeededPayload, testWebhookSecret))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on redelivery, got %d", rec.Code)
		}

		remaining, _ := ledger.Remaining(context.Background(), "u1")
		if remaining.Count != 49 {
			t.Errorf("redelivery reset the ledger: %s", remaining)
		}
	})

	t.Run("bad signature never reaches the ledger", func(t *testing.T) {
		h, ledger := newWebhookFixture()

		rec := postWebhook(h, succeededPayload, signPayload(succeededPayload, "whsec_wrong"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		remaining, _ := ledger.Remaining(context.Background(), "u1")
		if remaining.Count != 10 {
			t.Errorf("unverified event mutated the ledger: %s", remaining)
		}
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		h, _ := newWebhookFixture()

		rec := postWebhook(h, succeededPayload, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown plan in metadata maps to 400", func(t *testing.T) {
		h, ledger := newWebhookFixture()
		payload := []byte(`{
			"id": "evt_2",
			"type": "payment_intent.succeeded",
			"data": {
				"object": {
					"id": "pi_2",
					"object": "payment_intent",
					"metadata": {"user_id": "u1", "plan_id": "golden"}
				}
			}
		}`)

		rec := postWebhook(h, payload, signPayload(payload, testWebhookSecret))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		remaining, _ := ledger.Remaining(context.Background(), "u1")
		if remaining.Count != 10 {
			t.Errorf("invalid plan mutated the ledger: %s", remaining)
		}
	})

	t.Run("unrelated events acknowledged without effect", func(t *testing.T) {
		h, ledger := newWebhookFixture()
		payload := []byte(`{
			"id": "evt_3",
			"type": "payment_intent.created",
			"data": {"object": {"id": "pi_3", "object": "payment_intent"}}
		}`)

		rec := postWebhook(h, payload, signPayload(payload, testWebhookSecret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		remaining, _ := ledger.Remaining(context.Background(), "u1")
		if remaining.Count != 10 {
			t.Errorf("unrelated event mutated the ledger: %s", remaining)
		}
	})
}
