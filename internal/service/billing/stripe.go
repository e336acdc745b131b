package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// PaymentClient is the payment-provider boundary for intent creation.
// Narrowed to one call so tests can substitute a fake.
type PaymentClient interface {
	NewIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeClient implements PaymentClient against the Stripe API.
type StripeClient struct {
	api *client.API
}

var _ PaymentClient = (*StripeClient)(nil)

// NewStripeClient creates a new Stripe payment client.
func NewStripeClient(apiKey string) (*StripeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe API key is required")
	}

	api := &client.API{}
	api.Init(apiKey, nil)

	return &StripeClient{api: api}, nil
}

// NewIntent creates a PaymentIntent.
func (c *StripeClient) NewIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return c.api.PaymentIntents.New(params)
}
