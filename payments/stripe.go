package payments

import (
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// Gateway creates payment intents with an external payment provider.
// Handlers depend on this interface so tests can substitute a fake.
type Gateway interface {
	CreateIntent(amount int64, currency string) (clientSecret string, err error)
}

// StripeGateway is a thin wrapper around stripe-go for PaymentIntent creation.
type StripeGateway struct{}

// NewStripeGateway initializes the stripe client with the given API key.
func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

// CreateIntent creates a PaymentIntent and returns its client secret,
// which the frontend uses to confirm the payment.
func (s *StripeGateway) CreateIntent(amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
