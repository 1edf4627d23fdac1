package payment

import (
	"context"
	"math"
	"strings"

	"roamly/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// PaymentIntent is the gateway-side handle handed back to the client.
type PaymentIntent struct {
	IntentID     string
	ClientSecret string
}

// PaymentGateway abstracts the external payment provider.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error)
	Refund(ctx context.Context, transactionID, reason string) (string, error)
}

// StripeGateway implements PaymentGateway against Stripe. The API key is set
// globally in main from AppConfig.
type StripeGateway struct{}

// CreateIntent opens a Stripe payment intent for the given amount.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, utils.GatewayErr("payment provider rejected intent: %v", err)
	}
	return &PaymentIntent{IntentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Refund asks Stripe to return the captured funds for a payment intent.
func (g *StripeGateway) Refund(ctx context.Context, transactionID, reason string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
	}
	params.Context = ctx
	params.AddMetadata("reason", reason)

	ref, err := refund.New(params)
	if err != nil {
		return "", utils.GatewayErr("payment provider rejected refund: %v", err)
	}
	return ref.ID, nil
}
