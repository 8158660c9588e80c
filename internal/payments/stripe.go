package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

// StripeProcessor creates payment intents and refunds through Stripe.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api}
}

func (p *StripeProcessor) RequestIntent(ctx context.Context, b *domain.Booking) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(b.TotalCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("booking_id", b.ID.String())
	params.AddMetadata("property_id", b.PropertyID.String())

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ID, nil
}

func (p *StripeProcessor) RequestRefund(ctx context.Context, providerRef string, amountCents int64) (string, error) {
	if providerRef == "" {
		return "", fmt.Errorf("no payment intent to refund")
	}

	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(providerRef),
		Amount:        stripe.Int64(amountCents),
	}

	r, err := p.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create refund: %w", err)
	}
	return r.ID, nil
}

var _ Processor = (*StripeProcessor)(nil)
