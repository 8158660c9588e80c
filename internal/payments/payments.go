package payments

import (
	"context"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
	"github.com/diagnosis/luxstay-rentals/pkg/logger"
)

// Processor is the external payment collaborator. Calls are best-effort:
// the booking engine records amounts itself and never blocks a committed
// booking on processor availability.
type Processor interface {
	// RequestIntent asks the processor to prepare a charge for the booking
	// and returns the processor's reference for it.
	RequestIntent(ctx context.Context, b *domain.Booking) (string, error)
	// RequestRefund asks the processor to refund part of a prior charge.
	RequestRefund(ctx context.Context, providerRef string, amountCents int64) (string, error)
}

// DevProcessor logs payment requests instead of calling a real processor.
type DevProcessor struct{}

func NewDevProcessor() *DevProcessor { return &DevProcessor{} }

func (p *DevProcessor) RequestIntent(ctx context.Context, b *domain.Booking) (string, error) {
	logger.InfoContext(ctx, "DEV payment intent requested",
		"booking_id", b.ID, "amount_cents", b.TotalCents)
	return "dev_intent_" + b.ID.String(), nil
}

func (p *DevProcessor) RequestRefund(ctx context.Context, providerRef string, amountCents int64) (string, error) {
	logger.InfoContext(ctx, "DEV refund requested",
		"provider_ref", providerRef, "amount_cents", amountCents)
	return "dev_refund_" + providerRef, nil
}

var _ Processor = (*DevProcessor)(nil)
