package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a priced, schedulable unit of time for one property.
// Slots for a property are mutually non-overlapping while available.
type AvailabilitySlot struct {
	ID          uuid.UUID  `json:"id"`
	PropertyID  uuid.UUID  `json:"property_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	PriceCents  int64      `json:"price_cents"` // nightly price
	IsAvailable bool       `json:"is_available"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
}

// Covers reports whether the slot's half-open range includes the given day.
func (s *AvailabilitySlot) Covers(day time.Time) bool {
	day = NormalizeDay(day)
	return !day.Before(NormalizeDay(s.StartDate)) && day.Before(NormalizeDay(s.EndDate))
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment is the charge record attached to a booking. Capture and settlement
// belong to the external payment processor; the booking engine only sets the
// amount at creation and the refund amount at cancellation.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	BookingID   uuid.UUID     `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	RefundCents int64         `json:"refund_cents"`
	Status      PaymentStatus `json:"status"`
	ProviderRef string        `json:"provider_ref,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CancellationPolicy is a property attribute, read-only to the booking engine.
type CancellationPolicy struct {
	CancellationWindowHours int     `json:"cancellation_window_hours"`
	FeePercentage           float64 `json:"fee_percentage"`
}

const (
	DefaultCancellationWindowHours = 48
	DefaultFeePercentage           = 0.5
)

func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		CancellationWindowHours: DefaultCancellationWindowHours,
		FeePercentage:           DefaultFeePercentage,
	}
}
