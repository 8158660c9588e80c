package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRefunded  BookingStatus = "refunded"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled, BookingRefunded:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// transitions is the full set of permitted status changes. Statuses with no
// entry accept no further transitions.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether from -> to is a permitted status change.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a BookingError naming the attempted pair when
// from -> to is not permitted.
func ValidateTransition(from, to BookingStatus) error {
	if !CanTransition(from, to) {
		return Bookingf("invalid status transition: %s -> %s", from, to)
	}
	return nil
}

// IsTerminal reports whether no transition out of status is permitted.
func IsTerminal(status BookingStatus) bool {
	return len(transitions[status]) == 0
}

type Booking struct {
	ID         uuid.UUID     `json:"id"`
	PropertyID uuid.UUID     `json:"property_id"`
	TenantID   uuid.UUID     `json:"tenant_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	TotalCents int64         `json:"total_cents"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Range returns the booking's stay as a normalized half-open day range.
func (b *Booking) Range() DateRange {
	return DateRange{Start: NormalizeDay(b.StartDate), End: NormalizeDay(b.EndDate)}
}
