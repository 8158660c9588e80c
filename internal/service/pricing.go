package service

import (
	"math"
	"time"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

// TotalPrice sums the nightly price of the slot covering each calendar day
// in the half-open range. Callers must assert coverage first; a day without
// a covering slot is an invariant violation and fails with a conflict
// instead of silently contributing zero.
func TotalPrice(slots []domain.AvailabilitySlot, rng domain.DateRange) (int64, error) {
	var total int64
	for _, day := range rng.Days() {
		priced := false
		for i := range slots {
			if slots[i].Covers(day) {
				total += slots[i].PriceCents
				priced = true
				break
			}
		}
		if !priced {
			return 0, domain.Conflictf("no priced slot covers %s", day.Format("2006-01-02"))
		}
	}
	return total, nil
}

// CancellationFee computes the fee owed for cancelling the booking at the
// given moment. Inside the policy window the fee is the configured
// percentage of the total price; outside it the cancellation is free.
func CancellationFee(b *domain.Booking, policy domain.CancellationPolicy, now time.Time) int64 {
	hoursUntilStart := b.StartDate.Sub(now).Hours()
	if hoursUntilStart >= float64(policy.CancellationWindowHours) {
		return 0
	}
	return int64(math.Round(float64(b.TotalCents) * policy.FeePercentage))
}
