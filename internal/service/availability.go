package service

import (
	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

// AssertFullyCovered verifies that every calendar day in the half-open range
// is covered by at least one available slot. Coverage must hold before any
// ledger mutation or pricing runs.
func AssertFullyCovered(slots []domain.AvailabilitySlot, rng domain.DateRange) error {
	if len(slots) == 0 {
		return domain.Conflictf("no availability for requested dates")
	}

	for _, day := range rng.Days() {
		covered := false
		for i := range slots {
			if slots[i].IsAvailable && slots[i].Covers(day) {
				covered = true
				break
			}
		}
		if !covered {
			return domain.Conflictf("requested dates are not fully available: %s has no open slot",
				day.Format("2006-01-02"))
		}
	}
	return nil
}
