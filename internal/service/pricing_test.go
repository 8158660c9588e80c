package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slot(start, end time.Time, priceCents int64) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{
		ID:          uuid.New(),
		PropertyID:  uuid.New(),
		StartDate:   start,
		EndDate:     end,
		PriceCents:  priceCents,
		IsAvailable: true,
	}
}

func TestTotalPriceSumsNightlyRates(t *testing.T) {
	// 3 nights: $100, $100, $120 => $320
	slots := []domain.AvailabilitySlot{
		slot(day(2026, 9, 10), day(2026, 9, 12), 10000),
		slot(day(2026, 9, 12), day(2026, 9, 13), 12000),
	}
	rng := domain.DateRange{Start: day(2026, 9, 10), End: day(2026, 9, 13)}

	total, err := TotalPrice(slots, rng)
	if err != nil {
		t.Fatal(err)
	}
	if total != 32000 {
		t.Errorf("total = %d, want 32000", total)
	}
}

func TestTotalPriceRejectsUncoveredDay(t *testing.T) {
	// slot covers only the first night of a two-night stay
	slots := []domain.AvailabilitySlot{
		slot(day(2026, 9, 10), day(2026, 9, 11), 10000),
	}
	rng := domain.DateRange{Start: day(2026, 9, 10), End: day(2026, 9, 12)}

	_, err := TotalPrice(slots, rng)
	var conflictErr *domain.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError for uncovered day, got %v", err)
	}
}

func TestCancellationFeeInsideWindow(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		StartDate:  now.Add(10 * time.Hour),
		TotalCents: 30000,
	}
	policy := domain.CancellationPolicy{CancellationWindowHours: 48, FeePercentage: 0.5}

	fee := CancellationFee(booking, policy, now)
	if fee != 15000 {
		t.Errorf("fee = %d, want 15000", fee)
	}
}

func TestCancellationFeeOutsideWindow(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		StartDate:  now.Add(72 * time.Hour),
		TotalCents: 30000,
	}
	policy := domain.CancellationPolicy{CancellationWindowHours: 48, FeePercentage: 0.5}

	if fee := CancellationFee(booking, policy, now); fee != 0 {
		t.Errorf("fee = %d, want 0", fee)
	}
}

func TestCancellationFeeAtWindowBoundary(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		StartDate:  now.Add(48 * time.Hour),
		TotalCents: 30000,
	}
	policy := domain.CancellationPolicy{CancellationWindowHours: 48, FeePercentage: 0.5}

	// exactly at the window is free; one second inside is not
	if fee := CancellationFee(booking, policy, now); fee != 0 {
		t.Errorf("fee at boundary = %d, want 0", fee)
	}
	if fee := CancellationFee(booking, policy, now.Add(time.Second)); fee != 15000 {
		t.Errorf("fee inside window = %d, want 15000", fee)
	}
}
