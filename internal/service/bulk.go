package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
	"github.com/diagnosis/luxstay-rentals/pkg/logger"
)

type BookingRequest struct {
	PropertyID uuid.UUID `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

type BulkResult struct {
	Success bool            `json:"success"`
	Booking *domain.Booking `json:"booking,omitempty"`
	Err     error           `json:"-"`
}

// ProcessBulkBookings runs every request through CreateBooking under a
// bounded worker pool. Requests are isolated: one failure never cancels or
// rolls back its siblings, and results come back in input order.
func (s *bookingService) ProcessBulkBookings(ctx context.Context, requests []BookingRequest, tenantID uuid.UUID) []BulkResult {
	results := make([]BulkResult, len(requests))

	limit := s.cfg.BulkConcurrency
	if limit <= 0 {
		limit = 5
	}
	sem := semaphore.NewWeighted(int64(limit))

	var wg sync.WaitGroup
	for i, req := range requests {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = BulkResult{Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, req BookingRequest) {
			defer wg.Done()
			defer sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "Bulk booking request panicked", "panic", r, "index", i)
					results[i] = BulkResult{Err: fmt.Errorf("booking request failed: %v", r)}
				}
			}()

			b, err := s.CreateBooking(ctx, req.PropertyID, tenantID, req.StartDate, req.EndDate)
			if err != nil {
				results[i] = BulkResult{Err: err}
				return
			}
			results[i] = BulkResult{Success: true, Booking: b}
		}(i, req)
	}

	wg.Wait()
	return results
}
