package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
	"github.com/diagnosis/luxstay-rentals/internal/lock"
	"github.com/diagnosis/luxstay-rentals/internal/payments"
	"github.com/diagnosis/luxstay-rentals/internal/repo/postgres"
	"github.com/diagnosis/luxstay-rentals/pkg/config"
	"github.com/diagnosis/luxstay-rentals/pkg/events"
	"github.com/diagnosis/luxstay-rentals/pkg/logger"
)

type BookingService interface {
	CreateBooking(ctx context.Context, propertyID, tenantID uuid.UUID, start, end time.Time) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, tenantID uuid.UUID) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListBookingsByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error)
	ProcessBulkBookings(ctx context.Context, requests []BookingRequest, tenantID uuid.UUID) []BulkResult
}

type bookingService struct {
	store     postgres.Store
	locker    lock.Locker
	eventBus  events.Publisher
	processor payments.Processor
	cfg       config.BookingConfig
	now       func() time.Time
}

func NewBookingService(
	store postgres.Store,
	locker lock.Locker,
	eventBus events.Publisher,
	processor payments.Processor,
	cfg config.BookingConfig,
) BookingService {
	return &bookingService{
		store:     store,
		locker:    locker,
		eventBus:  eventBus,
		processor: processor,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, propertyID, tenantID uuid.UUID, start, end time.Time) (*domain.Booking, error) {
	rng, err := domain.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if rng.Start.Before(domain.NormalizeDay(s.now())) {
		return nil, domain.Validationf("start date %s is in the past", rng.Start.Format("2006-01-02"))
	}

	// Serialize all calendar mutations for this property. Losers fail fast
	// with a conflict; retrying is the caller's decision.
	key := lock.PropertyKey(propertyID)
	token, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if errors.Is(err, lock.ErrBusy) {
		return nil, domain.Conflictf("property is currently being modified")
	}
	if err != nil {
		return nil, err
	}
	// Release must run whether the transaction commits or not, even if the
	// request context has already been cancelled.
	defer func() {
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.locker.Release(releaseCtx, key, token); err != nil {
			logger.ErrorContext(ctx, "Failed to release property lock", "error", err, "key", key)
		}
	}()

	var booking *domain.Booking
	err = s.store.WithinTx(ctx, func(tx postgres.Store) error {
		slots, err := tx.FindCoveringSlots(ctx, propertyID, rng)
		if err != nil {
			return fmt.Errorf("failed to query availability: %w", err)
		}
		if err := AssertFullyCovered(slots, rng); err != nil {
			return err
		}

		total, err := TotalPrice(slots, rng)
		if err != nil {
			return err
		}

		created, err := tx.CreateBooking(ctx, &domain.Booking{
			ID:         uuid.New(),
			PropertyID: propertyID,
			TenantID:   tenantID,
			StartDate:  rng.Start,
			EndDate:    rng.End,
			TotalCents: total,
			Status:     domain.BookingPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if _, err := tx.CreatePayment(ctx, &domain.Payment{
			ID:          uuid.New(),
			BookingID:   created.ID,
			AmountCents: total,
			Status:      domain.PaymentPending,
		}); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		flipped, err := tx.MarkSlotsUnavailable(ctx, propertyID, created.ID, rng)
		if err != nil {
			return fmt.Errorf("failed to mark slots unavailable: %w", err)
		}
		if flipped == 0 {
			return domain.Conflictf("requested dates are no longer available")
		}

		booking = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.requestConfirmation(ctx, booking)
	return booking, nil
}

// requestConfirmation emits the post-commit side effects: the confirmation
// event and the payment intent request. Both are fire-and-forget.
func (s *bookingService) requestConfirmation(ctx context.Context, b *domain.Booking) {
	event := events.BookingConfirmationEvent{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		TenantID:   b.TenantID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalCents: b.TotalCents,
		CreatedAt:  b.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingConfirmationRequested, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking confirmation event", "error", err, "booking_id", b.ID)
	}

	ref, err := s.processor.RequestIntent(ctx, b)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to request payment intent", "error", err, "booking_id", b.ID)
		return
	}
	if err := s.store.SetPaymentProviderRef(ctx, b.ID, ref); err != nil {
		logger.ErrorContext(ctx, "Failed to record payment provider ref", "error", err, "booking_id", b.ID)
	}
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, tenantID uuid.UUID) (*domain.Booking, error) {
	var (
		cancelled *domain.Booking
		payment   *domain.Payment
		feeCents  int64
	)

	// No property lock: this transaction only touches rows bound to one
	// booking id, and the conditional status update serializes concurrent
	// cancellations of the same booking.
	err := s.store.WithinTx(ctx, func(tx postgres.Store) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if b == nil {
			return &domain.NotFoundError{Resource: "booking", ID: bookingID.String()}
		}
		if b.TenantID != tenantID {
			return domain.Bookingf("unauthorized: booking belongs to another tenant")
		}
		if err := domain.ValidateTransition(b.Status, domain.BookingCancelled); err != nil {
			return err
		}

		p, err := tx.GetPaymentByBooking(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		if p == nil {
			return fmt.Errorf("payment record missing for booking %s", b.ID)
		}

		policy, err := tx.GetCancellationPolicy(ctx, b.PropertyID)
		if err != nil {
			return fmt.Errorf("failed to load cancellation policy: %w", err)
		}
		if policy == nil {
			return &domain.NotFoundError{Resource: "property", ID: b.PropertyID.String()}
		}

		feeCents = CancellationFee(b, *policy, s.now())
		refund := p.AmountCents - feeCents

		ok, err := tx.UpdateBookingStatus(ctx, b.ID, b.Status, domain.BookingCancelled)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		if !ok {
			return domain.Conflictf("booking was modified concurrently")
		}

		if _, err := tx.MarkPaymentRefunded(ctx, b.ID, refund); err != nil {
			return fmt.Errorf("failed to refund payment: %w", err)
		}

		if _, err := tx.ReleaseSlots(ctx, b.PropertyID, b.ID, b.Range()); err != nil {
			return fmt.Errorf("failed to release availability: %w", err)
		}

		b.Status = domain.BookingCancelled
		p.Status = domain.PaymentRefunded
		p.RefundCents = refund
		cancelled = b
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.noticeCancellation(ctx, cancelled, payment, feeCents)
	return cancelled, nil
}

func (s *bookingService) noticeCancellation(ctx context.Context, b *domain.Booking, p *domain.Payment, feeCents int64) {
	event := events.BookingCancellationEvent{
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		TenantID:    b.TenantID,
		FeeCents:    feeCents,
		RefundCents: p.RefundCents,
		CanceledAt:  s.now(),
	}
	if err := s.eventBus.Publish(ctx, events.BookingCancellationNotice, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish cancellation notice", "error", err, "booking_id", b.ID)
	}

	if p.RefundCents > 0 && p.ProviderRef != "" {
		if _, err := s.processor.RequestRefund(ctx, p.ProviderRef, p.RefundCents); err != nil {
			logger.ErrorContext(ctx, "Failed to request refund", "error", err, "booking_id", b.ID)
		}
	}
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.BookingConfirmed, events.BookingConfirmed)
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.BookingCompleted, events.BookingCompleted)
}

func (s *bookingService) transition(ctx context.Context, bookingID uuid.UUID, to domain.BookingStatus, subject string) (*domain.Booking, error) {
	var updated *domain.Booking
	err := s.store.WithinTx(ctx, func(tx postgres.Store) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if b == nil {
			return &domain.NotFoundError{Resource: "booking", ID: bookingID.String()}
		}
		if err := domain.ValidateTransition(b.Status, to); err != nil {
			return err
		}

		ok, err := tx.UpdateBookingStatus(ctx, b.ID, b.Status, to)
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		if !ok {
			return domain.Conflictf("booking was modified concurrently")
		}

		b.Status = to
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.BookingStatusEvent{BookingID: updated.ID, Status: string(to), ChangedAt: s.now()}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish status event", "error", err, "booking_id", updated.ID)
	}
	return updated, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &domain.NotFoundError{Resource: "booking", ID: id.String()}
	}
	return b, nil
}

func (s *bookingService) ListBookingsByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	return s.store.ListBookingsByTenant(ctx, tenantID, limit, offset, status)
}
