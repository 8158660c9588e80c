package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

const queryTimeout = 3 * time.Second

// Store is the transactional persistence boundary of the booking engine.
// WithinTx runs fn against a store bound to a single transaction; returning
// an error rolls back, returning nil commits.
type Store interface {
	WithinTx(ctx context.Context, fn func(Store) error) error

	CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListBookingsByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (bool, error)

	CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	GetPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID, refundCents int64) (bool, error)
	SetPaymentProviderRef(ctx context.Context, bookingID uuid.UUID, ref string) error

	FindCoveringSlots(ctx context.Context, propertyID uuid.UUID, rng domain.DateRange) ([]domain.AvailabilitySlot, error)
	MarkSlotsUnavailable(ctx context.Context, propertyID, bookingID uuid.UUID, rng domain.DateRange) (int64, error)
	ReleaseSlots(ctx context.Context, propertyID, bookingID uuid.UUID, rng domain.DateRange) (int64, error)

	GetCancellationPolicy(ctx context.Context, propertyID uuid.UUID) (*domain.CancellationPolicy, error)
}

// DB is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SQLStore struct {
	db   DB
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{db: pool, pool: pool}
}

func (s *SQLStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		// Already transaction-bound; nested scopes join the outer transaction.
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&SQLStore{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
