package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

const paymentCols = `id, booking_id, amount_cents, refund_cents, status, provider_ref, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.BookingID, &p.AmountCents, &p.RefundCents,
		&p.Status, &p.ProviderRef, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) CreatePayment(ctx context.Context, in *domain.Payment) (*domain.Payment, error) {
	const q = `INSERT INTO payments (id, booking_id, amount_cents, status)
		VALUES ($1,$2,$3,$4)
		RETURNING ` + paymentCols

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanPayment(s.db.QueryRow(ctx, q, in.ID, in.BookingID, in.AmountCents, in.Status))
}

func (s *SQLStore) GetPaymentByBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE booking_id=$1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanPayment(s.db.QueryRow(ctx, q, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *SQLStore) MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID, refundCents int64) (bool, error) {
	const q = `UPDATE payments
		SET status=$2, refund_cents=$3, updated_at=now()
		WHERE booking_id=$1 AND status <> $2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.db.Exec(ctx, q, bookingID, domain.PaymentRefunded, refundCents)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (s *SQLStore) SetPaymentProviderRef(ctx context.Context, bookingID uuid.UUID, ref string) error {
	const q = `UPDATE payments SET provider_ref=$2, updated_at=now() WHERE booking_id=$1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx, q, bookingID, ref)
	return err
}
