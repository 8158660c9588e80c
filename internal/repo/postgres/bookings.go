package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

const bookingCols = `id, property_id, tenant_id,
start_date, end_date, total_cents, status,
created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.PropertyID, &b.TenantID,
		&b.StartDate, &b.EndDate, &b.TotalCents, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLStore) CreateBooking(ctx context.Context, in *domain.Booking) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
    id, property_id, tenant_id,
    start_date, end_date, total_cents, status
  ) VALUES ($1,$2,$3,$4,$5,$6,$7)
  RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanBooking(s.db.QueryRow(ctx, q,
		in.ID, in.PropertyID, in.TenantID,
		in.StartDate, in.EndDate, in.TotalCents, in.Status,
	))
}

func (s *SQLStore) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	b, err := scanBooking(s.db.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (s *SQLStore) ListBookingsByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int, status *domain.BookingStatus) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const qAll = `SELECT ` + bookingCols + ` FROM bookings
		WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	const qByStatus = `SELECT ` + bookingCols + ` FROM bookings
		WHERE tenant_id=$1 AND status=$2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows pgx.Rows
	var err error
	if status != nil {
		rows, err = s.db.Query(ctx, qByStatus, tenantID, *status, limit, offset)
	} else {
		rows, err = s.db.Query(ctx, qAll, tenantID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bs := make([]domain.Booking, 0, limit)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.PropertyID, &b.TenantID,
			&b.StartDate, &b.EndDate, &b.TotalCents, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

// UpdateBookingStatus is a conditional write: the row moves to the new status
// only when it still carries the expected one, serializing concurrent
// transitions on the same booking.
func (s *SQLStore) UpdateBookingStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (bool, error) {
	const q = `UPDATE bookings SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.db.Exec(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
