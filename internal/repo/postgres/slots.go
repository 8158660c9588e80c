package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

const slotCols = `id, property_id, start_date, end_date, price_cents, is_available, booking_id`

// FindCoveringSlots returns the available slots overlapping the half-open
// window, ordered by start date.
func (s *SQLStore) FindCoveringSlots(ctx context.Context, propertyID uuid.UUID, rng domain.DateRange) ([]domain.AvailabilitySlot, error) {
	const q = `SELECT ` + slotCols + ` FROM availability_slots
		WHERE property_id=$1 AND is_available=true
		  AND start_date < $3 AND end_date > $2
		ORDER BY start_date`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, q, propertyID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		var sl domain.AvailabilitySlot
		if err := rows.Scan(
			&sl.ID, &sl.PropertyID, &sl.StartDate, &sl.EndDate,
			&sl.PriceCents, &sl.IsAvailable, &sl.BookingID,
		); err != nil {
			return nil, err
		}
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// MarkSlotsUnavailable flips every available slot touching the range to
// unavailable and binds it to the booking. The half-open overlap condition
// selects exactly the slots covering any calendar day in [start, end),
// whatever their resolution.
func (s *SQLStore) MarkSlotsUnavailable(ctx context.Context, propertyID, bookingID uuid.UUID, rng domain.DateRange) (int64, error) {
	const q = `UPDATE availability_slots
		SET is_available=false, booking_id=$2, updated_at=now()
		WHERE property_id=$1 AND is_available=true
		  AND start_date < $4 AND end_date > $3`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.db.Exec(ctx, q, propertyID, bookingID, rng.Start, rng.End)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// ReleaseSlots is the inverse flip. It conditions on booking_id as well as
// the range so only rows bound to the cancelled booking move back.
func (s *SQLStore) ReleaseSlots(ctx context.Context, propertyID, bookingID uuid.UUID, rng domain.DateRange) (int64, error) {
	const q = `UPDATE availability_slots
		SET is_available=true, booking_id=NULL, updated_at=now()
		WHERE property_id=$1 AND booking_id=$2
		  AND start_date < $4 AND end_date > $3`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ct, err := s.db.Exec(ctx, q, propertyID, bookingID, rng.Start, rng.End)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
