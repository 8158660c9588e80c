package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
)

// GetCancellationPolicy reads a property's cancellation terms. Returns
// (nil, nil) when the property does not exist.
func (s *SQLStore) GetCancellationPolicy(ctx context.Context, propertyID uuid.UUID) (*domain.CancellationPolicy, error) {
	const q = `SELECT cancellation_window_hours, fee_percentage FROM properties WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p domain.CancellationPolicy
	err := s.db.QueryRow(ctx, q, propertyID).Scan(&p.CancellationWindowHours, &p.FeePercentage)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
