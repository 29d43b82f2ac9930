package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

func (s *Store) WorkCentersAt(ctx context.Context, locationID uuid.UUID) ([]*domain.WorkCenter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, location_id, processes
		FROM work_centers
		WHERE location_id = $1`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var centers []*domain.WorkCenter
	for rows.Next() {
		wc := &domain.WorkCenter{}
		if err := rows.Scan(&wc.ID, &wc.Name, &wc.LocationID, &wc.Processes); err != nil {
			return nil, err
		}
		centers = append(centers, wc)
	}
	return centers, rows.Err()
}
