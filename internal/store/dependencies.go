package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourorg/foundry/internal/domain"
)

func (s *Store) Dependencies(ctx context.Context, jobID uuid.UUID) ([]domain.DependencyEdge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT job_id, operation_id, depends_on_operation_id
		FROM operation_dependencies
		WHERE job_id = $1`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.DependencyEdge
	for rows.Next() {
		var e domain.DependencyEdge
		if err := rows.Scan(&e.JobID, &e.OperationID, &e.DependsOnOperationID); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ReplaceDependencies swaps the job's persisted edge set in one
// transaction, so a concurrent reader never observes a half-written
// graph.
func (s *Store) ReplaceDependencies(ctx context.Context, jobID uuid.UUID, edges []domain.DependencyEdge) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM operation_dependencies WHERE job_id = $1`, jobID); err != nil {
			return err
		}
		for _, e := range edges {
			if _, err := tx.Exec(ctx, `
				INSERT INTO operation_dependencies
					(job_id, operation_id, depends_on_operation_id)
				VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING`,
				e.JobID, e.OperationID, e.DependsOnOperationID); err != nil {
				return err
			}
		}
		return nil
	})
}
