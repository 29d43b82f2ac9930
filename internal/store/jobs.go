package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourorg/foundry/internal/domain"
	"github.com/yourorg/foundry/internal/engine"
)

const jobSQL = `
SELECT id, name, due_date, deadline_type, location_id, priority, status,
       created_at, updated_at
FROM jobs
WHERE id = $1`

func (s *Store) JobByID(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	job := &domain.Job{}
	var deadlineType, status string
	err := s.pool.QueryRow(ctx, jobSQL, jobID).Scan(
		&job.ID,
		&job.Name,
		&job.DueDate,
		&deadlineType,
		&job.LocationID,
		&job.Priority,
		&status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", engine.ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, err
	}
	job.DeadlineType = domain.DeadlineType(deadlineType)
	job.Status = domain.JobStatus(status)
	return job, nil
}

// MarkJobReady flips the job into the ready-to-execute status after a
// successful initial schedule.
func (s *Store) MarkJobReady(ctx context.Context, jobID uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE jobs SET status = 'ready', updated_at = NOW()
		WHERE id = $1`, jobID)
	if err != nil {
		return err
	}
	if result.RowsAffected() != 1 {
		return fmt.Errorf("%w: %s", engine.ErrJobNotFound, jobID)
	}
	return nil
}
