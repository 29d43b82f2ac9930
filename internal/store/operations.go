package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourorg/foundry/internal/domain"
)

const activeOperationsSQL = `
SELECT id, job_id, method_id, sequence, name, process, duration_minutes,
       start_with_previous, status, work_center_id, start_date, due_date,
       priority, has_conflict, conflict_reason
FROM operations
WHERE job_id = $1
  AND status NOT IN ('done', 'canceled')
ORDER BY method_id, sequence`

func (s *Store) ActiveOperations(ctx context.Context, jobID uuid.UUID) ([]*domain.Operation, error) {
	rows, err := s.pool.Query(ctx, activeOperationsSQL, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []*domain.Operation
	for rows.Next() {
		op := &domain.Operation{}
		var status string
		var minutes int64
		if err := rows.Scan(
			&op.ID,
			&op.JobID,
			&op.MethodID,
			&op.Sequence,
			&op.Name,
			&op.Process,
			&minutes,
			&op.StartWithPrevious,
			&status,
			&op.WorkCenterID,
			&op.StartDate,
			&op.DueDate,
			&op.Priority,
			&op.HasConflict,
			&op.ConflictReason,
		); err != nil {
			return nil, err
		}
		op.Status = domain.OperationStatus(status)
		op.Duration = time.Duration(minutes) * time.Minute
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (s *Store) MarkOperationsReady(ctx context.Context, operationIDs []uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE operations SET status = 'ready'
		WHERE id = ANY($1) AND status = 'pending'`, operationIDs)
	return err
}

const queueEntriesSQL = `
SELECT o.id, o.job_id, o.work_center_id, j.deadline_type,
       COALESCE(o.due_date, j.due_date), j.priority, o.priority
FROM operations o
JOIN jobs j ON j.id = o.job_id
WHERE o.work_center_id = ANY($1)
  AND o.job_id <> $2
  AND o.status NOT IN ('done', 'canceled')`

// OperationsAtWorkCenters snapshots the active queues of other jobs at
// the given work centers. No lock is taken here; the engine's advisory
// lock bounds the read-rank-write window.
func (s *Store) OperationsAtWorkCenters(ctx context.Context, workCenterIDs []uuid.UUID, excludeJobID uuid.UUID) ([]domain.QueueEntry, error) {
	rows, err := s.pool.Query(ctx, queueEntriesSQL, workCenterIDs, excludeJobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.QueueEntry
	for rows.Next() {
		var e domain.QueueEntry
		var deadlineType string
		if err := rows.Scan(
			&e.OperationID,
			&e.JobID,
			&e.WorkCenterID,
			&deadlineType,
			&e.DueDate,
			&e.JobPriority,
			&e.Priority,
		); err != nil {
			return nil, err
		}
		e.DeadlineType = domain.DeadlineType(deadlineType)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveScheduledOperations persists one job's computed schedule in a
// single transaction: either the whole plan lands or none of it does.
func (s *Store) SaveScheduledOperations(ctx context.Context, jobID uuid.UUID, scheduled []domain.ScheduledOperation) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, so := range scheduled {
			_, err := tx.Exec(ctx, `
				UPDATE operations SET
					work_center_id  = $2,
					start_date      = $3,
					due_date        = $4,
					priority        = $5,
					has_conflict    = $6,
					conflict_reason = $7
				WHERE id = $1 AND job_id = $8`,
				so.OperationID,
				so.WorkCenterID,
				so.StartDate,
				so.DueDate,
				so.Priority,
				so.HasConflict,
				so.ConflictReason,
				jobID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SavePriorities applies priority-only updates to resident operations of
// other jobs. The work_center_id guard skips rows that moved to another
// center between the snapshot and this write.
func (s *Store) SavePriorities(ctx context.Context, slots []domain.PrioritySlot) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, slot := range slots {
			_, err := tx.Exec(ctx, `
				UPDATE operations SET priority = $2
				WHERE id = $1 AND work_center_id = $3`,
				slot.OperationID, slot.Priority, slot.WorkCenterID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
