package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// ErrJobNotFound aborts a scheduling run; nothing is persisted for the job.
var ErrJobNotFound = errors.New("job not found")

// Store is the persistence surface the engine schedules against. The pgx
// implementation lives in internal/store; tests supply an in-memory fake.
type Store interface {
	// JobByID returns ErrJobNotFound when no such job exists.
	JobByID(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)

	// ActiveOperations returns the job's operations that are not done or
	// canceled, ordered by method and sequence.
	ActiveOperations(ctx context.Context, jobID uuid.UUID) ([]*domain.Operation, error)

	MethodsForJob(ctx context.Context, jobID uuid.UUID) ([]*domain.ProductionMethod, error)
	MaterialsForJob(ctx context.Context, jobID uuid.UUID) ([]*domain.Material, error)

	// AssignMaterialOperation binds a material's hand-off link to an
	// operation of its consuming method.
	AssignMaterialOperation(ctx context.Context, materialID, operationID uuid.UUID) error

	Dependencies(ctx context.Context, jobID uuid.UUID) ([]domain.DependencyEdge, error)

	// ReplaceDependencies swaps the job's persisted edge set atomically.
	ReplaceDependencies(ctx context.Context, jobID uuid.UUID, edges []domain.DependencyEdge) error

	// MarkOperationsReady promotes pending operations with no prerequisites.
	MarkOperationsReady(ctx context.Context, operationIDs []uuid.UUID) error

	WorkCentersAt(ctx context.Context, locationID uuid.UUID) ([]*domain.WorkCenter, error)

	// OperationsAtWorkCenters returns the active queue entries of other
	// jobs at the given work centers, as a point-in-time snapshot.
	OperationsAtWorkCenters(ctx context.Context, workCenterIDs []uuid.UUID, excludeJobID uuid.UUID) ([]domain.QueueEntry, error)

	// SaveScheduledOperations persists the computed state of one job's
	// operations in a single transaction.
	SaveScheduledOperations(ctx context.Context, jobID uuid.UUID, scheduled []domain.ScheduledOperation) error

	// SavePriorities persists priority-only updates for resident
	// operations of other jobs whose slot moved during the merge.
	SavePriorities(ctx context.Context, slots []domain.PrioritySlot) error

	MarkJobReady(ctx context.Context, jobID uuid.UUID) error
}

// WorkCenterLocker serializes the priority merge window across concurrent
// scheduling runs that touch the same work center. Implementations may
// fail to acquire; the orchestrator then proceeds with the documented
// weak-consistency behavior.
type WorkCenterLocker interface {
	Acquire(ctx context.Context, workCenterID uuid.UUID) (release func(), err error)
}
