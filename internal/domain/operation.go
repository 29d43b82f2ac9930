package domain

import (
	"time"

	"github.com/google/uuid"
)

type OperationStatus string

const (
	OpPending    OperationStatus = "pending"
	OpReady      OperationStatus = "ready"
	OpInProgress OperationStatus = "in_progress"
	OpDone       OperationStatus = "done"
	OpCanceled   OperationStatus = "canceled"
)

// Schedulable reports whether an operation still participates in scheduling.
// Done and canceled operations are excluded from every engine pass.
func (s OperationStatus) Schedulable() bool {
	return s != OpDone && s != OpCanceled
}

// Operation is one unit of work inside a production method's routing.
type Operation struct {
	ID       uuid.UUID
	JobID    uuid.UUID
	MethodID uuid.UUID
	Sequence int
	Name     string
	Process  string // required work-center capability
	Duration time.Duration
	// StartWithPrevious decouples the operation from its immediate
	// predecessor: no auto-dependency on the prior step is derived.
	StartWithPrevious bool
	Status            OperationStatus

	// Computed by the engine; nil until a scheduling pass has run.
	WorkCenterID   *uuid.UUID
	StartDate      *time.Time
	DueDate        *time.Time
	Priority       *int
	HasConflict    bool
	ConflictReason string
}

// ScheduledOperation is the engine's output record for one operation:
// the computed dates, selected work center, priority and conflict state
// that get persisted back in the final stage.
type ScheduledOperation struct {
	OperationID    uuid.UUID
	WorkCenterID   *uuid.UUID
	StartDate      *time.Time
	DueDate        *time.Time
	Priority       *int
	HasConflict    bool
	ConflictReason string
}

// PrioritySlot is a priority assignment for one operation at one work
// center. Slots cover resident operations of other jobs too, so the
// per-center sequence stays dense across jobs.
type PrioritySlot struct {
	OperationID  uuid.UUID
	WorkCenterID uuid.UUID
	Priority     int
}

// QueueEntry is one operation in a work center's queue, carrying the
// owning job's urgency signals needed for cross-job priority ranking.
// Priority holds the previously assigned slot, if any; it keeps resident
// operations in their existing relative order when ranking keys tie.
type QueueEntry struct {
	OperationID  uuid.UUID
	JobID        uuid.UUID
	WorkCenterID uuid.UUID
	DeadlineType DeadlineType
	DueDate      time.Time
	JobPriority  int
	Priority     *int
}

// DependencyEdge records that DependsOnOperationID must finish before
// OperationID may start. Both operations belong to JobID.
type DependencyEdge struct {
	JobID                uuid.UUID
	OperationID          uuid.UUID
	DependsOnOperationID uuid.UUID
}
