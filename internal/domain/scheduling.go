package domain

import "github.com/google/uuid"

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

type ScheduleMode string

const (
	ModeInitial    ScheduleMode = "initial"
	ModeReschedule ScheduleMode = "reschedule"
)

// SchedulingOptions parameterizes one scheduling run.
type SchedulingOptions struct {
	JobID     uuid.UUID
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Direction Direction
	Mode      ScheduleMode
}

// SchedulingResult summarizes a completed run.
type SchedulingResult struct {
	Success             bool
	OperationsScheduled int
	ConflictsDetected   int
	WorkCentersAffected []uuid.UUID
	AssemblyDepth       int
}
