package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeadlineType string

const (
	NoDeadline   DeadlineType = "no_deadline"
	SoftDeadline DeadlineType = "soft_deadline"
	HardDeadline DeadlineType = "hard_deadline"
)

// Rank orders deadline types by urgency: hard before soft before none.
func (d DeadlineType) Rank() int {
	switch d {
	case HardDeadline:
		return 0
	case SoftDeadline:
		return 1
	default:
		return 2
	}
}

type JobStatus string

const (
	JobDraft    JobStatus = "draft"
	JobReady    JobStatus = "ready"
	JobReleased JobStatus = "released"
	JobDone     JobStatus = "done"
)

// Job is a production order: make a quantity of an item by a due date.
type Job struct {
	ID           uuid.UUID
	Name         string
	DueDate      time.Time
	DeadlineType DeadlineType
	LocationID   *uuid.UUID
	Priority     int // job-level urgency, lower = more urgent
	Status       JobStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
