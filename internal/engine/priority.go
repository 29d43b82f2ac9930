package engine

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// CalculatePriorities ranks every queue entry into a dense 1..n sequence
// per work center. The ranking key, in precedence order: deadline type
// (hard, soft, none), due date ascending, job priority ascending (lower
// is more urgent), previously assigned slot, operation id. The last two
// keep resident operations in their existing relative order and make the
// whole ranking a pure function of its input.
func CalculatePriorities(entries []domain.QueueEntry) []domain.PrioritySlot {
	byCenter := make(map[uuid.UUID][]domain.QueueEntry)
	for _, e := range entries {
		byCenter[e.WorkCenterID] = append(byCenter[e.WorkCenterID], e)
	}

	centerIDs := make([]uuid.UUID, 0, len(byCenter))
	for id := range byCenter {
		centerIDs = append(centerIDs, id)
	}
	sortUUIDs(centerIDs)

	var out []domain.PrioritySlot
	for _, wcID := range centerIDs {
		group := byCenter[wcID]
		slices.SortFunc(group, compareEntries)
		for i, e := range group {
			out = append(out, domain.PrioritySlot{
				OperationID:  e.OperationID,
				WorkCenterID: wcID,
				Priority:     i + 1,
			})
		}
	}
	return out
}

func compareEntries(a, b domain.QueueEntry) int {
	if ra, rb := a.DeadlineType.Rank(), b.DeadlineType.Rank(); ra != rb {
		return ra - rb
	}
	if !a.DueDate.Equal(b.DueDate) {
		if a.DueDate.Before(b.DueDate) {
			return -1
		}
		return 1
	}
	if a.JobPriority != b.JobPriority {
		return a.JobPriority - b.JobPriority
	}
	if pa, pb := slotOrInf(a.Priority), slotOrInf(b.Priority); pa != pb {
		return pa - pb
	}
	return strings.Compare(a.OperationID.String(), b.OperationID.String())
}

// slotOrInf treats unranked operations (the job being scheduled, first
// run) as sorting after already-ranked residents on full key ties.
func slotOrInf(p *int) int {
	if p == nil {
		return int(^uint(0) >> 1)
	}
	return *p
}
