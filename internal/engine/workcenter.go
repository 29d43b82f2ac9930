package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// SelectWorkCenters assigns each operation to a work center supporting
// its process. When several qualify the lowest id wins, so repeated runs
// over unchanged data pick the same center. Operations with no eligible
// center map to nil; the orchestrator flags those as conflicts rather
// than dropping them.
//
// centers are the pools available at the job's location; location
// filtering happens at load time and is re-checked here only through the
// capability match.
func SelectWorkCenters(ops []*domain.Operation, centers []*domain.WorkCenter) map[uuid.UUID]*uuid.UUID {
	out := make(map[uuid.UUID]*uuid.UUID, len(ops))
	for _, op := range ops {
		var chosen *domain.WorkCenter
		for _, wc := range centers {
			if !wc.Supports(op.Process) {
				continue
			}
			if chosen == nil || strings.Compare(wc.ID.String(), chosen.ID.String()) < 0 {
				chosen = wc
			}
		}
		if chosen == nil {
			out[op.ID] = nil
			continue
		}
		id := chosen.ID
		out[op.ID] = &id
	}
	return out
}
