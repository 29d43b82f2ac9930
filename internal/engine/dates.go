package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// Conflict reasons surfaced on operations. Callers inspect these when a
// run reports ConflictsDetected > 0.
const (
	ReasonCycle        = "dependency cycle detected"
	ReasonLeadTime     = "insufficient lead time"
	ReasonNoWorkCenter = "no eligible work center"
)

// DateResult is the computed schedule window for one operation.
type DateResult struct {
	Start          time.Time
	Due            time.Time
	HasConflict    bool
	ConflictReason string
}

// CalculateDates propagates start/due dates across the dependency graph
// from the anchor date, using Kahn's algorithm over the graph (reversed
// for backward mode). Operations on a cycle are still dated — the cycle
// is broken at the lowest operation id — and flagged with a conflict.
// Any operation whose computed start falls before now is flagged with an
// insufficient-lead-time conflict.
//
// Edges referencing operations outside ops are ignored: done and
// canceled work no longer constrains the plan.
func CalculateDates(
	ops []*domain.Operation,
	g *Graph,
	anchor time.Time,
	direction domain.Direction,
	now time.Time,
) map[uuid.UUID]DateResult {
	if direction == domain.Forward {
		return calcForward(ops, g, anchor, now)
	}
	return calcBackward(ops, g, anchor, now)
}

// calcBackward anchors operations with no dependents at the job due date
// and walks the graph in reverse-topological order. An operation's due
// date is the minimum start among the operations depending on it; its
// start is due minus its duration.
func calcBackward(ops []*domain.Operation, g *Graph, anchor, now time.Time) map[uuid.UUID]DateResult {
	known := opSet(ops)
	durations := durationIndex(ops)

	// remaining counts dependents inside the working set; bound carries
	// the running min-start constraint pushed down from dependents.
	remaining := make(map[uuid.UUID]int, len(ops))
	bound := make(map[uuid.UUID]time.Time)
	for _, op := range ops {
		remaining[op.ID] = 0
	}
	for _, op := range ops {
		for _, pre := range g.Prerequisites(op.ID) {
			if _, ok := known[pre]; ok {
				remaining[pre]++
			}
		}
	}

	results := make(map[uuid.UUID]DateResult, len(ops))
	var queue []uuid.UUID
	for id, n := range remaining {
		if n == 0 {
			queue = append(queue, id)
		}
	}

	finalize := func(id uuid.UUID, conflictReason string) {
		due, ok := bound[id]
		if !ok {
			due = anchor
		}
		start := due.Add(-durations[id])
		res := DateResult{Start: start, Due: due}
		if conflictReason != "" {
			res.HasConflict = true
			res.ConflictReason = conflictReason
		} else if start.Before(now) {
			res.HasConflict = true
			res.ConflictReason = ReasonLeadTime
		}
		results[id] = res

		for _, pre := range g.Prerequisites(id) {
			if _, ok := known[pre]; !ok {
				continue
			}
			if b, ok := bound[pre]; !ok || start.Before(b) {
				bound[pre] = start
			}
			remaining[pre]--
		}
	}

	for len(queue) > 0 {
		sortUUIDs(queue)
		var next []uuid.UUID
		for _, id := range queue {
			finalize(id, "")
		}
		for id, n := range remaining {
			if n == 0 {
				if _, done := results[id]; !done {
					next = append(next, id)
				}
			}
		}
		queue = next
	}

	// Anything left sits on a cycle. Date it deterministically in id
	// order using whatever bounds reached it, flagging every member.
	leftover := make([]uuid.UUID, 0)
	for _, op := range ops {
		if _, done := results[op.ID]; !done {
			leftover = append(leftover, op.ID)
		}
	}
	sortUUIDs(leftover)
	for _, id := range leftover {
		finalize(id, ReasonCycle)
	}

	return results
}

// calcForward anchors operations with no prerequisites at the earliest
// start and propagates forward: start is the maximum due among
// prerequisites, due is start plus duration.
func calcForward(ops []*domain.Operation, g *Graph, anchor, now time.Time) map[uuid.UUID]DateResult {
	known := opSet(ops)
	durations := durationIndex(ops)

	dependents := make(map[uuid.UUID][]uuid.UUID)
	remaining := make(map[uuid.UUID]int, len(ops))
	for _, op := range ops {
		remaining[op.ID] = 0
	}
	for _, op := range ops {
		for _, pre := range g.Prerequisites(op.ID) {
			if _, ok := known[pre]; !ok {
				continue
			}
			dependents[pre] = append(dependents[pre], op.ID)
			remaining[op.ID]++
		}
	}

	bound := make(map[uuid.UUID]time.Time)
	results := make(map[uuid.UUID]DateResult, len(ops))

	finalize := func(id uuid.UUID, conflictReason string) {
		start, ok := bound[id]
		if !ok {
			start = anchor
		}
		due := start.Add(durations[id])
		res := DateResult{Start: start, Due: due}
		if conflictReason != "" {
			res.HasConflict = true
			res.ConflictReason = conflictReason
		} else if start.Before(now) {
			res.HasConflict = true
			res.ConflictReason = ReasonLeadTime
		}
		results[id] = res

		for _, dep := range dependents[id] {
			if b, ok := bound[dep]; !ok || due.After(b) {
				bound[dep] = due
			}
			remaining[dep]--
		}
	}

	var queue []uuid.UUID
	for id, n := range remaining {
		if n == 0 {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		sortUUIDs(queue)
		for _, id := range queue {
			finalize(id, "")
		}
		var next []uuid.UUID
		for id, n := range remaining {
			if n == 0 {
				if _, done := results[id]; !done {
					next = append(next, id)
				}
			}
		}
		queue = next
	}

	leftover := make([]uuid.UUID, 0)
	for _, op := range ops {
		if _, done := results[op.ID]; !done {
			leftover = append(leftover, op.ID)
		}
	}
	sortUUIDs(leftover)
	for _, id := range leftover {
		finalize(id, ReasonCycle)
	}

	return results
}

func opSet(ops []*domain.Operation) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ops))
	for _, op := range ops {
		set[op.ID] = struct{}{}
	}
	return set
}

func durationIndex(ops []*domain.Operation) map[uuid.UUID]time.Duration {
	idx := make(map[uuid.UUID]time.Duration, len(ops))
	for _, op := range ops {
		idx[op.ID] = op.Duration
	}
	return idx
}
