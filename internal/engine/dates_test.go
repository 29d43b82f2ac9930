package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/foundry/internal/domain"
)

func day(d int) time.Duration { return time.Duration(d) * 24 * time.Hour }

func testOp(methodID uuid.UUID, seq int, durationDays int) *domain.Operation {
	return &domain.Operation{
		ID:       uuid.New(),
		MethodID: methodID,
		Sequence: seq,
		Process:  "mill",
		Duration: day(durationDays),
		Status:   domain.OpPending,
	}
}

func chainGraph(ops []*domain.Operation) *Graph {
	g := NewGraph()
	for i := 1; i < len(ops); i++ {
		g.add(ops[i].ID, ops[i-1].ID)
	}
	return g
}

func TestBackwardLinearChain(t *testing.T) {
	method := uuid.New()
	durations := []int{2, 1, 4, 3}
	var ops []*domain.Operation
	total := 0
	for i, d := range durations {
		ops = append(ops, testOp(method, i, d))
		total += d
	}
	g := chainGraph(ops)

	anchor := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	results := CalculateDates(ops, g, anchor, domain.Backward, now)

	require.Len(t, results, len(ops))

	first := results[ops[0].ID]
	require.Equal(t, anchor.Add(-day(total)), first.Start)

	last := results[ops[len(ops)-1].ID]
	require.Equal(t, anchor, last.Due)

	// Adjacent operations butt against each other.
	for i := 1; i < len(ops); i++ {
		require.Equal(t, results[ops[i-1].ID].Due, results[ops[i].ID].Start)
	}
	for _, op := range ops {
		require.False(t, results[op.ID].HasConflict)
	}
}

func TestBackwardTwoOperationScenario(t *testing.T) {
	method := uuid.New()
	o1 := testOp(method, 1, 2)
	o2 := testOp(method, 2, 3)
	ops := []*domain.Operation{o1, o2}

	g := NewGraph()
	g.add(o2.ID, o1.ID)

	dueDate := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	results := CalculateDates(ops, g, dueDate, domain.Backward, now)

	require.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), results[o2.ID].Start)
	require.Equal(t, dueDate, results[o2.ID].Due)
	require.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), results[o1.ID].Start)
	require.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), results[o1.ID].Due)
	require.False(t, results[o1.ID].HasConflict)
	require.False(t, results[o2.ID].HasConflict)
}

func TestCycleTerminatesAndFlags(t *testing.T) {
	method := uuid.New()
	a := testOp(method, 1, 1)
	b := testOp(method, 2, 1)
	c := testOp(method, 3, 1)
	ops := []*domain.Operation{a, b, c}

	g := NewGraph()
	g.add(a.ID, b.ID)
	g.add(b.ID, a.ID)

	anchor := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	results := CalculateDates(ops, g, anchor, domain.Backward, now)

	require.Len(t, results, 3)
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		require.True(t, results[id].HasConflict)
		require.Equal(t, ReasonCycle, results[id].ConflictReason)
		require.False(t, results[id].Due.IsZero())
	}
	require.False(t, results[c.ID].HasConflict)
	require.Equal(t, anchor, results[c.ID].Due)
}

func TestForwardChain(t *testing.T) {
	method := uuid.New()
	o1 := testOp(method, 1, 2)
	o2 := testOp(method, 2, 3)
	ops := []*domain.Operation{o1, o2}
	g := chainGraph(ops)

	anchor := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	results := CalculateDates(ops, g, anchor, domain.Forward, anchor)

	require.Equal(t, anchor, results[o1.ID].Start)
	require.Equal(t, anchor.Add(day(2)), results[o1.ID].Due)
	require.Equal(t, anchor.Add(day(2)), results[o2.ID].Start)
	require.Equal(t, anchor.Add(day(5)), results[o2.ID].Due)
	require.False(t, results[o1.ID].HasConflict)
	require.False(t, results[o2.ID].HasConflict)
}

func TestForwardTakesMaxPrerequisiteConstraint(t *testing.T) {
	method := uuid.New()
	short := testOp(method, 1, 1)
	long := testOp(method, 2, 5)
	join := testOp(method, 3, 1)
	ops := []*domain.Operation{short, long, join}

	g := NewGraph()
	g.add(join.ID, short.ID)
	g.add(join.ID, long.ID)

	anchor := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	results := CalculateDates(ops, g, anchor, domain.Forward, anchor)

	require.Equal(t, anchor.Add(day(5)), results[join.ID].Start)
}

func TestInsufficientLeadTime(t *testing.T) {
	method := uuid.New()
	op := testOp(method, 1, 10)
	ops := []*domain.Operation{op}

	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC) // only 2 days left
	results := CalculateDates(ops, NewGraph(), due, domain.Backward, now)

	require.True(t, results[op.ID].HasConflict)
	require.Equal(t, ReasonLeadTime, results[op.ID].ConflictReason)
	require.Equal(t, due.Add(-day(10)), results[op.ID].Start)
}

func TestEdgesOutsideWorkingSetIgnored(t *testing.T) {
	method := uuid.New()
	op := testOp(method, 1, 1)
	gone := uuid.New() // a done operation no longer loaded

	g := NewGraph()
	g.add(op.ID, gone)

	anchor := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	results := CalculateDates([]*domain.Operation{op}, g, anchor, domain.Backward, now)

	require.Equal(t, anchor, results[op.ID].Due)
	require.False(t, results[op.ID].HasConflict)
}
