package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/foundry/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntraMethodChain(t *testing.T) {
	method := uuid.New()
	o1 := testOp(method, 1, 1)
	o2 := testOp(method, 2, 1)
	o3 := testOp(method, 3, 1)

	g := BuildGraph(nil, []*domain.Operation{o3, o1, o2}, nil, discardLogger())

	require.Equal(t, []uuid.UUID{o1.ID}, g.Prerequisites(o2.ID))
	require.Equal(t, []uuid.UUID{o2.ID}, g.Prerequisites(o3.ID))
	require.False(t, g.HasPrerequisites(o1.ID))
}

func TestStartWithPreviousDecouples(t *testing.T) {
	method := uuid.New()
	o1 := testOp(method, 1, 1)
	o2 := testOp(method, 2, 1)
	o2.StartWithPrevious = true
	o3 := testOp(method, 3, 1)

	g := BuildGraph(nil, []*domain.Operation{o1, o2, o3}, nil, discardLogger())

	require.False(t, g.HasPrerequisites(o2.ID))
	require.Equal(t, []uuid.UUID{o2.ID}, g.Prerequisites(o3.ID))
}

// assemblyFixture builds a parent method consuming one subassembly:
// parent ops P1,P2; child ops C1,C2; the material hand-off links to P1.
type assemblyFixture struct {
	jobID     uuid.UUID
	methods   []*domain.ProductionMethod
	materials []*domain.Material
	ops       []*domain.Operation
	p1, p2    *domain.Operation
	c1, c2    *domain.Operation
	material  *domain.Material
}

func newAssemblyFixture(t *testing.T) *assemblyFixture {
	t.Helper()
	f := &assemblyFixture{jobID: uuid.New()}

	parent := &domain.ProductionMethod{ID: uuid.New(), JobID: f.jobID, ItemName: "frame"}
	matID := uuid.New()
	child := &domain.ProductionMethod{ID: uuid.New(), JobID: f.jobID, ItemName: "bracket", ParentMaterialID: &matID}
	f.methods = []*domain.ProductionMethod{parent, child}

	f.p1 = testOp(parent.ID, 1, 1)
	f.p2 = testOp(parent.ID, 2, 1)
	f.c1 = testOp(child.ID, 1, 1)
	f.c2 = testOp(child.ID, 2, 1)
	f.ops = []*domain.Operation{f.p1, f.p2, f.c1, f.c2}

	handOff := f.p1.ID
	f.material = &domain.Material{
		ID:             matID,
		MethodID:       parent.ID,
		MadeByMethodID: &child.ID,
		OperationID:    &handOff,
		ItemName:       "bracket",
		Quantity:       1,
	}
	f.materials = []*domain.Material{f.material}
	return f
}

func TestCrossMethodHandOffEdge(t *testing.T) {
	f := newAssemblyFixture(t)
	tree := BuildAssemblyTree(f.methods, f.materials, f.ops)
	require.NotNil(t, tree)

	g := BuildGraph(tree, f.ops, f.materials, discardLogger())

	// The child's last operation feeds the parent's hand-off operation.
	require.Contains(t, g.Prerequisites(f.p1.ID), f.c2.ID)
}

func TestMissingHandOffDropsOnlyThatEdge(t *testing.T) {
	f := newAssemblyFixture(t)
	tree := BuildAssemblyTree(f.methods, f.materials, f.ops)

	withLink := BuildGraph(tree, f.ops, f.materials, discardLogger()).EdgeList(f.jobID)

	f.material.OperationID = nil
	withoutLink := BuildGraph(tree, f.ops, f.materials, discardLogger()).EdgeList(f.jobID)

	require.Len(t, withLink, len(withoutLink)+1)
	for _, e := range withoutLink {
		require.Contains(t, withLink, e)
	}
	for _, e := range withoutLink {
		require.False(t, e.OperationID == f.p1.ID && e.DependsOnOperationID == f.c2.ID)
	}
}

func TestEdgeListDeduplicates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	jobID := uuid.New()
	g := GraphFromEdges([]domain.DependencyEdge{
		{JobID: jobID, OperationID: a, DependsOnOperationID: b},
		{JobID: jobID, OperationID: a, DependsOnOperationID: b},
	})
	require.Len(t, g.EdgeList(jobID), 1)
}

func TestSelfEdgeIgnored(t *testing.T) {
	a := uuid.New()
	g := GraphFromEdges([]domain.DependencyEdge{
		{OperationID: a, DependsOnOperationID: a},
	})
	require.False(t, g.HasPrerequisites(a))
}
