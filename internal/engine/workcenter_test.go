package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/foundry/internal/domain"
)

func TestSelectWorkCentersByCapability(t *testing.T) {
	location := uuid.New()
	mill := &domain.WorkCenter{ID: uuid.New(), Name: "mill-1", LocationID: location, Processes: []string{"mill"}}
	lathe := &domain.WorkCenter{ID: uuid.New(), Name: "lathe-1", LocationID: location, Processes: []string{"turn"}}

	method := uuid.New()
	millOp := testOp(method, 1, 1)
	turnOp := testOp(method, 2, 1)
	turnOp.Process = "turn"

	got := SelectWorkCenters([]*domain.Operation{millOp, turnOp}, []*domain.WorkCenter{mill, lathe})

	require.Equal(t, mill.ID, *got[millOp.ID])
	require.Equal(t, lathe.ID, *got[turnOp.ID])
}

func TestSelectWorkCentersDeterministicPick(t *testing.T) {
	location := uuid.New()
	a := &domain.WorkCenter{
		ID:         uuid.MustParse("00000000-0000-0000-0000-00000000000a"),
		LocationID: location,
		Processes:  []string{"mill"},
	}
	b := &domain.WorkCenter{
		ID:         uuid.MustParse("ffffffff-0000-0000-0000-00000000000b"),
		LocationID: location,
		Processes:  []string{"mill"},
	}

	op := testOp(uuid.New(), 1, 1)

	// Same pick regardless of input order.
	got1 := SelectWorkCenters([]*domain.Operation{op}, []*domain.WorkCenter{a, b})
	got2 := SelectWorkCenters([]*domain.Operation{op}, []*domain.WorkCenter{b, a})
	require.Equal(t, a.ID, *got1[op.ID])
	require.Equal(t, a.ID, *got2[op.ID])
}

func TestSelectWorkCentersNoneEligible(t *testing.T) {
	op := testOp(uuid.New(), 1, 1)
	op.Process = "anodize"
	centers := []*domain.WorkCenter{
		{ID: uuid.New(), LocationID: uuid.New(), Processes: []string{"mill", "turn"}},
	}

	got := SelectWorkCenters([]*domain.Operation{op}, centers)
	require.Nil(t, got[op.ID])
}
