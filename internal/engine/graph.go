package engine

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// Graph is the dependency DAG for one job: an adjacency map keyed by
// dependent operation id → set of prerequisite operation ids. Once built
// for a run it is only read, never mutated.
type Graph struct {
	prereqs map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewGraph() *Graph {
	return &Graph{prereqs: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

// GraphFromEdges rebuilds a graph from persisted edges (reschedule mode).
func GraphFromEdges(edges []domain.DependencyEdge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.add(e.OperationID, e.DependsOnOperationID)
	}
	return g
}

func (g *Graph) add(opID, dependsOn uuid.UUID) {
	if opID == dependsOn {
		return
	}
	set, ok := g.prereqs[opID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		g.prereqs[opID] = set
	}
	set[dependsOn] = struct{}{}
}

// Prerequisites returns the operations that must finish before opID
// starts, in a stable order.
func (g *Graph) Prerequisites(opID uuid.UUID) []uuid.UUID {
	set := g.prereqs[opID]
	if len(set) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sortUUIDs(out)
	return out
}

// HasPrerequisites reports whether opID depends on any operation.
func (g *Graph) HasPrerequisites(opID uuid.UUID) bool {
	return len(g.prereqs[opID]) > 0
}

// EdgeList flattens the adjacency map into persistable edges, stably
// ordered so replacement writes are deterministic.
func (g *Graph) EdgeList(jobID uuid.UUID) []domain.DependencyEdge {
	var out []domain.DependencyEdge
	for opID, set := range g.prereqs {
		for dep := range set {
			out = append(out, domain.DependencyEdge{
				JobID:                jobID,
				OperationID:          opID,
				DependsOnOperationID: dep,
			})
		}
	}
	slices.SortFunc(out, func(a, b domain.DependencyEdge) int {
		if c := strings.Compare(a.OperationID.String(), b.OperationID.String()); c != 0 {
			return c
		}
		return strings.Compare(a.DependsOnOperationID.String(), b.DependsOnOperationID.String())
	})
	return out
}

// BuildGraph derives the complete edge set for a job.
//
// Intra-method edges chain each method's operations in sequence order;
// an operation flagged StartWithPrevious runs decoupled and gets no
// auto-dependency on its predecessor. Cross-method edges connect each
// subassembly's last operation to the hand-off operation recorded on the
// material that consumes it. A missing hand-off link drops that edge
// with a warning — degraded, never fatal.
//
// tree may be nil (job without a root method); only intra-method edges
// are derived then.
func BuildGraph(tree *AssemblyTree, ops []*domain.Operation, materials []*domain.Material, logger *slog.Logger) *Graph {
	g := NewGraph()

	byMethod := make(map[uuid.UUID][]*domain.Operation)
	for _, op := range ops {
		byMethod[op.MethodID] = append(byMethod[op.MethodID], op)
	}
	for _, list := range byMethod {
		slices.SortFunc(list, func(a, b *domain.Operation) int {
			return cmp.Compare(a.Sequence, b.Sequence)
		})
		for i := 1; i < len(list); i++ {
			if list[i].StartWithPrevious {
				continue
			}
			g.add(list[i].ID, list[i-1].ID)
		}
	}

	if tree == nil {
		return g
	}

	materialByID := make(map[uuid.UUID]*domain.Material, len(materials))
	for _, m := range materials {
		materialByID[m.ID] = m
	}
	known := make(map[uuid.UUID]struct{}, len(ops))
	for _, op := range ops {
		known[op.ID] = struct{}{}
	}

	var walk func(n *AssemblyNode)
	walk = func(n *AssemblyNode) {
		for matID, child := range n.Children {
			walk(child)
			last := child.LastOperation()
			if last == nil {
				continue
			}
			mat := materialByID[matID]
			if mat == nil || mat.OperationID == nil {
				logger.Warn("material has no hand-off operation, skipping cross-method edge",
					"material_id", matID,
					"child_method_id", child.Method.ID)
				continue
			}
			if _, ok := known[*mat.OperationID]; !ok {
				logger.Warn("material hand-off points at an unknown operation, skipping edge",
					"material_id", matID,
					"operation_id", *mat.OperationID)
				continue
			}
			g.add(*mat.OperationID, last.ID)
		}
	}
	walk(tree.Root)

	return g
}

func sortUUIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
}
