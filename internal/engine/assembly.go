package engine

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// AssemblyNode is one method in a job's make/buy tree together with its
// ordered operations and the subassembly methods it consumes. Children
// are keyed by the material row that introduces them.
type AssemblyNode struct {
	Method     *domain.ProductionMethod
	Operations []*domain.Operation
	Children   map[uuid.UUID]*AssemblyNode
	Depth      int
}

// AssemblyTree is the reconstructed hierarchy for one job. Depth is the
// deepest node level (root = 1), exposed as a diagnostic.
type AssemblyTree struct {
	Root  *AssemblyNode
	Depth int
}

// LastOperation returns the node's final operation by sequence order —
// the sole hand-off point toward the consuming method. Nil for purchased
// or operation-less methods.
func (n *AssemblyNode) LastOperation() *domain.Operation {
	if len(n.Operations) == 0 {
		return nil
	}
	return n.Operations[len(n.Operations)-1]
}

// FirstOperation returns the node's first operation by sequence order.
func (n *AssemblyNode) FirstOperation() *domain.Operation {
	if len(n.Operations) == 0 {
		return nil
	}
	return n.Operations[0]
}

// BuildAssemblyTree reconstructs the assembly hierarchy from a job's
// loaded method, material and operation records. Returns nil when the
// job has no root method; callers then skip assembly-derived steps.
func BuildAssemblyTree(methods []*domain.ProductionMethod, materials []*domain.Material, ops []*domain.Operation) *AssemblyTree {
	var root *domain.ProductionMethod
	byID := make(map[uuid.UUID]*domain.ProductionMethod, len(methods))
	for _, m := range methods {
		byID[m.ID] = m
		if m.ParentMaterialID == nil {
			root = m
		}
	}
	if root == nil {
		return nil
	}

	opsByMethod := make(map[uuid.UUID][]*domain.Operation)
	for _, op := range ops {
		opsByMethod[op.MethodID] = append(opsByMethod[op.MethodID], op)
	}
	for _, list := range opsByMethod {
		slices.SortFunc(list, func(a, b *domain.Operation) int {
			return cmp.Compare(a.Sequence, b.Sequence)
		})
	}

	materialsByMethod := make(map[uuid.UUID][]*domain.Material)
	for _, mat := range materials {
		materialsByMethod[mat.MethodID] = append(materialsByMethod[mat.MethodID], mat)
	}

	tree := &AssemblyTree{}
	tree.Root = buildNode(root, 1, byID, opsByMethod, materialsByMethod, tree)
	return tree
}

func buildNode(
	method *domain.ProductionMethod,
	depth int,
	methods map[uuid.UUID]*domain.ProductionMethod,
	opsByMethod map[uuid.UUID][]*domain.Operation,
	materialsByMethod map[uuid.UUID][]*domain.Material,
	tree *AssemblyTree,
) *AssemblyNode {
	if depth > tree.Depth {
		tree.Depth = depth
	}
	node := &AssemblyNode{
		Method:     method,
		Operations: opsByMethod[method.ID],
		Children:   make(map[uuid.UUID]*AssemblyNode),
		Depth:      depth,
	}
	for _, mat := range materialsByMethod[method.ID] {
		if mat.Purchased() {
			continue
		}
		child, ok := methods[*mat.MadeByMethodID]
		if !ok {
			continue
		}
		node.Children[mat.ID] = buildNode(child, depth+1, methods, opsByMethod, materialsByMethod, tree)
	}
	return node
}
