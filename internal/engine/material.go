package engine

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

// MaterialAssignment binds one material's hand-off link to an operation
// of its consuming method.
type MaterialAssignment struct {
	MaterialID  uuid.UUID
	OperationID uuid.UUID
}

// DefaultHandOffs walks the assembly tree and, for every made (not
// purchased) material that has no hand-off operation yet, assigns it to
// the first operation of the consuming method. Runs before dependency
// derivation: cross-method edges require these links.
//
// Materials whose consuming method has no operations are skipped; the
// graph builder logs the missing link when it derives edges.
func DefaultHandOffs(tree *AssemblyTree, materials []*domain.Material) []MaterialAssignment {
	if tree == nil {
		return nil
	}
	materialByID := make(map[uuid.UUID]*domain.Material, len(materials))
	for _, m := range materials {
		materialByID[m.ID] = m
	}

	var out []MaterialAssignment
	var walk func(n *AssemblyNode)
	walk = func(n *AssemblyNode) {
		for matID, child := range n.Children {
			mat := materialByID[matID]
			if mat != nil && mat.OperationID == nil {
				if first := n.FirstOperation(); first != nil {
					id := first.ID
					mat.OperationID = &id
					out = append(out, MaterialAssignment{MaterialID: matID, OperationID: id})
				}
			}
			walk(child)
		}
	}
	walk(tree.Root)
	slices.SortFunc(out, func(a, b MaterialAssignment) int {
		return strings.Compare(a.MaterialID.String(), b.MaterialID.String())
	})
	return out
}
