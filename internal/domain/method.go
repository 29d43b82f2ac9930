package domain

import "github.com/google/uuid"

// ProductionMethod is the make definition for one item in a job's
// assembly tree. The root method has a nil ParentMaterialID; every other
// method is introduced by the material row that consumes its output.
type ProductionMethod struct {
	ID               uuid.UUID
	JobID            uuid.UUID
	ItemName         string
	ParentMaterialID *uuid.UUID
}

// Material is a consumption relationship: a method consumes Quantity of
// an item. A nil MadeByMethodID means the item is purchased; otherwise
// the item is built by the referenced child method. OperationID is the
// hand-off link: the operation in the consuming method that receives the
// item. It is nil until assigned (initial scheduling assigns a default).
type Material struct {
	ID             uuid.UUID
	MethodID       uuid.UUID // consuming method
	MadeByMethodID *uuid.UUID
	OperationID    *uuid.UUID
	ItemName       string
	Quantity       float64
}

// Purchased reports whether the material is bought rather than built.
func (m *Material) Purchased() bool { return m.MadeByMethodID == nil }
