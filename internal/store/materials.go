package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourorg/foundry/internal/domain"
)

func (s *Store) MethodsForJob(ctx context.Context, jobID uuid.UUID) ([]*domain.ProductionMethod, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, item_name, parent_material_id
		FROM production_methods
		WHERE job_id = $1`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []*domain.ProductionMethod
	for rows.Next() {
		m := &domain.ProductionMethod{}
		if err := rows.Scan(&m.ID, &m.JobID, &m.ItemName, &m.ParentMaterialID); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (s *Store) MaterialsForJob(ctx context.Context, jobID uuid.UUID) ([]*domain.Material, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.method_id, m.made_by_method_id, m.operation_id,
		       m.item_name, m.quantity
		FROM materials m
		JOIN production_methods pm ON pm.id = m.method_id
		WHERE pm.job_id = $1`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*domain.Material
	for rows.Next() {
		m := &domain.Material{}
		if err := rows.Scan(&m.ID, &m.MethodID, &m.MadeByMethodID, &m.OperationID,
			&m.ItemName, &m.Quantity); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// AssignMaterialOperation binds the material's hand-off link. Only
// unlinked materials are touched so a concurrent manual assignment wins.
func (s *Store) AssignMaterialOperation(ctx context.Context, materialID, operationID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE materials SET operation_id = $2
		WHERE id = $1 AND operation_id IS NULL`, materialID, operationID)
	return err
}
