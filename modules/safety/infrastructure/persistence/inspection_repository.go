package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/inspection"
	"github.com/ropeworks/ropeworks/modules/safety/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectInspectionsQuery = `
		SELECT id, tenant_id, technician_id, inspected_at, result, notes, created_at
		FROM harness_inspections`
	insertInspectionQuery = `
		INSERT INTO harness_inspections (id, tenant_id, technician_id, inspected_at, result, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

type PgInspectionRepository struct{}

func NewInspectionRepository() inspection.Repository {
	return &PgInspectionRepository{}
}

func (g *PgInspectionRepository) queryInspections(ctx context.Context, query string, args ...interface{}) ([]*inspection.HarnessInspection, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query harness inspections")
	}
	defer rows.Close()

	inspections := make([]*inspection.HarnessInspection, 0)
	for rows.Next() {
		var dbRow models.HarnessInspection
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.TechnicianID,
			&dbRow.InspectedAt,
			&dbRow.Result,
			&dbRow.Notes,
			&dbRow.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan harness inspection row")
		}
		inspections = append(inspections, toDomainInspection(&dbRow))
	}
	return inspections, rows.Err()
}

func (g *PgInspectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*inspection.HarnessInspection, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	inspections, err := g.queryInspections(ctx, selectInspectionsQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(inspections) == 0 {
		return nil, errors.Wrap(inspection.ErrInspectionNotFound, id.String())
	}
	return inspections[0], nil
}

func (g *PgInspectionRepository) ListByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) ([]*inspection.HarnessInspection, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return g.queryInspections(
		ctx,
		selectInspectionsQuery+" WHERE tenant_id = $1 AND technician_id = $2 AND inspected_at >= $3 ORDER BY inspected_at DESC",
		tenantID, technicianID, since,
	)
}

func (g *PgInspectionRepository) Create(ctx context.Context, data *inspection.HarnessInspection) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBInspection(data)
	if _, err := tx.Exec(ctx, insertInspectionQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.TechnicianID,
		dbRow.InspectedAt,
		dbRow.Result,
		dbRow.Notes,
		dbRow.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert harness inspection")
	}
	return nil
}
