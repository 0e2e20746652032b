package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/safetyform"
	"github.com/ropeworks/ropeworks/modules/safety/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectFormsQuery = `
		SELECT id, tenant_id, technician_id, document_type, status, submitted_at, created_at, updated_at
		FROM safety_forms`
	insertFormQuery = `
		INSERT INTO safety_forms (id, tenant_id, technician_id, document_type, status, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateFormQuery = `
		UPDATE safety_forms
		SET status = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4`
)

type PgSafetyFormRepository struct{}

func NewSafetyFormRepository() safetyform.Repository {
	return &PgSafetyFormRepository{}
}

func (g *PgSafetyFormRepository) queryForms(ctx context.Context, query string, args ...interface{}) ([]*safetyform.Form, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query safety forms")
	}
	defer rows.Close()

	forms := make([]*safetyform.Form, 0)
	for rows.Next() {
		var dbRow models.SafetyForm
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.TechnicianID,
			&dbRow.DocumentType,
			&dbRow.Status,
			&dbRow.SubmittedAt,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan safety form row")
		}
		forms = append(forms, toDomainForm(&dbRow))
	}
	return forms, rows.Err()
}

func (g *PgSafetyFormRepository) GetByID(ctx context.Context, id uuid.UUID) (*safetyform.Form, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	forms, err := g.queryForms(ctx, selectFormsQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, errors.Wrap(safetyform.ErrFormNotFound, id.String())
	}
	return forms[0], nil
}

func (g *PgSafetyFormRepository) ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]*safetyform.Form, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return g.queryForms(
		ctx,
		selectFormsQuery+" WHERE tenant_id = $1 AND technician_id = $2 ORDER BY submitted_at DESC",
		tenantID, technicianID,
	)
}

func (g *PgSafetyFormRepository) Create(ctx context.Context, data *safetyform.Form) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBForm(data)
	if _, err := tx.Exec(ctx, insertFormQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.TechnicianID,
		dbRow.DocumentType,
		dbRow.Status,
		dbRow.SubmittedAt,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert safety form")
	}
	return nil
}

func (g *PgSafetyFormRepository) Update(ctx context.Context, data *safetyform.Form) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBForm(data)
	if _, err := tx.Exec(ctx, updateFormQuery,
		dbRow.Status,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update safety form")
	}
	return nil
}
