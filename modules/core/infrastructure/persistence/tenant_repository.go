package persistence

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	"github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectTenantsQuery = `
		SELECT id, name, domain, is_gift, created_at, updated_at
		FROM tenants`
	insertTenantQuery = `
		INSERT INTO tenants (id, name, domain, is_gift, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	updateTenantQuery = `
		UPDATE tenants SET name = $1, domain = $2, is_gift = $3, updated_at = $4 WHERE id = $5`
	deleteTenantQuery = `DELETE FROM tenants WHERE id = $1`
)

type PgTenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &PgTenantRepository{}
}

func (g *PgTenantRepository) queryTenants(ctx context.Context, query string, args ...interface{}) ([]*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tenants")
	}
	defer rows.Close()

	tenants := make([]*tenant.Tenant, 0)
	for rows.Next() {
		var dbRow models.Tenant
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.Name,
			&dbRow.Domain,
			&dbRow.IsGift,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan tenant row")
		}
		tenants = append(tenants, toDomainTenant(&dbRow))
	}
	return tenants, rows.Err()
}

func (g *PgTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	tenants, err := g.queryTenants(ctx, selectTenantsQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, errors.Wrap(tenant.ErrTenantNotFound, id.String())
	}
	return tenants[0], nil
}

func (g *PgTenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return g.queryTenants(ctx, selectTenantsQuery+" ORDER BY created_at")
}

func (g *PgTenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	domain := sql.NullString{String: t.Domain, Valid: t.Domain != ""}
	if _, err := tx.Exec(ctx, insertTenantQuery,
		t.ID, t.Name, domain, t.IsGift, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert tenant")
	}
	return g.GetByID(ctx, t.ID)
}

func (g *PgTenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	domain := sql.NullString{String: t.Domain, Valid: t.Domain != ""}
	if _, err := tx.Exec(ctx, updateTenantQuery,
		t.Name, domain, t.IsGift, t.UpdatedAt, t.ID,
	); err != nil {
		return errors.Wrap(err, "failed to update tenant")
	}
	return nil
}

func (g *PgTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteTenantQuery, id); err != nil {
		return errors.Wrap(err, "failed to delete tenant")
	}
	return nil
}
