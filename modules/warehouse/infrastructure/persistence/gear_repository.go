package persistence

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/warehouse/domain/entities/gear"
	"github.com/ropeworks/ropeworks/modules/warehouse/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	selectGearQuery = `
		SELECT id, tenant_id, serial_number, gear_type, status, assigned_to, created_at, updated_at
		FROM gear_items`
	countGearQuery  = `SELECT COUNT(*) FROM gear_items WHERE tenant_id = $1`
	insertGearQuery = `
		INSERT INTO gear_items (id, tenant_id, serial_number, gear_type, status, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateGearQuery = `
		UPDATE gear_items
		SET serial_number = $1, gear_type = $2, status = $3, assigned_to = $4, updated_at = $5
		WHERE id = $6 AND tenant_id = $7`
	deleteGearQuery = `DELETE FROM gear_items WHERE id = $1 AND tenant_id = $2`
)

type PgGearRepository struct{}

func NewGearRepository() gear.Repository {
	return &PgGearRepository{}
}

func (g *PgGearRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]*gear.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query gear items")
	}
	defer rows.Close()

	items := make([]*gear.Item, 0)
	for rows.Next() {
		var dbRow models.GearItem
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.SerialNumber,
			&dbRow.Type,
			&dbRow.Status,
			&dbRow.AssignedTo,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan gear item row")
		}
		items = append(items, toDomainGearItem(&dbRow))
	}
	return items, rows.Err()
}

func (g *PgGearRepository) GetByID(ctx context.Context, id uuid.UUID) (*gear.Item, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := g.queryItems(ctx, selectGearQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.Wrap(gear.ErrGearNotFound, id.String())
	}
	return items[0], nil
}

func (g *PgGearRepository) GetPaginated(ctx context.Context, params *gear.FindParams) ([]*gear.Item, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := selectGearQuery + " WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	if params.Type != "" {
		args = append(args, params.Type)
		query += " AND gear_type = $2"
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY serial_number " + repo.FormatLimitOffset(params.Limit, params.Offset)
	return g.queryItems(ctx, query, args...)
}

func (g *PgGearRepository) Count(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countGearQuery, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count gear items")
	}
	return count, nil
}

// FirstAvailable locks the returned row so two technicians cannot claim the
// same item in concurrent transactions.
func (g *PgGearRepository) FirstAvailable(ctx context.Context, gearType string) (*gear.Item, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := selectGearQuery + " WHERE tenant_id = $1 AND status = $2"
	args := []interface{}{tenantID, string(gear.StatusAvailable)}
	if gearType != "" {
		args = append(args, gearType)
		query += " AND gear_type = $3"
	}
	query += " ORDER BY created_at LIMIT 1 FOR UPDATE SKIP LOCKED"
	items, err := g.queryItems(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, gear.ErrNoGearAvailable
	}
	return items[0], nil
}

func (g *PgGearRepository) Create(ctx context.Context, data *gear.Item) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBGearItem(data)
	if _, err := tx.Exec(ctx, insertGearQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.SerialNumber,
		dbRow.Type,
		dbRow.Status,
		dbRow.AssignedTo,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert gear item")
	}
	return nil
}

func (g *PgGearRepository) Update(ctx context.Context, data *gear.Item) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBGearItem(data)
	if _, err := tx.Exec(ctx, updateGearQuery,
		dbRow.SerialNumber,
		dbRow.Type,
		dbRow.Status,
		dbRow.AssignedTo,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update gear item")
	}
	return nil
}

func (g *PgGearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteGearQuery, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to delete gear item")
	}
	return nil
}
