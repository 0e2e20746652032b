package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/csr"
	"github.com/ropeworks/ropeworks/modules/quiz/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	insertCSREntryQuery = `
		INSERT INTO csr_ledger (id, tenant_id, user_id, points, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	totalCSRPointsQuery = `SELECT COALESCE(SUM(points), 0) FROM csr_ledger WHERE tenant_id = $1`
	selectCSRQuery      = `
		SELECT id, tenant_id, user_id, points, reason, created_at
		FROM csr_ledger
		WHERE tenant_id = $1
		ORDER BY created_at DESC `
)

type PgCSRRepository struct{}

func NewCSRRepository() csr.Repository {
	return &PgCSRRepository{}
}

func (g *PgCSRRepository) Append(ctx context.Context, entry *csr.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, insertCSREntryQuery,
		entry.ID,
		entry.TenantID,
		entry.UserID,
		entry.Points,
		entry.Reason,
		entry.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to append csr ledger entry")
	}
	return nil
}

func (g *PgCSRRepository) TotalPoints(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := tx.QueryRow(ctx, totalCSRPointsQuery, tenantID).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "failed to sum csr points")
	}
	return total, nil
}

func (g *PgCSRRepository) List(ctx context.Context, limit, offset int) ([]*csr.Entry, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectCSRQuery+repo.FormatLimitOffset(limit, offset), tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query csr ledger")
	}
	defer rows.Close()

	entries := make([]*csr.Entry, 0)
	for rows.Next() {
		var dbRow models.CSREntry
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.UserID,
			&dbRow.Points,
			&dbRow.Reason,
			&dbRow.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan csr ledger row")
		}
		entries = append(entries, toDomainCSREntry(&dbRow))
	}
	return entries, rows.Err()
}
