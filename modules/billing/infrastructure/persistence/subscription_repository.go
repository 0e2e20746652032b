package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	"github.com/ropeworks/ropeworks/modules/billing/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

const (
	selectSubscriptionQuery = `
		SELECT id, tenant_id, plan, seats, status, amount, period_end, addons, created_at, updated_at
		FROM subscriptions
		WHERE tenant_id = $1`
	insertSubscriptionQuery = `
		INSERT INTO subscriptions (id, tenant_id, plan, seats, status, amount, period_end, addons, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	updateSubscriptionQuery = `
		UPDATE subscriptions
		SET plan = $1, seats = $2, status = $3, amount = $4, period_end = $5, addons = $6, updated_at = $7
		WHERE id = $8 AND tenant_id = $9`
)

type PgSubscriptionRepository struct{}

func NewSubscriptionRepository() subscription.Repository {
	return &PgSubscriptionRepository{}
}

func (g *PgSubscriptionRepository) GetByTenant(ctx context.Context) (subscription.Subscription, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var dbRow models.Subscription
	if err := tx.QueryRow(ctx, selectSubscriptionQuery, tenantID).Scan(
		&dbRow.ID,
		&dbRow.TenantID,
		&dbRow.Plan,
		&dbRow.Seats,
		&dbRow.Status,
		&dbRow.Amount,
		&dbRow.PeriodEnd,
		&dbRow.Addons,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, errors.Wrap(err, "failed to query subscription")
	}
	return toDomainSubscription(&dbRow)
}

func (g *PgSubscriptionRepository) Create(ctx context.Context, data subscription.Subscription) (subscription.Subscription, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow, err := toDBSubscription(data)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, insertSubscriptionQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.Plan,
		dbRow.Seats,
		dbRow.Status,
		dbRow.Amount,
		dbRow.PeriodEnd,
		dbRow.Addons,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to insert subscription")
	}
	return data, nil
}

func (g *PgSubscriptionRepository) Update(ctx context.Context, data subscription.Subscription) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow, err := toDBSubscription(data)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, updateSubscriptionQuery,
		dbRow.Plan,
		dbRow.Seats,
		dbRow.Status,
		dbRow.Amount,
		dbRow.PeriodEnd,
		dbRow.Addons,
		dbRow.UpdatedAt,
		dbRow.ID,
		dbRow.TenantID,
	); err != nil {
		return errors.Wrap(err, "failed to update subscription")
	}
	return nil
}
