package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/modules/notifications/infrastructure/persistence/models"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/repo"
)

const (
	selectNotificationsQuery = `
		SELECT id, tenant_id, user_id, title, body, read_at, created_at
		FROM notifications`
	countUnreadQuery = `
		SELECT COUNT(*) FROM notifications
		WHERE tenant_id = $1 AND user_id = $2 AND read_at IS NULL`
	insertNotificationQuery = `
		INSERT INTO notifications (id, tenant_id, user_id, title, body, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	markReadQuery = `
		UPDATE notifications SET read_at = $1
		WHERE id = $2 AND tenant_id = $3 AND read_at IS NULL`
	markAllReadQuery = `
		UPDATE notifications SET read_at = $1
		WHERE tenant_id = $2 AND user_id = $3 AND read_at IS NULL`
)

type PgNotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &PgNotificationRepository{}
}

func (g *PgNotificationRepository) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]*notification.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notifications")
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		var dbRow models.Notification
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.UserID,
			&dbRow.Title,
			&dbRow.Body,
			&dbRow.ReadAt,
			&dbRow.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification row")
		}
		notifications = append(notifications, toDomainNotification(&dbRow))
	}
	return notifications, rows.Err()
}

func (g *PgNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := g.queryNotifications(ctx, selectNotificationsQuery+" WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return nil, errors.Wrap(notification.ErrNotificationNotFound, id.String())
	}
	return notifications[0], nil
}

func (g *PgNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := selectNotificationsQuery + " WHERE tenant_id = $1 AND user_id = $2 ORDER BY created_at DESC " +
		repo.FormatLimitOffset(limit, offset)
	return g.queryNotifications(ctx, query, tenantID, userID)
}

func (g *PgNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countUnreadQuery, tenantID, userID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}
	return count, nil
}

func (g *PgNotificationRepository) Create(ctx context.Context, data *notification.Notification) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBNotification(data)
	if _, err := tx.Exec(ctx, insertNotificationQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.UserID,
		dbRow.Title,
		dbRow.Body,
		dbRow.ReadAt,
		dbRow.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert notification")
	}
	return nil
}

func (g *PgNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, markReadQuery, readAt, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to mark notification read")
	}
	return nil
}

func (g *PgNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, markAllReadQuery, readAt, tenantID, userID); err != nil {
		return errors.Wrap(err, "failed to mark notifications read")
	}
	return nil
}
