package persistence

import (
	"database/sql"
	"time"

	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/modules/notifications/infrastructure/persistence/models"
)

func toDomainNotification(dbRow *models.Notification) *notification.Notification {
	var readAt *time.Time
	if dbRow.ReadAt.Valid {
		t := dbRow.ReadAt.Time
		readAt = &t
	}
	return &notification.Notification{
		ID:        dbRow.ID,
		TenantID:  dbRow.TenantID,
		UserID:    dbRow.UserID,
		Title:     dbRow.Title,
		Body:      dbRow.Body,
		ReadAt:    readAt,
		CreatedAt: dbRow.CreatedAt,
	}
}

func toDBNotification(entity *notification.Notification) *models.Notification {
	var readAt sql.NullTime
	if entity.ReadAt != nil {
		readAt = sql.NullTime{Time: *entity.ReadAt, Valid: true}
	}
	return &models.Notification{
		ID:        entity.ID,
		TenantID:  entity.TenantID,
		UserID:    entity.UserID,
		Title:     entity.Title,
		Body:      entity.Body,
		ReadAt:    readAt,
		CreatedAt: entity.CreatedAt,
	}
}
