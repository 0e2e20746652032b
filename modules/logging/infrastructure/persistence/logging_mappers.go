package persistence

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/logging/domain/entities/actionlog"
	"github.com/ropeworks/ropeworks/modules/logging/infrastructure/persistence/models"
)

func toDBActionLog(entity *actionlog.ActionLog) *models.ActionLog {
	row := &models.ActionLog{
		ID:        entity.ID,
		TenantID:  entity.TenantID.String(),
		Method:    entity.Method,
		Path:      entity.Path,
		UserAgent: entity.UserAgent,
		IP:        entity.IP,
		CreatedAt: entity.CreatedAt,
	}
	if entity.UserID != nil {
		row.UserID = sql.NullString{String: entity.UserID.String(), Valid: true}
	}
	return row
}

func toDomainActionLog(row *models.ActionLog) (*actionlog.ActionLog, error) {
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return nil, err
	}
	entity := &actionlog.ActionLog{
		ID:        row.ID,
		TenantID:  tenantID,
		Method:    row.Method,
		Path:      row.Path,
		UserAgent: row.UserAgent,
		IP:        row.IP,
		CreatedAt: row.CreatedAt,
	}
	if row.UserID.Valid {
		userID, err := uuid.Parse(row.UserID.String)
		if err != nil {
			return nil, err
		}
		entity.UserID = &userID
	}
	return entity, nil
}
