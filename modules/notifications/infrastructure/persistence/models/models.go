package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Title     string
	Body      string
	ReadAt    sql.NullTime
	CreatedAt time.Time
}
