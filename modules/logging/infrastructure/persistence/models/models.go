package models

import (
	"database/sql"
	"time"
)

type ActionLog struct {
	ID        uint
	TenantID  string
	UserID    sql.NullString
	Method    string
	Path      string
	UserAgent string
	IP        string
	CreatedAt time.Time
}
