package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	Address        string
	Status         string
	DropsTotal     int
	DropsCompleted int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type WorkSession struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ProjectID      uuid.UUID
	TechnicianID   uuid.UUID
	StartedAt      time.Time
	EndedAt        sql.NullTime
	DropsCompleted int
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
