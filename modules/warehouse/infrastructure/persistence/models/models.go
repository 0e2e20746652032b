package models

import (
	"time"

	"github.com/google/uuid"
)

type GearItem struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	SerialNumber string
	Type         string
	Status       string
	AssignedTo   *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
