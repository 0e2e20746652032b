package models

import (
	"time"

	"github.com/google/uuid"
)

type HarnessInspection struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	TechnicianID uuid.UUID
	InspectedAt  time.Time
	Result       string
	Notes        string
	CreatedAt    time.Time
}

type SafetyForm struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	TechnicianID uuid.UUID
	DocumentType string
	Status       string
	SubmittedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
