package inspection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInspectionNotFound = errors.New("harness inspection not found")

type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// HarnessInspection is one pre-use check of a technician's harness kit.
type HarnessInspection struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	TechnicianID uuid.UUID
	InspectedAt  time.Time
	Result       Result
	Notes        string
	CreatedAt    time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*HarnessInspection, error)
	ListByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) ([]*HarnessInspection, error)
	Create(ctx context.Context, data *HarnessInspection) error
}
