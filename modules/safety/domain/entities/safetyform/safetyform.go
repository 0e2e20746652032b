package safetyform

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrFormNotFound = errors.New("safety form not found")

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Form is a submitted safety-compliance document such as a rescue plan or a
// toolbox talk record.
type Form struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	TechnicianID uuid.UUID
	DocumentType string
	Status       Status
	SubmittedAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Form, error)
	ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]*Form, error)
	Create(ctx context.Context, data *Form) error
	Update(ctx context.Context, data *Form) error
}
