package worksession

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("work session not found")

// WorkSession is one technician's logged shift on a project.
type WorkSession struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ProjectID      uuid.UUID
	TechnicianID   uuid.UUID
	StartedAt      time.Time
	EndedAt        *time.Time
	DropsCompleted int
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UpdateDTO struct {
	StartedAt      *time.Time
	EndedAt        *time.Time
	DropsCompleted *int
	Notes          *string
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkSession, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*WorkSession, error)
	CountByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) (int64, error)
	Create(ctx context.Context, data *WorkSession) error
	Update(ctx context.Context, data *WorkSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}
