package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProjectNotFound = errors.New("project not found")

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on_hold"
)

type FindParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Project, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, data Project) (Project, error)
	Update(ctx context.Context, data Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Project is a building under contract. DropsTotal is the number of rope
// descents the full job requires; DropsCompleted advances as work sessions
// are logged.
type Project interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Name() string
	Address() string
	Status() Status
	DropsTotal() int
	DropsCompleted() int
	CreatedAt() time.Time
	UpdatedAt() time.Time

	WithProgress(dropsCompleted int) Project
	WithStatus(status Status) Project
}

type projectImpl struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	name           string
	address        string
	status         Status
	dropsTotal     int
	dropsCompleted int
	createdAt      time.Time
	updatedAt      time.Time
}

func New(tenantID uuid.UUID, name, address string, dropsTotal int, opts ...Option) Project {
	p := &projectImpl{
		id:         uuid.New(),
		tenantID:   tenantID,
		name:       name,
		address:    address,
		status:     StatusActive,
		dropsTotal: dropsTotal,
		createdAt:  time.Now(),
		updatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type Option func(*projectImpl)

func WithID(id uuid.UUID) Option {
	return func(p *projectImpl) {
		if id != uuid.Nil {
			p.id = id
		}
	}
}

func WithStatus(status Status) Option {
	return func(p *projectImpl) {
		if status != "" {
			p.status = status
		}
	}
}

func WithDropsCompleted(n int) Option {
	return func(p *projectImpl) {
		p.dropsCompleted = n
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(p *projectImpl) {
		if !createdAt.IsZero() {
			p.createdAt = createdAt
		}
		if !updatedAt.IsZero() {
			p.updatedAt = updatedAt
		}
	}
}

func (p *projectImpl) ID() uuid.UUID        { return p.id }
func (p *projectImpl) TenantID() uuid.UUID  { return p.tenantID }
func (p *projectImpl) Name() string         { return p.name }
func (p *projectImpl) Address() string      { return p.address }
func (p *projectImpl) Status() Status       { return p.status }
func (p *projectImpl) DropsTotal() int      { return p.dropsTotal }
func (p *projectImpl) DropsCompleted() int  { return p.dropsCompleted }
func (p *projectImpl) CreatedAt() time.Time { return p.createdAt }
func (p *projectImpl) UpdatedAt() time.Time { return p.updatedAt }

func (p *projectImpl) WithProgress(dropsCompleted int) Project {
	clone := *p
	clone.dropsCompleted = dropsCompleted
	clone.updatedAt = time.Now()
	return &clone
}

func (p *projectImpl) WithStatus(status Status) Project {
	clone := *p
	clone.status = status
	clone.updatedAt = time.Now()
	return &clone
}
