package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTenantNotFound = errors.New("tenant not found")

// Tenant is one contracting company on the platform.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	IsGift    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

func New(name, domain string) *Tenant {
	return &Tenant{
		ID:        uuid.New(),
		Name:      name,
		Domain:    domain,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
