package gear

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGearNotFound    = errors.New("gear item not found")
	ErrNoGearAvailable = errors.New("no gear available for assignment")
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusAssigned  Status = "assigned"
	StatusRetired   Status = "retired"
)

// Item is one serialized piece of rope-access equipment.
type Item struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	SerialNumber string
	Type         string
	Status       Status
	AssignedTo   *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type FindParams struct {
	Type   string
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Item, error)
	Count(ctx context.Context) (int64, error)
	// FirstAvailable returns the oldest available item, optionally filtered
	// by type, locking the row for the caller's transaction.
	FirstAvailable(ctx context.Context, gearType string) (*Item, error)
	Create(ctx context.Context, data *Item) error
	Update(ctx context.Context, data *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
