package employee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type ConnectionStatus string

const (
	StatusConnected ConnectionStatus = "connected"
	StatusPending   ConnectionStatus = "pending"
	StatusSuspended ConnectionStatus = "suspended"
)

type FindParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetAll(ctx context.Context) ([]Employee, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Employee, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, data Employee) (Employee, error)
	Update(ctx context.Context, data Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Employee is a rope access technician on a company's roster. License expiry
// dates are date-only values normalized to midnight UTC.
type Employee interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	FirstName() string
	LastName() string
	FullName() string
	Email() string
	ConnectionStatus() ConnectionStatus
	TerminatedDate() *time.Time
	SuspendedAt() *time.Time
	IrataExpirationDate() *time.Time
	SpratExpirationDate() *time.Time
	DriversLicenseExpiry() *time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time

	// Active reports whether the employee participates in compliance
	// scanning. Terminated or suspended employees are skipped entirely.
	Active() bool
}

type employee struct {
	id                   uuid.UUID
	tenantID             uuid.UUID
	firstName            string
	lastName             string
	email                string
	connectionStatus     ConnectionStatus
	terminatedDate       *time.Time
	suspendedAt          *time.Time
	irataExpirationDate  *time.Time
	spratExpirationDate  *time.Time
	driversLicenseExpiry *time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

func New(tenantID uuid.UUID, firstName, lastName, email string, opts ...Option) Employee {
	e := &employee{
		id:               uuid.New(),
		tenantID:         tenantID,
		firstName:        firstName,
		lastName:         lastName,
		email:            email,
		connectionStatus: StatusConnected,
		createdAt:        time.Now(),
		updatedAt:        time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*employee)

func WithID(id uuid.UUID) Option {
	return func(e *employee) {
		if id != uuid.Nil {
			e.id = id
		}
	}
}

func WithConnectionStatus(status ConnectionStatus) Option {
	return func(e *employee) {
		if status != "" {
			e.connectionStatus = status
		}
	}
}

func WithTerminatedDate(t *time.Time) Option {
	return func(e *employee) {
		e.terminatedDate = t
	}
}

func WithSuspendedAt(t *time.Time) Option {
	return func(e *employee) {
		e.suspendedAt = t
	}
}

func WithIrataExpirationDate(t *time.Time) Option {
	return func(e *employee) {
		e.irataExpirationDate = t
	}
}

func WithSpratExpirationDate(t *time.Time) Option {
	return func(e *employee) {
		e.spratExpirationDate = t
	}
}

func WithDriversLicenseExpiry(t *time.Time) Option {
	return func(e *employee) {
		e.driversLicenseExpiry = t
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(e *employee) {
		if !createdAt.IsZero() {
			e.createdAt = createdAt
		}
		if !updatedAt.IsZero() {
			e.updatedAt = updatedAt
		}
	}
}

func (e *employee) ID() uuid.UUID                      { return e.id }
func (e *employee) TenantID() uuid.UUID                { return e.tenantID }
func (e *employee) FirstName() string                  { return e.firstName }
func (e *employee) LastName() string                   { return e.lastName }
func (e *employee) FullName() string                   { return e.firstName + " " + e.lastName }
func (e *employee) Email() string                      { return e.email }
func (e *employee) ConnectionStatus() ConnectionStatus { return e.connectionStatus }
func (e *employee) TerminatedDate() *time.Time         { return e.terminatedDate }
func (e *employee) SuspendedAt() *time.Time            { return e.suspendedAt }
func (e *employee) IrataExpirationDate() *time.Time    { return e.irataExpirationDate }
func (e *employee) SpratExpirationDate() *time.Time    { return e.spratExpirationDate }
func (e *employee) DriversLicenseExpiry() *time.Time   { return e.driversLicenseExpiry }
func (e *employee) CreatedAt() time.Time               { return e.createdAt }
func (e *employee) UpdatedAt() time.Time               { return e.updatedAt }

func (e *employee) Active() bool {
	return e.terminatedDate == nil &&
		e.suspendedAt == nil &&
		e.connectionStatus != StatusSuspended
}
