package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadyCanceled      = errors.New("subscription already canceled")
	ErrNotCanceled          = errors.New("subscription is not canceled")
	ErrAlreadySubscribed    = errors.New("tenant already has a subscription")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

type Plan string

const (
	PlanTrial    Plan = "trial"
	PlanStandard Plan = "standard"
	PlanPro      Plan = "pro"
)

// Addon is an extra purchased on top of the base plan.
type Addon struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	PurchasedAt time.Time       `json:"purchasedAt"`
}

type Repository interface {
	GetByTenant(ctx context.Context) (Subscription, error)
	Create(ctx context.Context, data Subscription) (Subscription, error)
	Update(ctx context.Context, data Subscription) error
}

// Subscription is a tenant's billing state. One row per tenant; plan changes
// mutate the row rather than inserting history.
type Subscription interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Plan() Plan
	Seats() int
	Status() Status
	Amount() decimal.Decimal
	PeriodEnd() time.Time
	Addons() []Addon
	CreatedAt() time.Time
	UpdatedAt() time.Time

	// Cancel marks the subscription to lapse at the period end. Canceling
	// twice is a conflict, not a no-op, so clients can surface the race.
	Cancel() (Subscription, error)
	Reactivate() (Subscription, error)
	WithAddon(addon Addon) Subscription
	WithStatus(status Status) Subscription
	WithPeriodEnd(periodEnd time.Time) Subscription
}

type subscriptionImpl struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	plan      Plan
	seats     int
	status    Status
	amount    decimal.Decimal
	periodEnd time.Time
	addons    []Addon
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, plan Plan, seats int, amount decimal.Decimal, periodEnd time.Time, opts ...Option) Subscription {
	s := &subscriptionImpl{
		id:        uuid.New(),
		tenantID:  tenantID,
		plan:      plan,
		seats:     seats,
		status:    StatusActive,
		amount:    amount,
		periodEnd: periodEnd,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*subscriptionImpl)

func WithID(id uuid.UUID) Option {
	return func(s *subscriptionImpl) {
		if id != uuid.Nil {
			s.id = id
		}
	}
}

func WithStatus(status Status) Option {
	return func(s *subscriptionImpl) {
		if status != "" {
			s.status = status
		}
	}
}

func WithAddons(addons []Addon) Option {
	return func(s *subscriptionImpl) {
		s.addons = addons
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(s *subscriptionImpl) {
		if !createdAt.IsZero() {
			s.createdAt = createdAt
		}
		if !updatedAt.IsZero() {
			s.updatedAt = updatedAt
		}
	}
}

func (s *subscriptionImpl) ID() uuid.UUID           { return s.id }
func (s *subscriptionImpl) TenantID() uuid.UUID     { return s.tenantID }
func (s *subscriptionImpl) Plan() Plan              { return s.plan }
func (s *subscriptionImpl) Seats() int              { return s.seats }
func (s *subscriptionImpl) Status() Status          { return s.status }
func (s *subscriptionImpl) Amount() decimal.Decimal { return s.amount }
func (s *subscriptionImpl) PeriodEnd() time.Time    { return s.periodEnd }
func (s *subscriptionImpl) Addons() []Addon         { return s.addons }
func (s *subscriptionImpl) CreatedAt() time.Time    { return s.createdAt }
func (s *subscriptionImpl) UpdatedAt() time.Time    { return s.updatedAt }

func (s *subscriptionImpl) Cancel() (Subscription, error) {
	if s.status == StatusCanceled {
		return nil, ErrAlreadyCanceled
	}
	clone := *s
	clone.status = StatusCanceled
	clone.updatedAt = time.Now()
	return &clone, nil
}

func (s *subscriptionImpl) Reactivate() (Subscription, error) {
	if s.status != StatusCanceled {
		return nil, ErrNotCanceled
	}
	clone := *s
	clone.status = StatusActive
	clone.updatedAt = time.Now()
	return &clone, nil
}

func (s *subscriptionImpl) WithAddon(addon Addon) Subscription {
	clone := *s
	clone.addons = append(append([]Addon{}, s.addons...), addon)
	clone.updatedAt = time.Now()
	return &clone
}

func (s *subscriptionImpl) WithStatus(status Status) Subscription {
	clone := *s
	clone.status = status
	clone.updatedAt = time.Now()
	return &clone
}

func (s *subscriptionImpl) WithPeriodEnd(periodEnd time.Time) Subscription {
	clone := *s
	clone.periodEnd = periodEnd
	clone.updatedAt = time.Now()
	return &clone
}
