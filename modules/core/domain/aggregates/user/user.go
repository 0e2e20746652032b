package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Role is the closed set of account roles. Capabilities per role live in the
// authz policy table, not in scattered string comparisons.
type Role string

const (
	RoleSuperuser       Role = "superuser"
	RoleAdmin           Role = "admin"
	RoleManager         Role = "manager"
	RoleTechnician      Role = "technician"
	RoleResident        Role = "resident"
	RolePropertyManager Role = "property_manager"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleSuperuser:
		return RoleSuperuser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleTechnician:
		return RoleTechnician, nil
	case RoleResident:
		return RoleResident, nil
	case RolePropertyManager:
		return RolePropertyManager, nil
	}
	return "", errors.New("unknown role: " + raw)
}

type FindParams struct {
	Role   Role
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, data User) (User, error)
	Update(ctx context.Context, data User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type User interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Email() string
	FirstName() string
	LastName() string
	Role() Role
	RoleName() string
	PasswordHash() string
	LastLoginAt() *time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time

	CheckPassword(password string) bool
	WithLastLoginAt(t time.Time) User
}

type user struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	email        string
	firstName    string
	lastName     string
	role         Role
	passwordHash string
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func New(tenantID uuid.UUID, email, firstName, lastName string, role Role, opts ...Option) User {
	u := &user{
		id:        uuid.New(),
		tenantID:  tenantID,
		email:     strings.ToLower(strings.TrimSpace(email)),
		firstName: firstName,
		lastName:  lastName,
		role:      role,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type Option func(*user)

func WithID(id uuid.UUID) Option {
	return func(u *user) {
		if id != uuid.Nil {
			u.id = id
		}
	}
}

func WithPasswordHash(hash string) Option {
	return func(u *user) {
		u.passwordHash = hash
	}
}

func WithLastLoginAt(t *time.Time) Option {
	return func(u *user) {
		u.lastLoginAt = t
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(u *user) {
		if !createdAt.IsZero() {
			u.createdAt = createdAt
		}
		if !updatedAt.IsZero() {
			u.updatedAt = updatedAt
		}
	}
}

// HashPassword derives the bcrypt hash stored on the aggregate.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (u *user) ID() uuid.UUID           { return u.id }
func (u *user) TenantID() uuid.UUID     { return u.tenantID }
func (u *user) Email() string           { return u.email }
func (u *user) FirstName() string       { return u.firstName }
func (u *user) LastName() string        { return u.lastName }
func (u *user) Role() Role              { return u.role }
func (u *user) RoleName() string        { return string(u.role) }
func (u *user) PasswordHash() string    { return u.passwordHash }
func (u *user) LastLoginAt() *time.Time { return u.lastLoginAt }
func (u *user) CreatedAt() time.Time    { return u.createdAt }
func (u *user) UpdatedAt() time.Time    { return u.updatedAt }

func (u *user) CheckPassword(password string) bool {
	if u.passwordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

func (u *user) WithLastLoginAt(t time.Time) User {
	clone := *u
	clone.lastLoginAt = &t
	clone.updatedAt = time.Now()
	return &clone
}
