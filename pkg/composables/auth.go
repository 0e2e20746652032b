package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/pkg/constants"
)

var (
	ErrNoTenantID      = errors.New("no tenant id found in context")
	ErrNoUserFound     = errors.New("no user found in context")
	ErrInvalidPassword = errors.New("invalid password")
	ErrSessionNotFound = errors.New("session not found")
)

// AuthUser is the slice of the core user aggregate the shared infrastructure
// needs. The core module's user aggregate satisfies it.
type AuthUser interface {
	ID() uuid.UUID
	TenantID() uuid.UUID
	Email() string
	RoleName() string
}

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, ErrNoTenantID
	}
	return tenantID, nil
}

func WithUser(ctx context.Context, u AuthUser) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

func UseUser(ctx context.Context) (AuthUser, error) {
	u, ok := ctx.Value(constants.UserKey).(AuthUser)
	if !ok || u == nil {
		return nil, ErrNoUserFound
	}
	return u, nil
}
