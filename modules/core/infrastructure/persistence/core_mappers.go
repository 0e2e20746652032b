package persistence

import (
	"database/sql"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/session"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	"github.com/ropeworks/ropeworks/modules/core/infrastructure/persistence/models"
)

func toDomainUser(dbRow *models.User) (user.User, error) {
	role, err := user.ParseRole(dbRow.Role)
	if err != nil {
		return nil, err
	}
	opts := []user.Option{
		user.WithID(dbRow.ID),
		user.WithTimestamps(dbRow.CreatedAt, dbRow.UpdatedAt),
	}
	if dbRow.PasswordHash.Valid {
		opts = append(opts, user.WithPasswordHash(dbRow.PasswordHash.String))
	}
	if dbRow.LastLoginAt.Valid {
		t := dbRow.LastLoginAt.Time
		opts = append(opts, user.WithLastLoginAt(&t))
	}
	return user.New(
		dbRow.TenantID,
		dbRow.Email,
		dbRow.FirstName,
		dbRow.LastName,
		role,
		opts...,
	), nil
}

func toDBUser(entity user.User) *models.User {
	dbRow := &models.User{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		Email:     entity.Email(),
		FirstName: entity.FirstName(),
		LastName:  entity.LastName(),
		Role:      entity.RoleName(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
	if hash := entity.PasswordHash(); hash != "" {
		dbRow.PasswordHash = sql.NullString{String: hash, Valid: true}
	}
	if t := entity.LastLoginAt(); t != nil {
		dbRow.LastLoginAt = sql.NullTime{Time: *t, Valid: true}
	}
	return dbRow
}

func toDomainTenant(dbRow *models.Tenant) *tenant.Tenant {
	return &tenant.Tenant{
		ID:        dbRow.ID,
		Name:      dbRow.Name,
		Domain:    dbRow.Domain.String,
		IsGift:    dbRow.IsGift,
		CreatedAt: dbRow.CreatedAt,
		UpdatedAt: dbRow.UpdatedAt,
	}
}

func toDomainSession(dbRow *models.Session) *session.Session {
	return &session.Session{
		Token:     dbRow.Token,
		UserID:    dbRow.UserID,
		TenantID:  dbRow.TenantID,
		IP:        dbRow.IP,
		UserAgent: dbRow.UserAgent,
		ExpiresAt: dbRow.ExpiresAt,
		CreatedAt: dbRow.CreatedAt,
	}
}
