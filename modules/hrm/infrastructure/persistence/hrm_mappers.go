package persistence

import (
	"database/sql"
	"time"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/hrm/infrastructure/persistence/models"
)

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toDomainEmployee(dbRow *models.Employee) employee.Employee {
	return employee.New(
		dbRow.TenantID,
		dbRow.FirstName,
		dbRow.LastName,
		dbRow.Email,
		employee.WithID(dbRow.ID),
		employee.WithConnectionStatus(employee.ConnectionStatus(dbRow.ConnectionStatus)),
		employee.WithTerminatedDate(nullableTime(dbRow.TerminatedDate)),
		employee.WithSuspendedAt(nullableTime(dbRow.SuspendedAt)),
		employee.WithIrataExpirationDate(nullableTime(dbRow.IrataExpirationDate)),
		employee.WithSpratExpirationDate(nullableTime(dbRow.SpratExpirationDate)),
		employee.WithDriversLicenseExpiry(nullableTime(dbRow.DriversLicenseExpiry)),
		employee.WithTimestamps(dbRow.CreatedAt, dbRow.UpdatedAt),
	)
}

func toDBEmployee(entity employee.Employee) *models.Employee {
	return &models.Employee{
		ID:                   entity.ID(),
		TenantID:             entity.TenantID(),
		FirstName:            entity.FirstName(),
		LastName:             entity.LastName(),
		Email:                entity.Email(),
		ConnectionStatus:     string(entity.ConnectionStatus()),
		TerminatedDate:       toNullTime(entity.TerminatedDate()),
		SuspendedAt:          toNullTime(entity.SuspendedAt()),
		IrataExpirationDate:  toNullTime(entity.IrataExpirationDate()),
		SpratExpirationDate:  toNullTime(entity.SpratExpirationDate()),
		DriversLicenseExpiry: toNullTime(entity.DriversLicenseExpiry()),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}
}
