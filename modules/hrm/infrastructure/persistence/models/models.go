package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID                   uuid.UUID
	TenantID             uuid.UUID
	FirstName            string
	LastName             string
	Email                string
	ConnectionStatus     string
	TerminatedDate       sql.NullTime
	SuspendedAt          sql.NullTime
	IrataExpirationDate  sql.NullTime
	SpratExpirationDate  sql.NullTime
	DriversLicenseExpiry sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
