package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Plan      string
	Seats     int
	Status    string
	Amount    string
	PeriodEnd time.Time
	Addons    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddonDoc is the JSONB shape of one purchased addon.
type AddonDoc struct {
	Name        string    `json:"name"`
	Amount      string    `json:"amount"`
	PurchasedAt time.Time `json:"purchasedAt"`
}
