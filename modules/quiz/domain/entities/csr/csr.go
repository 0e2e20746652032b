package csr

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only CSR (Company Safety Rating) ledger row. Points are
// only ever added; totals are derived by summation.
type Entry struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Points    int
	Reason    string
	CreatedAt time.Time
}

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	TotalPoints(ctx context.Context) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*Entry, error)
}
