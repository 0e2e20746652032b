package actionlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActionLog is one captured mutating request. Rows are written by middleware
// after the response is sent, so a failed insert never blocks the request.
type ActionLog struct {
	ID        uint
	TenantID  uuid.UUID
	UserID    *uuid.UUID
	Method    string
	Path      string
	UserAgent string
	IP        string
	CreatedAt time.Time
}

type FindParams struct {
	UserID *uuid.UUID
	Method string
	Path   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*ActionLog, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, log *ActionLog) error
}
