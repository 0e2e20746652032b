package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/ropeworks/ropeworks/modules/logging/domain/entities/actionlog"
	"github.com/ropeworks/ropeworks/modules/logging/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

type LogsService struct {
	actionLogs actionlog.Repository
}

func NewLogsService(actionLogs actionlog.Repository) *LogsService {
	return &LogsService{actionLogs: actionLogs}
}

func (s *LogsService) ListActionLogs(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, int64, error) {
	if err := authorizeLoggingFn(ctx, permissions.ResourceActionLogs, permissions.ActionRead); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &actionlog.FindParams{}
	}
	type page struct {
		entries []*actionlog.ActionLog
		total   int64
	}
	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*page, error) {
		entries, err := s.actionLogs.List(txCtx, params)
		if err != nil {
			return nil, err
		}
		total, err := s.actionLogs.Count(txCtx, params)
		if err != nil {
			return nil, err
		}
		return &page{entries: entries, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result.entries, result.total, nil
}

// CreateActionLog is called by middleware with the transaction already open.
// It deliberately skips the authz guard: the row records what the user did,
// not something the user asked to read.
func (s *LogsService) CreateActionLog(ctx context.Context, entry *actionlog.ActionLog) error {
	if entry == nil {
		return errors.New("action log payload is required")
	}
	return s.actionLogs.Create(ctx, entry)
}
