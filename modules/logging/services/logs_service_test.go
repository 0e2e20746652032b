package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/logging/domain/entities/actionlog"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/testutils"
)

type mockActionLogRepository struct {
	rows []*actionlog.ActionLog
}

func (m *mockActionLogRepository) matches(entry *actionlog.ActionLog, params *actionlog.FindParams) bool {
	if params.UserID != nil && (entry.UserID == nil || *entry.UserID != *params.UserID) {
		return false
	}
	if params.Method != "" && entry.Method != params.Method {
		return false
	}
	return true
}

func (m *mockActionLogRepository) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	out := make([]*actionlog.ActionLog, 0)
	for _, entry := range m.rows {
		if m.matches(entry, params) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockActionLogRepository) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	var count int64
	for _, entry := range m.rows {
		if m.matches(entry, params) {
			count++
		}
	}
	return count, nil
}

func (m *mockActionLogRepository) Create(ctx context.Context, entry *actionlog.ActionLog) error {
	entry.ID = uint(len(m.rows) + 1)
	m.rows = append(m.rows, entry)
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeLoggingFn
	authorizeLoggingFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeLoggingFn = prev })
}

func denyAll(t *testing.T) {
	t.Helper()
	prev := authorizeLoggingFn
	authorizeLoggingFn = func(ctx context.Context, object, action string) error {
		return authz.ErrForbidden
	}
	t.Cleanup(func() { authorizeLoggingFn = prev })
}

func authedCtx(t *testing.T, tenantID uuid.UUID, u coreuser.User) context.Context {
	t.Helper()
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, u)
	return composables.WithTenantID(ctx, tenantID)
}

func TestLogsService_ListActionLogs(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	admin := coreuser.New(tenantID, "admin@example.com", "Ada", "Root", coreuser.RoleAdmin)
	techID := uuid.New()
	repo := &mockActionLogRepository{}
	repo.rows = []*actionlog.ActionLog{
		{ID: 1, TenantID: tenantID, UserID: &techID, Method: "POST", Path: "/api/work-sessions", CreatedAt: time.Now()},
		{ID: 2, TenantID: tenantID, UserID: &techID, Method: "DELETE", Path: "/api/gear/abc", CreatedAt: time.Now()},
	}

	svc := NewLogsService(repo)
	entries, total, err := svc.ListActionLogs(authedCtx(t, tenantID, admin), &actionlog.FindParams{Method: "POST"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/work-sessions", entries[0].Path)
}

func TestLogsService_ListActionLogsDenied(t *testing.T) {
	denyAll(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	svc := NewLogsService(&mockActionLogRepository{})
	_, _, err := svc.ListActionLogs(authedCtx(t, tenantID, tech), nil)
	require.Error(t, err)
	assert.True(t, authz.IsForbidden(err))
}

func TestLogsService_CreateActionLogRequiresPayload(t *testing.T) {
	svc := NewLogsService(&mockActionLogRepository{})
	require.Error(t, svc.CreateActionLog(context.Background(), nil))
}
