package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/testutils"
)

type mockNotificationRepository struct {
	rows map[uuid.UUID]*notification.Notification
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{rows: map[uuid.UUID]*notification.Notification{}}
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	if n, ok := m.rows[id]; ok {
		return n, nil
	}
	return nil, notification.ErrNotificationNotFound
}

func (m *mockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	out := make([]*notification.Notification, 0)
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range m.rows {
		if n.UserID == userID && !n.Read() {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) Create(ctx context.Context, data *notification.Notification) error {
	m.rows[data.ID] = data
	return nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	if n, ok := m.rows[id]; ok && n.ReadAt == nil {
		n.ReadAt = &readAt
	}
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error {
	for _, n := range m.rows {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &readAt
		}
	}
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeNotificationsFn
	authorizeNotificationsFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeNotificationsFn = prev })
}

func authedCtx(t *testing.T, tenantID uuid.UUID, u coreuser.User) context.Context {
	t.Helper()
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, u)
	return composables.WithTenantID(ctx, tenantID)
}

func seed(repo *mockNotificationRepository, tenantID, userID uuid.UUID, title string, read bool) *notification.Notification {
	n := &notification.Notification{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if read {
		now := time.Now()
		n.ReadAt = &now
	}
	repo.rows[n.ID] = n
	return n
}

func TestNotificationService_UnreadCount(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	u := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	repo := newMockNotificationRepository()
	seed(repo, tenantID, u.ID(), "a", false)
	seed(repo, tenantID, u.ID(), "b", true)
	seed(repo, tenantID, uuid.New(), "other user", false)

	svc := NewNotificationService(repo)
	count, err := svc.UnreadCount(authedCtx(t, tenantID, u))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	u := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	repo := newMockNotificationRepository()
	n := seed(repo, tenantID, u.ID(), "unread", false)

	svc := NewNotificationService(repo)
	updated, err := svc.MarkRead(authedCtx(t, tenantID, u), n.ID)
	require.NoError(t, err)
	assert.True(t, updated.Read())

	// Marking an already read row is a no-op, not an error.
	again, err := svc.MarkRead(authedCtx(t, tenantID, u), n.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ReadAt, again.ReadAt)
}

func TestNotificationService_MarkReadForeignRowHidden(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	u := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	repo := newMockNotificationRepository()
	n := seed(repo, tenantID, uuid.New(), "not yours", false)

	svc := NewNotificationService(repo)
	_, err := svc.MarkRead(authedCtx(t, tenantID, u), n.ID)
	require.ErrorIs(t, err, notification.ErrNotificationNotFound)
	assert.False(t, n.Read())
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	u := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	repo := newMockNotificationRepository()
	seed(repo, tenantID, u.ID(), "a", false)
	seed(repo, tenantID, u.ID(), "b", false)

	svc := NewNotificationService(repo)
	require.NoError(t, svc.MarkAllRead(authedCtx(t, tenantID, u)))

	count, err := svc.UnreadCount(authedCtx(t, tenantID, u))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationService_NotifyCreatesUnreadRow(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	repo := newMockNotificationRepository()
	svc := NewNotificationService(repo)

	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithTenantID(ctx, tenantID)
	err := svc.Notify(ctx, &notification.Notification{
		TenantID: tenantID,
		UserID:   userID,
		Title:    "Quiz passed",
		Body:     "You passed Rope Access Basics.",
	})
	require.NoError(t, err)
	require.Len(t, repo.rows, 1)
	for _, n := range repo.rows {
		assert.Equal(t, userID, n.UserID)
		assert.NotEqual(t, uuid.Nil, n.ID)
		assert.False(t, n.Read())
	}
}
