package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/warehouse/domain/entities/gear"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/testutils"
)

type stubPublisher struct {
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.events = append(p.events, args...)
}
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

type mockGearRepository struct {
	items map[uuid.UUID]*gear.Item
}

func (m *mockGearRepository) GetByID(ctx context.Context, id uuid.UUID) (*gear.Item, error) {
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, gear.ErrGearNotFound
}

func (m *mockGearRepository) GetPaginated(ctx context.Context, params *gear.FindParams) ([]*gear.Item, error) {
	out := make([]*gear.Item, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockGearRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *mockGearRepository) FirstAvailable(ctx context.Context, gearType string) (*gear.Item, error) {
	candidates := make([]*gear.Item, 0)
	for _, item := range m.items {
		if item.Status != gear.StatusAvailable {
			continue
		}
		if gearType != "" && item.Type != gearType {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return nil, gear.ErrNoGearAvailable
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}

func (m *mockGearRepository) Create(ctx context.Context, data *gear.Item) error {
	m.items[data.ID] = data
	return nil
}

func (m *mockGearRepository) Update(ctx context.Context, data *gear.Item) error {
	m.items[data.ID] = data
	return nil
}

func (m *mockGearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeWarehouseFn
	authorizeWarehouseFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeWarehouseFn = prev })
}

func denyAll(t *testing.T) {
	t.Helper()
	prev := authorizeWarehouseFn
	authorizeWarehouseFn = func(ctx context.Context, object, action string) error {
		return authz.ErrForbidden
	}
	t.Cleanup(func() { authorizeWarehouseFn = prev })
}

func authedCtx(t *testing.T, tenantID uuid.UUID, u coreuser.User) context.Context {
	t.Helper()
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, u)
	return composables.WithTenantID(ctx, tenantID)
}

func availableItem(tenantID uuid.UUID, serial, gearType string, createdAt time.Time) *gear.Item {
	return &gear.Item{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SerialNumber: serial,
		Type:         gearType,
		Status:       gear.StatusAvailable,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestGearService_SelfAssignClaimsOldestAvailable(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	older := availableItem(tenantID, "RW-001", "harness", time.Now().Add(-48*time.Hour))
	newer := availableItem(tenantID, "RW-002", "harness", time.Now().Add(-1*time.Hour))

	repo := &mockGearRepository{items: map[uuid.UUID]*gear.Item{older.ID: older, newer.ID: newer}}
	publisher := &stubPublisher{}
	svc := NewGearService(repo, publisher)

	assigned, err := svc.SelfAssign(authedCtx(t, tenantID, tech), "harness")
	require.NoError(t, err)
	assert.Equal(t, older.ID, assigned.ID)
	assert.Equal(t, gear.StatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, tech.ID(), *assigned.AssignedTo)

	require.Len(t, publisher.events, 1)
	assert.IsType(t, gear.AssignedEvent{}, publisher.events[0])
}

func TestGearService_SelfAssignNothingAvailable(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	taken := availableItem(tenantID, "RW-001", "harness", time.Now())
	taken.Status = gear.StatusAssigned

	repo := &mockGearRepository{items: map[uuid.UUID]*gear.Item{taken.ID: taken}}
	publisher := &stubPublisher{}
	svc := NewGearService(repo, publisher)

	_, err := svc.SelfAssign(authedCtx(t, tenantID, tech), "harness")
	require.ErrorIs(t, err, gear.ErrNoGearAvailable)
	assert.Empty(t, publisher.events)
}

func TestGearService_SelfAssignRespectsTypeFilter(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	rope := availableItem(tenantID, "RW-010", "rope", time.Now().Add(-72*time.Hour))

	repo := &mockGearRepository{items: map[uuid.UUID]*gear.Item{rope.ID: rope}}
	svc := NewGearService(repo, &stubPublisher{})

	_, err := svc.SelfAssign(authedCtx(t, tenantID, tech), "harness")
	require.ErrorIs(t, err, gear.ErrNoGearAvailable)

	assigned, err := svc.SelfAssign(authedCtx(t, tenantID, tech), "rope")
	require.NoError(t, err)
	assert.Equal(t, rope.ID, assigned.ID)
}

func TestGearService_SelfAssignDenied(t *testing.T) {
	denyAll(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	svc := NewGearService(&mockGearRepository{items: map[uuid.UUID]*gear.Item{}}, &stubPublisher{})

	_, err := svc.SelfAssign(authedCtx(t, tenantID, tech), "")
	require.Error(t, err)
	assert.True(t, authz.IsForbidden(err))
}
