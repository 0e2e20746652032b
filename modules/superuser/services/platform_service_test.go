package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
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

type mockTenantRepository struct {
	rows map[uuid.UUID]*tenant.Tenant
}

func newMockTenantRepository() *mockTenantRepository {
	return &mockTenantRepository{rows: map[uuid.UUID]*tenant.Tenant{}}
}

func (m *mockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if t, ok := m.rows[id]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockTenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	out := make([]*tenant.Tenant, 0, len(m.rows))
	for _, t := range m.rows {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	m.rows[t.ID] = t
	return t, nil
}

func (m *mockTenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	m.rows[t.ID] = t
	return nil
}

func (m *mockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

type mockUserRepository struct {
	rows map[uuid.UUID]coreuser.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{rows: map[uuid.UUID]coreuser.User{}}
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (coreuser.User, error) {
	if u, ok := m.rows[id]; ok {
		return u, nil
	}
	return nil, coreuser.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (coreuser.User, error) {
	for _, u := range m.rows {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, coreuser.ErrUserNotFound
}

func (m *mockUserRepository) GetPaginated(ctx context.Context, params *coreuser.FindParams) ([]coreuser.User, error) {
	out := make([]coreuser.User, 0, len(m.rows))
	for _, u := range m.rows {
		if params.Role != "" && u.Role() != params.Role {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func (m *mockUserRepository) Create(ctx context.Context, data coreuser.User) (coreuser.User, error) {
	m.rows[data.ID()] = data
	return data, nil
}

func (m *mockUserRepository) Update(ctx context.Context, data coreuser.User) error {
	m.rows[data.ID()] = data
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

type mockSubscriptionRepository struct {
	subs map[uuid.UUID]subscription.Subscription
}

func newMockSubscriptionRepository() *mockSubscriptionRepository {
	return &mockSubscriptionRepository{subs: map[uuid.UUID]subscription.Subscription{}}
}

func (m *mockSubscriptionRepository) GetByTenant(ctx context.Context) (subscription.Subscription, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if sub, ok := m.subs[tenantID]; ok {
		return sub, nil
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, data subscription.Subscription) (subscription.Subscription, error) {
	m.subs[data.TenantID()] = data
	return data, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, data subscription.Subscription) error {
	m.subs[data.TenantID()] = data
	return nil
}

type mockNotifier struct {
	sent []*notification.Notification
}

func (m *mockNotifier) Notify(ctx context.Context, data *notification.Notification) error {
	m.sent = append(m.sent, data)
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeSuperuserFn
	authorizeSuperuserFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeSuperuserFn = prev })
}

func operatorCtx(t *testing.T) context.Context {
	t.Helper()
	platformTenant := uuid.New()
	op := coreuser.New(platformTenant, "ops@platform.test", "Platform", "Ops", coreuser.RoleSuperuser)
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, op)
	return composables.WithTenantID(ctx, platformTenant)
}

func newPlatformService(
	tenants *mockTenantRepository,
	users *mockUserRepository,
	subs *mockSubscriptionRepository,
	notifier *mockNotifier,
	publisher *stubPublisher,
) *PlatformService {
	return NewPlatformService(tenants, users, subs, notifier, publisher)
}

func TestPlatformService_GiftAccountProvisionsTrial(t *testing.T) {
	allowAll(t)

	tenants := newMockTenantRepository()
	users := newMockUserRepository()
	subs := newMockSubscriptionRepository()
	publisher := &stubPublisher{}
	svc := newPlatformService(tenants, users, subs, &mockNotifier{}, publisher)

	result, err := svc.GiftAccount(operatorCtx(t), &GiftAccountDTO{
		CompanyName: "Skyline Rope Access",
		Domain:      "skyline",
		AdminEmail:  "owner@skyline.test",
		FirstName:   "Dana",
		LastName:    "Reyes",
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)

	assert.True(t, result.Tenant.IsGift)
	assert.Equal(t, result.Tenant.ID, result.Admin.TenantID())
	assert.Equal(t, coreuser.RoleAdmin, result.Admin.Role())
	assert.Equal(t, subscription.PlanTrial, result.Subscription.Plan())
	assert.Equal(t, subscription.StatusActive, result.Subscription.Status())
	assert.True(t, result.Subscription.Amount().IsZero())

	require.Len(t, tenants.rows, 1)
	require.Len(t, users.rows, 1)
	require.Len(t, subs.subs, 1)
	assert.Len(t, publisher.events, 2)
}

func TestPlatformService_CreateStaffRejectsResidents(t *testing.T) {
	allowAll(t)

	tenants := newMockTenantRepository()
	existing := tenant.New("Facade Works", "facade")
	tenants.rows[existing.ID] = existing

	svc := newPlatformService(tenants, newMockUserRepository(), newMockSubscriptionRepository(), &mockNotifier{}, &stubPublisher{})
	_, err := svc.CreateStaff(operatorCtx(t), &StaffAccountDTO{
		TenantID:  existing.ID,
		Email:     "someone@facade.test",
		FirstName: "Robin",
		LastName:  "Cho",
		Role:      coreuser.RoleResident,
		Password:  "s3cret-pass",
	})
	require.ErrorIs(t, err, ErrStaffRoleInvalid)
}

func TestPlatformService_CreateStaffUnknownTenant(t *testing.T) {
	allowAll(t)

	svc := newPlatformService(newMockTenantRepository(), newMockUserRepository(), newMockSubscriptionRepository(), &mockNotifier{}, &stubPublisher{})
	_, err := svc.CreateStaff(operatorCtx(t), &StaffAccountDTO{
		TenantID:  uuid.New(),
		Email:     "someone@nowhere.test",
		FirstName: "Robin",
		LastName:  "Cho",
		Role:      coreuser.RoleManager,
		Password:  "s3cret-pass",
	})
	require.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestPlatformService_AnnounceBroadcastsToAllTenants(t *testing.T) {
	allowAll(t)

	tenants := newMockTenantRepository()
	users := newMockUserRepository()
	a := tenant.New("Alpha", "alpha")
	b := tenant.New("Beta", "beta")
	tenants.rows[a.ID] = a
	tenants.rows[b.ID] = b
	users.rows[uuid.New()] = coreuser.New(a.ID, "one@alpha.test", "One", "Alpha", coreuser.RoleAdmin)
	users.rows[uuid.New()] = coreuser.New(a.ID, "two@alpha.test", "Two", "Alpha", coreuser.RoleTechnician)
	users.rows[uuid.New()] = coreuser.New(b.ID, "one@beta.test", "One", "Beta", coreuser.RoleAdmin)

	notifier := &mockNotifier{}
	svc := newPlatformService(tenants, users, newMockSubscriptionRepository(), notifier, &stubPublisher{})

	delivered, err := svc.Announce(operatorCtx(t), &AnnouncementDTO{
		Title: "Scheduled maintenance",
		Body:  "The platform goes read-only on Saturday night.",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, delivered)
	assert.Len(t, notifier.sent, 3)
}

func TestPlatformService_AnnounceSingleTenant(t *testing.T) {
	allowAll(t)

	tenants := newMockTenantRepository()
	users := newMockUserRepository()
	a := tenant.New("Alpha", "alpha")
	b := tenant.New("Beta", "beta")
	tenants.rows[a.ID] = a
	tenants.rows[b.ID] = b
	users.rows[uuid.New()] = coreuser.New(a.ID, "one@alpha.test", "One", "Alpha", coreuser.RoleAdmin)
	users.rows[uuid.New()] = coreuser.New(b.ID, "one@beta.test", "One", "Beta", coreuser.RoleAdmin)

	notifier := &mockNotifier{}
	svc := newPlatformService(tenants, users, newMockSubscriptionRepository(), notifier, &stubPublisher{})

	delivered, err := svc.Announce(operatorCtx(t), &AnnouncementDTO{
		TenantID: &a.ID,
		Title:    "Hello Alpha",
		Body:     "Only you should see this.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, a.ID, notifier.sent[0].TenantID)
}

func TestPlatformService_DeleteAccount(t *testing.T) {
	allowAll(t)

	tenants := newMockTenantRepository()
	existing := tenant.New("Facade Works", "facade")
	tenants.rows[existing.ID] = existing

	svc := newPlatformService(tenants, newMockUserRepository(), newMockSubscriptionRepository(), &mockNotifier{}, &stubPublisher{})
	require.NoError(t, svc.DeleteAccount(operatorCtx(t), existing.ID))
	assert.Empty(t, tenants.rows)

	err := svc.DeleteAccount(operatorCtx(t), existing.ID)
	require.ErrorIs(t, err, tenant.ErrTenantNotFound)
}
