package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/pkg/authz"
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

type mockEmployeeRepository struct {
	employees []employee.Employee
	getAllErr error
	created   []employee.Employee
	deleted   []uuid.UUID
}

func (m *mockEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	for _, e := range m.employees {
		if e.ID() == id {
			return e, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, e := range m.employees {
		if e.Email() == email {
			return e, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.employees, nil
}

func (m *mockEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	return m.employees, nil
}

func (m *mockEmployeeRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.employees)), nil
}

func (m *mockEmployeeRepository) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	m.created = append(m.created, data)
	m.employees = append(m.employees, data)
	return data, nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, data employee.Employee) error {
	return nil
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeHRMFn
	authorizeHRMFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeHRMFn = prev })
}

func denyAll(t *testing.T) {
	t.Helper()
	prev := authorizeHRMFn
	authorizeHRMFn = func(ctx context.Context, object, action string) error {
		return authz.ErrForbidden
	}
	t.Cleanup(func() { authorizeHRMFn = prev })
}

func testCtx() context.Context {
	return testutils.WithNoopTx(context.Background())
}

func TestEmployeeService_ExpiringLicenses(t *testing.T) {
	allowAll(t)

	today := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	soon := today.AddDate(0, 0, 12)
	far := today.AddDate(0, 0, 45)

	repo := &mockEmployeeRepository{
		employees: []employee.Employee{
			employee.New(uuid.New(), "Ada", "Nguyen", "ada@example.com",
				employee.WithIrataExpirationDate(&soon)),
			employee.New(uuid.New(), "Bo", "Marsh", "bo@example.com",
				employee.WithSpratExpirationDate(&far)),
		},
	}
	svc := NewEmployeeService(repo, &stubPublisher{})
	svc.now = func() time.Time { return today }

	report, err := svc.ExpiringLicenses(testCtx())
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, 12, report.Findings[0].DaysRemaining)
	assert.Equal(t, 1, report.UniqueEmployeeCount)
}

func TestEmployeeService_ExpiringLicensesDenied(t *testing.T) {
	denyAll(t)

	svc := NewEmployeeService(&mockEmployeeRepository{}, &stubPublisher{})
	_, err := svc.ExpiringLicenses(testCtx())
	require.Error(t, err)
	assert.True(t, authz.IsForbidden(err))
}

func TestEmployeeService_CreatePublishesEvent(t *testing.T) {
	allowAll(t)

	repo := &mockEmployeeRepository{}
	publisher := &stubPublisher{}
	svc := NewEmployeeService(repo, publisher)

	created, err := svc.Create(testCtx(), employee.New(uuid.New(), "Ada", "Nguyen", "ada@example.com"))
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	require.Len(t, publisher.events, 1)
	assert.IsType(t, employee.CreatedEvent{}, publisher.events[0])
	assert.Equal(t, created.ID(), publisher.events[0].(employee.CreatedEvent).Result.ID())
}
