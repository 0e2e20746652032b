package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/entities/attempt"
	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/inspection"
	"github.com/ropeworks/ropeworks/modules/safety/domain/psr"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/testutils"
)

type mockEmployeeRepository struct {
	employees []employee.Employee
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
	return m.employees, nil
}

func (m *mockEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	return m.employees, nil
}

func (m *mockEmployeeRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.employees)), nil
}

func (m *mockEmployeeRepository) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	m.employees = append(m.employees, data)
	return data, nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, data employee.Employee) error {
	return nil
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockInspectionRepository struct {
	inspections []*inspection.HarnessInspection
}

func (m *mockInspectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*inspection.HarnessInspection, error) {
	for _, insp := range m.inspections {
		if insp.ID == id {
			return insp, nil
		}
	}
	return nil, inspection.ErrInspectionNotFound
}

func (m *mockInspectionRepository) ListByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) ([]*inspection.HarnessInspection, error) {
	out := make([]*inspection.HarnessInspection, 0)
	for _, insp := range m.inspections {
		if insp.TechnicianID == technicianID && !insp.InspectedAt.Before(since) {
			out = append(out, insp)
		}
	}
	return out, nil
}

func (m *mockInspectionRepository) Create(ctx context.Context, data *inspection.HarnessInspection) error {
	m.inspections = append(m.inspections, data)
	return nil
}

type mockQuizRepository struct {
	quizzes []quiz.Quiz
}

func (m *mockQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (quiz.Quiz, error) {
	for _, q := range m.quizzes {
		if q.ID() == id {
			return q, nil
		}
	}
	return nil, quiz.ErrQuizNotFound
}

func (m *mockQuizRepository) GetAll(ctx context.Context) ([]quiz.Quiz, error) {
	return m.quizzes, nil
}

func (m *mockQuizRepository) Create(ctx context.Context, data quiz.Quiz) (quiz.Quiz, error) {
	m.quizzes = append(m.quizzes, data)
	return data, nil
}

func (m *mockQuizRepository) Update(ctx context.Context, data quiz.Quiz) error {
	return nil
}

func (m *mockQuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockAttemptRepository struct {
	summaries []*attempt.Summary
}

func (m *mockAttemptRepository) Create(ctx context.Context, data *attempt.Attempt) error {
	return nil
}

func (m *mockAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Attempt, error) {
	return nil, nil
}

func (m *mockAttemptRepository) SummariesByUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Summary, error) {
	return m.summaries, nil
}

type mockWorkSessionRepository struct {
	count int64
}

func (m *mockWorkSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*worksession.WorkSession, error) {
	return nil, worksession.ErrSessionNotFound
}

func (m *mockWorkSessionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*worksession.WorkSession, error) {
	return nil, nil
}

func (m *mockWorkSessionRepository) CountByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) (int64, error) {
	return m.count, nil
}

func (m *mockWorkSessionRepository) Create(ctx context.Context, data *worksession.WorkSession) error {
	return nil
}

func (m *mockWorkSessionRepository) Update(ctx context.Context, data *worksession.WorkSession) error {
	return nil
}

func (m *mockWorkSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeSafetyFn
	authorizeSafetyFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeSafetyFn = prev })
}

func authedCtx(t *testing.T, tenantID uuid.UUID, u coreuser.User) context.Context {
	t.Helper()
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, u)
	return composables.WithTenantID(ctx, tenantID)
}

func passedInspections(technicianID uuid.UUID, now time.Time, count int) []*inspection.HarnessInspection {
	out := make([]*inspection.HarnessInspection, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &inspection.HarnessInspection{
			ID:           uuid.New(),
			TechnicianID: technicianID,
			InspectedAt:  now.AddDate(0, 0, -7*i),
			Result:       inspection.ResultPass,
		})
	}
	return out
}

func newPSRService(
	employees employee.Repository,
	inspections inspection.Repository,
	quizzes quiz.Repository,
	attempts attempt.Repository,
	sessions worksession.Repository,
	now time.Time,
) *PSRService {
	svc := NewPSRService(employees, inspections, quizzes, attempts, sessions)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPSRService_LinkedTechnicianFourComponents(t *testing.T) {
	allowAll(t)

	now := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)

	certValid := now.AddDate(1, 0, 0)
	emp := employee.New(tenantID, "Sam", "Ortiz", "tech@example.com",
		employee.WithIrataExpirationDate(&certValid))

	q := quiz.New(tenantID, quiz.CategorySafety, "Rope Access Basics", nil)
	svc := newPSRService(
		&mockEmployeeRepository{employees: []employee.Employee{emp}},
		&mockInspectionRepository{inspections: passedInspections(tech.ID(), now, 4)},
		&mockQuizRepository{quizzes: []quiz.Quiz{q}},
		&mockAttemptRepository{summaries: []*attempt.Summary{{QuizID: q.ID(), Passed: true}}},
		&mockWorkSessionRepository{count: 12},
		now,
	)

	rating, err := svc.Rating(authedCtx(t, tenantID, tech))
	require.NoError(t, err)

	assert.True(t, rating.IsLinkedToEmployer)
	require.Len(t, rating.Components, 4)
	for _, c := range rating.Components {
		assert.Equal(t, 25, c.Weight, "component %s", c.Name)
		assert.Equal(t, 100, c.Score, "component %s", c.Name)
	}
	assert.Equal(t, 100, rating.OverallScore)
	assert.Equal(t, "Excellent", rating.Status)
}

func TestPSRService_UnlinkedTechnicianReweighted(t *testing.T) {
	allowAll(t)

	now := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "freelance@example.com", "Ira", "Voss", coreuser.RoleTechnician)

	svc := newPSRService(
		&mockEmployeeRepository{},
		&mockInspectionRepository{inspections: passedInspections(tech.ID(), now, 4)},
		&mockQuizRepository{},
		&mockAttemptRepository{},
		&mockWorkSessionRepository{},
		now,
	)

	rating, err := svc.Rating(authedCtx(t, tenantID, tech))
	require.NoError(t, err)

	assert.False(t, rating.IsLinkedToEmployer)
	require.Len(t, rating.Components, 3)
	for _, c := range rating.Components {
		assert.NotEqual(t, psr.ComponentWorkHistory, c.Name)
		assert.Equal(t, 33, c.Weight)
	}
	// No employee record: certifications bottom out, inspections and the
	// empty quiz roster still count in full.
	assert.Equal(t, psr.ComponentCertifications, rating.Components[0].Name)
	assert.Equal(t, 25, rating.Components[0].Score)
	assert.Equal(t, 100, rating.Components[1].Score)
	assert.Equal(t, 100, rating.Components[2].Score)
	assert.Equal(t, 75, rating.OverallScore)
}

func TestPSRService_ExpiringCertScoresHalf(t *testing.T) {
	allowAll(t)

	now := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)

	expiring := now.AddDate(0, 0, 14)
	emp := employee.New(tenantID, "Sam", "Ortiz", "tech@example.com",
		employee.WithSpratExpirationDate(&expiring))

	svc := newPSRService(
		&mockEmployeeRepository{employees: []employee.Employee{emp}},
		&mockInspectionRepository{},
		&mockQuizRepository{},
		&mockAttemptRepository{},
		&mockWorkSessionRepository{},
		now,
	)

	rating, err := svc.Rating(authedCtx(t, tenantID, tech))
	require.NoError(t, err)
	require.Len(t, rating.Components, 4)
	assert.Equal(t, psr.ComponentCertifications, rating.Components[0].Name)
	assert.Equal(t, 50, rating.Components[0].Score)
	assert.Equal(t, "Needs Work", rating.Components[0].Status)
}

func TestPSRService_QuizComponentCountsPassesOnly(t *testing.T) {
	allowAll(t)

	now := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)

	qa := quiz.New(tenantID, quiz.CategorySafety, "Rope Access Basics", nil)
	qb := quiz.New(tenantID, quiz.CategoryCompany, "Site Induction", nil)
	svc := newPSRService(
		&mockEmployeeRepository{},
		&mockInspectionRepository{},
		&mockQuizRepository{quizzes: []quiz.Quiz{qa, qb}},
		&mockAttemptRepository{summaries: []*attempt.Summary{
			{QuizID: qa.ID(), Passed: true},
			{QuizID: qb.ID(), Passed: false},
		}},
		&mockWorkSessionRepository{},
		now,
	)

	rating, err := svc.Rating(authedCtx(t, tenantID, tech))
	require.NoError(t, err)
	require.Len(t, rating.Components, 3)
	assert.Equal(t, psr.ComponentQuizzes, rating.Components[2].Name)
	assert.Equal(t, 50, rating.Components[2].Score)
	assert.Equal(t, 1, rating.Components[2].Details["passed"])
	assert.Equal(t, 2, rating.Components[2].Details["assigned"])
}
