package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/projects/domain/aggregates/project"
	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/projects/permissions"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
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

var _ eventbus.EventBus = (*stubPublisher)(nil)

type mockProjectRepository struct {
	projects map[uuid.UUID]project.Project
	updated  []project.Project
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, project.ErrProjectNotFound
}

func (m *mockProjectRepository) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	out := make([]project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.projects)), nil
}

func (m *mockProjectRepository) Create(ctx context.Context, data project.Project) (project.Project, error) {
	m.projects[data.ID()] = data
	return data, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, data project.Project) error {
	m.projects[data.ID()] = data
	m.updated = append(m.updated, data)
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.projects, id)
	return nil
}

type mockWorkSessionRepository struct {
	sessions map[uuid.UUID]*worksession.WorkSession
}

func (m *mockWorkSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*worksession.WorkSession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, worksession.ErrSessionNotFound
}

func (m *mockWorkSessionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*worksession.WorkSession, error) {
	out := make([]*worksession.WorkSession, 0)
	for _, s := range m.sessions {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockWorkSessionRepository) CountByTechnicianSince(ctx context.Context, technicianID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	for _, s := range m.sessions {
		if s.TechnicianID == technicianID && !s.StartedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockWorkSessionRepository) Create(ctx context.Context, data *worksession.WorkSession) error {
	m.sessions[data.ID] = data
	return nil
}

func (m *mockWorkSessionRepository) Update(ctx context.Context, data *worksession.WorkSession) error {
	m.sessions[data.ID] = data
	return nil
}

func (m *mockWorkSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.sessions, id)
	return nil
}

func allowAll(t *testing.T) {
	t.Helper()
	prev := authorizeProjectsFn
	authorizeProjectsFn = func(ctx context.Context, object, action string) error { return nil }
	t.Cleanup(func() { authorizeProjectsFn = prev })
}

// allowOwnOnly mirrors the technician policy: regular actions pass, the
// manage action does not.
func allowOwnOnly(t *testing.T) {
	t.Helper()
	prev := authorizeProjectsFn
	authorizeProjectsFn = func(ctx context.Context, object, action string) error {
		if action == permissions.ActionManage {
			return authz.ErrForbidden
		}
		return nil
	}
	t.Cleanup(func() { authorizeProjectsFn = prev })
}

func authedCtx(t *testing.T, tenantID uuid.UUID, u coreuser.User) context.Context {
	t.Helper()
	ctx := testutils.WithNoopTx(context.Background())
	ctx = composables.WithUser(ctx, u)
	return composables.WithTenantID(ctx, tenantID)
}

func intPtr(n int) *int { return &n }

func TestWorkSessionService_LogAdvancesProjectProgress(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	p := project.New(tenantID, "Harbour Tower", "200 Bay St", 40)

	projects := &mockProjectRepository{projects: map[uuid.UUID]project.Project{p.ID(): p}}
	sessions := &mockWorkSessionRepository{sessions: map[uuid.UUID]*worksession.WorkSession{}}
	publisher := &stubPublisher{}
	svc := NewWorkSessionService(sessions, projects, publisher)

	logged, err := svc.Log(authedCtx(t, tenantID, tech), &worksession.WorkSession{
		ProjectID:      p.ID(),
		StartedAt:      time.Now().Add(-8 * time.Hour),
		DropsCompleted: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, tech.ID(), logged.TechnicianID)
	assert.Equal(t, tenantID, logged.TenantID)

	require.Len(t, projects.updated, 1)
	assert.Equal(t, 6, projects.updated[0].DropsCompleted())

	require.Len(t, publisher.events, 1)
	assert.IsType(t, worksession.LoggedEvent{}, publisher.events[0])
}

func TestWorkSessionService_UpdateOwnSession(t *testing.T) {
	allowOwnOnly(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	p := project.New(tenantID, "Harbour Tower", "200 Bay St", 40)
	sess := &worksession.WorkSession{
		ID:             uuid.New(),
		TenantID:       tenantID,
		ProjectID:      p.ID(),
		TechnicianID:   tech.ID(),
		StartedAt:      time.Now().Add(-8 * time.Hour),
		DropsCompleted: 4,
	}

	projects := &mockProjectRepository{projects: map[uuid.UUID]project.Project{p.ID(): p}}
	sessions := &mockWorkSessionRepository{sessions: map[uuid.UUID]*worksession.WorkSession{sess.ID: sess}}
	svc := NewWorkSessionService(sessions, projects, &stubPublisher{})

	updated, err := svc.Update(authedCtx(t, tenantID, tech), sess.ID, &worksession.UpdateDTO{
		DropsCompleted: intPtr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.DropsCompleted)

	require.Len(t, projects.updated, 1)
	assert.Equal(t, 7, projects.updated[0].DropsCompleted())
}

func TestWorkSessionService_UpdateForeignSessionForbidden(t *testing.T) {
	allowOwnOnly(t)

	tenantID := uuid.New()
	tech := coreuser.New(tenantID, "tech@example.com", "Sam", "Ortiz", coreuser.RoleTechnician)
	other := uuid.New()
	sess := &worksession.WorkSession{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ProjectID:    uuid.New(),
		TechnicianID: other,
		StartedAt:    time.Now().Add(-8 * time.Hour),
	}

	sessions := &mockWorkSessionRepository{sessions: map[uuid.UUID]*worksession.WorkSession{sess.ID: sess}}
	svc := NewWorkSessionService(sessions, &mockProjectRepository{}, &stubPublisher{})

	_, err := svc.Update(authedCtx(t, tenantID, tech), sess.ID, &worksession.UpdateDTO{
		DropsCompleted: intPtr(9),
	})
	require.Error(t, err)
	assert.True(t, authz.IsForbidden(err))
	assert.Equal(t, 0, sess.DropsCompleted)
}

func TestWorkSessionService_UpdateForeignSessionAsManager(t *testing.T) {
	allowAll(t)

	tenantID := uuid.New()
	manager := coreuser.New(tenantID, "lead@example.com", "Rin", "Okafor", coreuser.RoleManager)
	p := project.New(tenantID, "Harbour Tower", "200 Bay St", 40)
	sess := &worksession.WorkSession{
		ID:             uuid.New(),
		TenantID:       tenantID,
		ProjectID:      p.ID(),
		TechnicianID:   uuid.New(),
		StartedAt:      time.Now().Add(-8 * time.Hour),
		DropsCompleted: 2,
	}

	projects := &mockProjectRepository{projects: map[uuid.UUID]project.Project{p.ID(): p}}
	sessions := &mockWorkSessionRepository{sessions: map[uuid.UUID]*worksession.WorkSession{sess.ID: sess}}
	svc := NewWorkSessionService(sessions, projects, &stubPublisher{})

	updated, err := svc.Update(authedCtx(t, tenantID, manager), sess.ID, &worksession.UpdateDTO{
		DropsCompleted: intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.DropsCompleted)
}
