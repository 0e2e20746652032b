package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/projects/domain/aggregates/project"
	"github.com/ropeworks/ropeworks/modules/projects/domain/entities/worksession"
	"github.com/ropeworks/ropeworks/modules/projects/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type WorkSessionService struct {
	repo        worksession.Repository
	projectRepo project.Repository
	publisher   eventbus.EventBus
}

func NewWorkSessionService(
	repo worksession.Repository,
	projectRepo project.Repository,
	publisher eventbus.EventBus,
) *WorkSessionService {
	return &WorkSessionService{
		repo:        repo,
		projectRepo: projectRepo,
		publisher:   publisher,
	}
}

func (s *WorkSessionService) GetByID(ctx context.Context, id uuid.UUID) (*worksession.WorkSession, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceWorkSessions, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*worksession.WorkSession, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *WorkSessionService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*worksession.WorkSession, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceWorkSessions, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*worksession.WorkSession, error) {
		return s.repo.ListByProject(txCtx, projectID)
	})
}

// Log records a shift for the calling technician and advances the project's
// drop counter in the same transaction.
func (s *WorkSessionService) Log(ctx context.Context, data *worksession.WorkSession) (*worksession.WorkSession, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceWorkSessions, permissions.ActionCreate); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	data.ID = uuid.New()
	data.TenantID = tenantID
	data.TechnicianID = u.ID()
	data.CreatedAt = now
	data.UpdatedAt = now
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*worksession.WorkSession, error) {
		if err := s.repo.Create(txCtx, data); err != nil {
			return nil, err
		}
		if err := s.syncProjectProgress(txCtx, data.ProjectID); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(worksession.LoggedEvent{Result: created})
	return created, nil
}

// Update edits a logged session. Technicians may edit only their own
// sessions; editing someone else's requires a wildcard grant.
func (s *WorkSessionService) Update(ctx context.Context, id uuid.UUID, upd *worksession.UpdateDTO) (*worksession.WorkSession, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceWorkSessions, permissions.ActionUpdate); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*worksession.WorkSession, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if existing.TechnicianID != u.ID() {
			if err := authorizeProjectsFn(ctx, permissions.ResourceWorkSessions, permissions.ActionManage); err != nil {
				return nil, err
			}
		}
		if upd.StartedAt != nil {
			existing.StartedAt = *upd.StartedAt
		}
		if upd.EndedAt != nil {
			existing.EndedAt = upd.EndedAt
		}
		if upd.DropsCompleted != nil {
			existing.DropsCompleted = *upd.DropsCompleted
		}
		if upd.Notes != nil {
			existing.Notes = *upd.Notes
		}
		existing.UpdatedAt = time.Now()
		if err := s.repo.Update(txCtx, existing); err != nil {
			return nil, err
		}
		if err := s.syncProjectProgress(txCtx, existing.ProjectID); err != nil {
			return nil, err
		}
		return existing, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(worksession.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *WorkSessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeProjectsFn(ctx, permissions.ResourceWorkSessions, permissions.ActionDelete); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.syncProjectProgress(txCtx, existing.ProjectID)
	})
}

// syncProjectProgress recomputes the project's completed drop count from its
// logged sessions. Must run inside the caller's transaction.
func (s *WorkSessionService) syncProjectProgress(txCtx context.Context, projectID uuid.UUID) error {
	sessions, err := s.repo.ListByProject(txCtx, projectID)
	if err != nil {
		return err
	}
	total := 0
	for _, sess := range sessions {
		total += sess.DropsCompleted
	}
	p, err := s.projectRepo.GetByID(txCtx, projectID)
	if err != nil {
		return err
	}
	return s.projectRepo.Update(txCtx, p.WithProgress(total))
}
