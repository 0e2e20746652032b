package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/projects/domain/aggregates/project"
	"github.com/ropeworks/ropeworks/modules/projects/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type ProjectService struct {
	repo      project.Repository
	publisher eventbus.EventBus
}

func NewProjectService(repo project.Repository, publisher eventbus.EventBus) *ProjectService {
	return &ProjectService{repo: repo, publisher: publisher}
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceProjects, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *ProjectService) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceProjects, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *ProjectService) Count(ctx context.Context) (int64, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceProjects, permissions.ActionRead); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *ProjectService) Create(ctx context.Context, data project.Project) (project.Project, error) {
	if err := authorizeProjectsFn(ctx, permissions.ResourceProjects, permissions.ActionCreate); err != nil {
		return nil, err
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(project.CreatedEvent{Result: created})
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, data project.Project) error {
	if err := authorizeProjectsFn(ctx, permissions.ResourceProjects, permissions.ActionUpdate); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return err
	}
	s.publisher.Publish(project.UpdatedEvent{Result: data})
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeProjectsFn(ctx, permissions.ResourceProjects, permissions.ActionDelete); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return err
	}
	s.publisher.Publish(project.DeletedEvent{ID: id})
	return nil
}
