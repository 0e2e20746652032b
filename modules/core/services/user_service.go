package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{repo: repo, publisher: publisher}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	if err := authorizeCoreFn(ctx, permissions.ResourceUsers, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *UserService) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	if err := authorizeCoreFn(ctx, permissions.ResourceUsers, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]user.User, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	if err := authorizeCoreFn(ctx, permissions.ResourceUsers, permissions.ActionRead); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *UserService) Create(ctx context.Context, data user.User) (user.User, error) {
	if err := authorizeCoreFn(ctx, permissions.ResourceUsers, permissions.ActionCreate); err != nil {
		return nil, err
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (user.User, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(user.CreatedEvent{Result: created})
	return created, nil
}

func (s *UserService) Update(ctx context.Context, data user.User) error {
	if err := authorizeCoreFn(ctx, permissions.ResourceUsers, permissions.ActionUpdate); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return err
	}
	s.publisher.Publish(user.UpdatedEvent{Result: data})
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeCoreFn(ctx, permissions.ResourceUsers, permissions.ActionDelete); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return err
	}
	s.publisher.Publish(user.DeletedEvent{ID: id})
	return nil
}
