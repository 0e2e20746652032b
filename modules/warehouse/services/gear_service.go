package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/warehouse/domain/entities/gear"
	"github.com/ropeworks/ropeworks/modules/warehouse/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type GearService struct {
	repo      gear.Repository
	publisher eventbus.EventBus
}

func NewGearService(repo gear.Repository, publisher eventbus.EventBus) *GearService {
	return &GearService{repo: repo, publisher: publisher}
}

func (s *GearService) GetByID(ctx context.Context, id uuid.UUID) (*gear.Item, error) {
	if err := authorizeWarehouseFn(ctx, permissions.ResourceGear, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*gear.Item, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *GearService) GetPaginated(ctx context.Context, params *gear.FindParams) ([]*gear.Item, error) {
	if err := authorizeWarehouseFn(ctx, permissions.ResourceGear, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*gear.Item, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *GearService) Count(ctx context.Context) (int64, error) {
	if err := authorizeWarehouseFn(ctx, permissions.ResourceGear, permissions.ActionRead); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *GearService) Create(ctx context.Context, data *gear.Item) (*gear.Item, error) {
	if err := authorizeWarehouseFn(ctx, permissions.ResourceGear, permissions.ActionCreate); err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	data.ID = uuid.New()
	data.TenantID = tenantID
	if data.Status == "" {
		data.Status = gear.StatusAvailable
	}
	data.CreatedAt = now
	data.UpdatedAt = now
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*gear.Item, error) {
		if err := s.repo.Create(txCtx, data); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(gear.CreatedEvent{Result: created})
	return created, nil
}

// SelfAssign claims the oldest available item, optionally of a requested
// type, for the calling technician.
func (s *GearService) SelfAssign(ctx context.Context, gearType string) (*gear.Item, error) {
	if err := authorizeWarehouseFn(ctx, permissions.ResourceGear, permissions.ActionAssign); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	assigned, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*gear.Item, error) {
		item, err := s.repo.FirstAvailable(txCtx, gearType)
		if err != nil {
			return nil, err
		}
		userID := u.ID()
		item.Status = gear.StatusAssigned
		item.AssignedTo = &userID
		item.UpdatedAt = time.Now()
		if err := s.repo.Update(txCtx, item); err != nil {
			return nil, err
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(gear.AssignedEvent{Result: assigned, AssignedTo: u.ID()})
	return assigned, nil
}

func (s *GearService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeWarehouseFn(ctx, permissions.ResourceGear, permissions.ActionDelete); err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
