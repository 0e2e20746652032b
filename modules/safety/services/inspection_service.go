package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/inspection"
	"github.com/ropeworks/ropeworks/modules/safety/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type InspectionService struct {
	repo      inspection.Repository
	publisher eventbus.EventBus
}

func NewInspectionService(repo inspection.Repository, publisher eventbus.EventBus) *InspectionService {
	return &InspectionService{repo: repo, publisher: publisher}
}

// Log records a harness check for the calling technician.
func (s *InspectionService) Log(ctx context.Context, data *inspection.HarnessInspection) (*inspection.HarnessInspection, error) {
	if err := authorizeSafetyFn(ctx, permissions.ResourceInspections, permissions.ActionCreate); err != nil {
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
	data.ID = uuid.New()
	data.TenantID = tenantID
	data.TechnicianID = u.ID()
	data.CreatedAt = time.Now()
	if data.InspectedAt.IsZero() {
		data.InspectedAt = data.CreatedAt
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*inspection.HarnessInspection, error) {
		if err := s.repo.Create(txCtx, data); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(inspection.LoggedEvent{Result: created})
	return created, nil
}

// Recent returns the caller's inspections over the trailing number of days.
func (s *InspectionService) Recent(ctx context.Context, days int) ([]*inspection.HarnessInspection, error) {
	if err := authorizeSafetyFn(ctx, permissions.ResourceInspections, permissions.ActionRead); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -days)
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*inspection.HarnessInspection, error) {
		return s.repo.ListByTechnicianSince(txCtx, u.ID(), since)
	})
}
