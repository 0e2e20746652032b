package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

type TenantService struct {
	repo tenant.Repository
}

func NewTenantService(repo tenant.Repository) *TenantService {
	return &TenantService{repo: repo}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *TenantService) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*tenant.Tenant, error) {
		return s.repo.List(txCtx)
	})
}

func (s *TenantService) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.Create(txCtx, t)
	})
}

func (s *TenantService) Update(ctx context.Context, t *tenant.Tenant) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, t)
	})
}

func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
