package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/hrm/domain/aggregates/employee"
	"github.com/ropeworks/ropeworks/modules/hrm/domain/expiry"
	"github.com/ropeworks/ropeworks/modules/hrm/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type EmployeeService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
	// now is read fresh on every scan so long-lived processes roll over at
	// midnight. Overridden in tests.
	now func() time.Time
}

func NewEmployeeService(repo employee.Repository, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *EmployeeService) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]employee.Employee, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionRead); err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

// ExpiringLicenses scans the full roster for certifications expiring within
// the warning horizon.
func (s *EmployeeService) ExpiringLicenses(ctx context.Context) (*expiry.Report, error) {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*expiry.Report, error) {
		roster, err := s.repo.GetAll(txCtx)
		if err != nil {
			return nil, err
		}
		return expiry.Scan(roster, s.now()), nil
	})
}

func (s *EmployeeService) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionCreate); err != nil {
		return nil, err
	}
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.Create(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(employee.CreatedEvent{Result: created})
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, data employee.Employee) error {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionUpdate); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, data)
	}); err != nil {
		return err
	}
	s.publisher.Publish(employee.UpdatedEvent{Result: data})
	return nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeHRMFn(ctx, permissions.ResourceEmployees, permissions.ActionDelete); err != nil {
		return err
	}
	if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	}); err != nil {
		return err
	}
	s.publisher.Publish(employee.DeletedEvent{ID: id})
	return nil
}
