package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/safety/domain/entities/safetyform"
	"github.com/ropeworks/ropeworks/modules/safety/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type SafetyFormService struct {
	repo      safetyform.Repository
	publisher eventbus.EventBus
}

func NewSafetyFormService(repo safetyform.Repository, publisher eventbus.EventBus) *SafetyFormService {
	return &SafetyFormService{repo: repo, publisher: publisher}
}

// Submit files a safety document for the calling technician. New forms
// always start in the submitted state; approval is a separate step.
func (s *SafetyFormService) Submit(ctx context.Context, documentType string) (*safetyform.Form, error) {
	if err := authorizeSafetyFn(ctx, permissions.ResourceForms, permissions.ActionCreate); err != nil {
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
	form := &safetyform.Form{
		ID:           uuid.New(),
		TenantID:     tenantID,
		TechnicianID: u.ID(),
		DocumentType: documentType,
		Status:       safetyform.StatusSubmitted,
		SubmittedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*safetyform.Form, error) {
		if err := s.repo.Create(txCtx, form); err != nil {
			return nil, err
		}
		return form, nil
	})
}

// Mine returns the caller's submitted forms.
func (s *SafetyFormService) Mine(ctx context.Context) ([]*safetyform.Form, error) {
	if err := authorizeSafetyFn(ctx, permissions.ResourceForms, permissions.ActionRead); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*safetyform.Form, error) {
		return s.repo.ListByTechnician(txCtx, u.ID())
	})
}

// Review moves a form to approved or rejected.
func (s *SafetyFormService) Review(ctx context.Context, id uuid.UUID, status safetyform.Status) (*safetyform.Form, error) {
	if err := authorizeSafetyFn(ctx, permissions.ResourceForms, permissions.ActionUpdate); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*safetyform.Form, error) {
		form, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		form.Status = status
		form.UpdatedAt = time.Now()
		if err := s.repo.Update(txCtx, form); err != nil {
			return nil, err
		}
		return form, nil
	})
}
