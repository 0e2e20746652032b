package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	"github.com/ropeworks/ropeworks/modules/billing/domain/payment"
	"github.com/ropeworks/ropeworks/modules/billing/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

const billingPeriod = 30 * 24 * time.Hour

var planAmounts = map[subscription.Plan]decimal.Decimal{
	subscription.PlanTrial:    decimal.Zero,
	subscription.PlanStandard: decimal.NewFromInt(199),
	subscription.PlanPro:      decimal.NewFromInt(399),
}

type CheckoutResult struct {
	Subscription subscription.Subscription
	Session      *payment.CheckoutSession
}

type BillingService struct {
	repo      subscription.Repository
	gateway   payment.Gateway
	publisher eventbus.EventBus
}

func NewBillingService(repo subscription.Repository, gateway payment.Gateway, publisher eventbus.EventBus) *BillingService {
	return &BillingService{repo: repo, gateway: gateway, publisher: publisher}
}

func (s *BillingService) Subscription(ctx context.Context) (subscription.Subscription, error) {
	if err := authorizeBillingFn(ctx, permissions.ResourceSubscriptions, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (subscription.Subscription, error) {
		return s.repo.GetByTenant(txCtx)
	})
}

// Checkout creates the tenant's subscription and settles the first period
// through the gateway. A tenant that already holds a subscription gets a
// conflict, not a second row.
func (s *BillingService) Checkout(ctx context.Context, plan subscription.Plan, seats int) (*CheckoutResult, error) {
	if err := authorizeBillingFn(ctx, permissions.ResourceSubscriptions, permissions.ActionCreate); err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	amount, ok := planAmounts[plan]
	if !ok {
		amount = planAmounts[subscription.PlanStandard]
	}

	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*CheckoutResult, error) {
		if _, err := s.repo.GetByTenant(txCtx); err == nil {
			return nil, subscription.ErrAlreadySubscribed
		}
		sub := subscription.New(tenantID, plan, seats, amount, time.Now().Add(billingPeriod))
		session, err := s.gateway.Checkout(txCtx, sub)
		if err != nil {
			return nil, err
		}
		created, err := s.repo.Create(txCtx, sub)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{Subscription: created, Session: session}, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(subscription.CreatedEvent{Result: result.Subscription})
	return result, nil
}

// Cancel lapses the subscription at the period end. A second cancel surfaces
// the double-submission as a conflict instead of silently succeeding.
func (s *BillingService) Cancel(ctx context.Context) (subscription.Subscription, error) {
	if err := authorizeBillingFn(ctx, permissions.ResourceSubscriptions, permissions.ActionUpdate); err != nil {
		return nil, err
	}
	canceled, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (subscription.Subscription, error) {
		sub, err := s.repo.GetByTenant(txCtx)
		if err != nil {
			return nil, err
		}
		canceled, err := sub.Cancel()
		if err != nil {
			return nil, err
		}
		if err := s.gateway.Cancel(txCtx, canceled); err != nil {
			return nil, err
		}
		if err := s.repo.Update(txCtx, canceled); err != nil {
			return nil, err
		}
		return canceled, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(subscription.CanceledEvent{Result: canceled})
	return canceled, nil
}

func (s *BillingService) Reactivate(ctx context.Context) (subscription.Subscription, error) {
	if err := authorizeBillingFn(ctx, permissions.ResourceSubscriptions, permissions.ActionUpdate); err != nil {
		return nil, err
	}
	reactivated, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (subscription.Subscription, error) {
		sub, err := s.repo.GetByTenant(txCtx)
		if err != nil {
			return nil, err
		}
		reactivated, err := sub.Reactivate()
		if err != nil {
			return nil, err
		}
		if err := s.gateway.Reactivate(txCtx, reactivated); err != nil {
			return nil, err
		}
		if err := s.repo.Update(txCtx, reactivated); err != nil {
			return nil, err
		}
		return reactivated, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(subscription.ReactivatedEvent{Result: reactivated})
	return reactivated, nil
}

func (s *BillingService) PurchaseAddon(ctx context.Context, name string, amount decimal.Decimal) (subscription.Subscription, error) {
	if err := authorizeBillingFn(ctx, permissions.ResourceSubscriptions, permissions.ActionUpdate); err != nil {
		return nil, err
	}
	addon := subscription.Addon{Name: name, Amount: amount, PurchasedAt: time.Now()}
	updated, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (subscription.Subscription, error) {
		sub, err := s.repo.GetByTenant(txCtx)
		if err != nil {
			return nil, err
		}
		if err := s.gateway.ChargeAddon(txCtx, sub, addon); err != nil {
			return nil, err
		}
		updated := sub.WithAddon(addon)
		if err := s.repo.Update(txCtx, updated); err != nil {
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(subscription.AddonPurchasedEvent{Result: updated, Addon: addon})
	return updated, nil
}
