package payment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	"github.com/ropeworks/ropeworks/modules/billing/domain/payment"
)

// OfflineGateway settles everything locally. It never fails, which makes the
// billing state machine the only source of conflicts.
type OfflineGateway struct {
	log *logrus.Logger
}

func NewOfflineGateway(log *logrus.Logger) payment.Gateway {
	return &OfflineGateway{log: log}
}

func (g *OfflineGateway) Checkout(ctx context.Context, sub subscription.Subscription) (*payment.CheckoutSession, error) {
	ref := fmt.Sprintf("offline-%s", sub.ID())
	g.log.WithFields(logrus.Fields{
		"tenant_id": sub.TenantID(),
		"plan":      sub.Plan(),
		"reference": ref,
	}).Info("offline checkout settled")
	return &payment.CheckoutSession{Reference: ref}, nil
}

func (g *OfflineGateway) Cancel(ctx context.Context, sub subscription.Subscription) error {
	g.log.WithField("tenant_id", sub.TenantID()).Info("offline subscription canceled")
	return nil
}

func (g *OfflineGateway) Reactivate(ctx context.Context, sub subscription.Subscription) error {
	g.log.WithField("tenant_id", sub.TenantID()).Info("offline subscription reactivated")
	return nil
}

func (g *OfflineGateway) ChargeAddon(ctx context.Context, sub subscription.Subscription, addon subscription.Addon) error {
	g.log.WithFields(logrus.Fields{
		"tenant_id": sub.TenantID(),
		"addon":     addon.Name,
		"amount":    addon.Amount.String(),
	}).Info("offline addon charged")
	return nil
}
