package payment

import (
	"context"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
)

// CheckoutSession is what the processor hands back for the client to finish
// payment on.
type CheckoutSession struct {
	Reference string
	URL       string
}

// Gateway abstracts the payment processor. The production implementation
// talks to Stripe; tests and self-hosted installs use the offline one.
type Gateway interface {
	Checkout(ctx context.Context, sub subscription.Subscription) (*CheckoutSession, error)
	Cancel(ctx context.Context, sub subscription.Subscription) error
	Reactivate(ctx context.Context, sub subscription.Subscription) error
	ChargeAddon(ctx context.Context, sub subscription.Subscription, addon subscription.Addon) error
}
