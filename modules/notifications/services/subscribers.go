package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/modules/quiz/domain/aggregates/quiz"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

// FeedSubscriber fans events out into notification rows. Handlers run
// outside any request context, so the transaction scope is rebuilt from the
// event payload.
type FeedSubscriber struct {
	notifications *NotificationService
	users         coreuser.Repository
	pool          *pgxpool.Pool
	log           *logrus.Logger
}

func NewFeedSubscriber(
	notifications *NotificationService,
	users coreuser.Repository,
	pool *pgxpool.Pool,
	log *logrus.Logger,
) *FeedSubscriber {
	return &FeedSubscriber{
		notifications: notifications,
		users:         users,
		pool:          pool,
		log:           log,
	}
}

func (s *FeedSubscriber) eventCtx(tenantID uuid.UUID) context.Context {
	ctx := composables.WithTenantID(context.Background(), tenantID)
	if s.pool != nil {
		ctx = composables.WithPool(ctx, s.pool)
	}
	return ctx
}

// OnQuizPassed congratulates the technician in their own feed.
func (s *FeedSubscriber) OnQuizPassed(event quiz.PassedEvent) {
	ctx := s.eventCtx(event.TenantID)
	err := s.notifications.Notify(ctx, &notification.Notification{
		TenantID: event.TenantID,
		UserID:   event.UserID,
		Title:    "Quiz passed",
		Body:     "You passed " + event.Title + ".",
	})
	if err != nil {
		s.log.WithError(err).WithField("quiz_id", event.QuizID).Error("failed to notify quiz pass")
	}
}

// OnSubscriptionCanceled tells every admin of the tenant.
func (s *FeedSubscriber) OnSubscriptionCanceled(event subscription.CanceledEvent) {
	tenantID := event.Result.TenantID()
	ctx := s.eventCtx(tenantID)
	err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
		admins, err := s.users.GetPaginated(txCtx, &coreuser.FindParams{Role: coreuser.RoleAdmin})
		if err != nil {
			return err
		}
		for _, admin := range admins {
			if admin.TenantID() != tenantID {
				continue
			}
			n := &notification.Notification{
				TenantID: tenantID,
				UserID:   admin.ID(),
				Title:    "Subscription canceled",
				Body:     "Your subscription will lapse at the end of the current period.",
			}
			if err := s.notifications.Notify(txCtx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("tenant_id", tenantID).Error("failed to notify subscription cancel")
	}
}
