package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/modules/notifications/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
)

type NotificationService struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	if err := authorizeNotificationsFn(ctx, permissions.ResourceNotifications, permissions.ActionRead); err != nil {
		return 0, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return 0, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.CountUnread(txCtx, u.ID())
	})
}

func (s *NotificationService) List(ctx context.Context, limit, offset int) ([]*notification.Notification, error) {
	if err := authorizeNotificationsFn(ctx, permissions.ResourceNotifications, permissions.ActionRead); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*notification.Notification, error) {
		return s.repo.ListByUser(txCtx, u.ID(), limit, offset)
	})
}

// MarkRead flips one notification. Only the addressee may read their feed,
// so a foreign id is a not-found, never a hint the row exists.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	if err := authorizeNotificationsFn(ctx, permissions.ResourceNotifications, permissions.ActionUpdate); err != nil {
		return nil, err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*notification.Notification, error) {
		n, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if n.UserID != u.ID() {
			return nil, notification.ErrNotificationNotFound
		}
		if n.Read() {
			return n, nil
		}
		now := time.Now()
		if err := s.repo.MarkRead(txCtx, id, now); err != nil {
			return nil, err
		}
		n.ReadAt = &now
		return n, nil
	})
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := authorizeNotificationsFn(ctx, permissions.ResourceNotifications, permissions.ActionUpdate); err != nil {
		return err
	}
	u, err := composables.UseUser(ctx)
	if err != nil {
		return err
	}
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkAllRead(txCtx, u.ID(), time.Now())
	})
}

// Notify inserts a feed row directly. Used by event subscribers and the
// platform console, both of which run with system privileges.
func (s *NotificationService) Notify(ctx context.Context, data *notification.Notification) error {
	data.ID = uuid.New()
	data.CreatedAt = time.Now()
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, data)
	})
}
