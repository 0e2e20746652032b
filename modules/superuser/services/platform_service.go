package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ropeworks/ropeworks/modules/billing/domain/aggregates/subscription"
	coreuser "github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/tenant"
	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/modules/superuser/permissions"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

const (
	giftTrialDays = 30
	giftSeats     = 5
)

var ErrStaffRoleInvalid = errors.New("staff accounts cannot use resident roles")

type GiftAccountDTO struct {
	CompanyName string
	Domain      string
	AdminEmail  string
	FirstName   string
	LastName    string
	Password    string
}

type GiftAccountResult struct {
	Tenant       *tenant.Tenant
	Admin        coreuser.User
	Subscription subscription.Subscription
}

type StaffAccountDTO struct {
	TenantID  uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      coreuser.Role
	Password  string
}

type AnnouncementDTO struct {
	// TenantID narrows the announcement to one tenant. Nil broadcasts to
	// every tenant on the platform.
	TenantID *uuid.UUID
	Title    string
	Body     string
}

// Notifier is the slice of the notifications service the platform console
// needs.
type Notifier interface {
	Notify(ctx context.Context, data *notification.Notification) error
}

// PlatformService carries the operations the platform operators run across
// tenants. Every method is gated on superuser-only resources.
type PlatformService struct {
	tenants       tenant.Repository
	users         coreuser.Repository
	subscriptions subscription.Repository
	notifier      Notifier
	publisher     eventbus.EventBus
}

func NewPlatformService(
	tenants tenant.Repository,
	users coreuser.Repository,
	subscriptions subscription.Repository,
	notifier Notifier,
	publisher eventbus.EventBus,
) *PlatformService {
	return &PlatformService{
		tenants:       tenants,
		users:         users,
		subscriptions: subscriptions,
		notifier:      notifier,
		publisher:     publisher,
	}
}

func (s *PlatformService) ListAccounts(ctx context.Context) ([]*tenant.Tenant, error) {
	if err := authorizeSuperuserFn(ctx, permissions.ResourceAccounts, permissions.ActionRead); err != nil {
		return nil, err
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*tenant.Tenant, error) {
		return s.tenants.List(txCtx)
	})
}

// GiftAccount provisions a complimentary tenant with its admin user and a
// trial subscription in one transaction.
func (s *PlatformService) GiftAccount(ctx context.Context, data *GiftAccountDTO) (*GiftAccountResult, error) {
	if err := authorizeSuperuserFn(ctx, permissions.ResourceAccounts, permissions.ActionCreate); err != nil {
		return nil, err
	}
	hash, err := coreuser.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}

	t := tenant.New(data.CompanyName, data.Domain)
	t.IsGift = true

	admin := coreuser.New(
		t.ID,
		data.AdminEmail,
		data.FirstName,
		data.LastName,
		coreuser.RoleAdmin,
		coreuser.WithPasswordHash(hash),
	)
	sub := subscription.New(
		t.ID,
		subscription.PlanTrial,
		giftSeats,
		decimal.Zero,
		time.Now().AddDate(0, 0, giftTrialDays),
	)

	// The new tenant does not exist yet, so the transaction scope is rebuilt
	// around its id rather than the operator's.
	giftCtx := composables.WithTenantID(ctx, t.ID)
	result, err := composables.InTenantTxResult(giftCtx, func(txCtx context.Context) (*GiftAccountResult, error) {
		created, err := s.tenants.Create(txCtx, t)
		if err != nil {
			return nil, err
		}
		createdAdmin, err := s.users.Create(txCtx, admin)
		if err != nil {
			return nil, err
		}
		createdSub, err := s.subscriptions.Create(txCtx, sub)
		if err != nil {
			return nil, err
		}
		return &GiftAccountResult{Tenant: created, Admin: createdAdmin, Subscription: createdSub}, nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(coreuser.CreatedEvent{Result: result.Admin})
	s.publisher.Publish(subscription.CreatedEvent{Result: result.Subscription})
	return result, nil
}

// CreateStaff creates an operator-managed account inside an existing tenant.
func (s *PlatformService) CreateStaff(ctx context.Context, data *StaffAccountDTO) (coreuser.User, error) {
	if err := authorizeSuperuserFn(ctx, permissions.ResourceAccounts, permissions.ActionCreate); err != nil {
		return nil, err
	}
	if data.Role == coreuser.RoleResident {
		return nil, ErrStaffRoleInvalid
	}
	hash, err := coreuser.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}
	staff := coreuser.New(
		data.TenantID,
		data.Email,
		data.FirstName,
		data.LastName,
		data.Role,
		coreuser.WithPasswordHash(hash),
	)

	staffCtx := composables.WithTenantID(ctx, data.TenantID)
	created, err := composables.InTenantTxResult(staffCtx, func(txCtx context.Context) (coreuser.User, error) {
		if _, err := s.tenants.GetByID(txCtx, data.TenantID); err != nil {
			return nil, err
		}
		return s.users.Create(txCtx, staff)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(coreuser.CreatedEvent{Result: created})
	return created, nil
}

// DeleteAccount removes a tenant and everything cascading from it.
func (s *PlatformService) DeleteAccount(ctx context.Context, tenantID uuid.UUID) error {
	if err := authorizeSuperuserFn(ctx, permissions.ResourceAccounts, permissions.ActionDelete); err != nil {
		return err
	}
	delCtx := composables.WithTenantID(ctx, tenantID)
	return composables.InTenantTx(delCtx, func(txCtx context.Context) error {
		if _, err := s.tenants.GetByID(txCtx, tenantID); err != nil {
			return err
		}
		return s.tenants.Delete(txCtx, tenantID)
	})
}

// Announce fans a platform notification out to every user of the targeted
// tenants.
func (s *PlatformService) Announce(ctx context.Context, data *AnnouncementDTO) (int, error) {
	if err := authorizeSuperuserFn(ctx, permissions.ResourceAnnouncements, permissions.ActionCreate); err != nil {
		return 0, err
	}

	var targets []*tenant.Tenant
	if data.TenantID != nil {
		targetCtx := composables.WithTenantID(ctx, *data.TenantID)
		t, err := composables.InTenantTxResult(targetCtx, func(txCtx context.Context) (*tenant.Tenant, error) {
			return s.tenants.GetByID(txCtx, *data.TenantID)
		})
		if err != nil {
			return 0, err
		}
		targets = []*tenant.Tenant{t}
	} else {
		all, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*tenant.Tenant, error) {
			return s.tenants.List(txCtx)
		})
		if err != nil {
			return 0, err
		}
		targets = all
	}

	delivered := 0
	for _, t := range targets {
		tenantCtx := composables.WithTenantID(ctx, t.ID)
		err := composables.InTenantTx(tenantCtx, func(txCtx context.Context) error {
			recipients, err := s.users.GetPaginated(txCtx, &coreuser.FindParams{})
			if err != nil {
				return err
			}
			for _, recipient := range recipients {
				if recipient.TenantID() != t.ID {
					continue
				}
				n := &notification.Notification{
					TenantID: t.ID,
					UserID:   recipient.ID(),
					Title:    data.Title,
					Body:     data.Body,
				}
				if err := s.notifier.Notify(txCtx, n); err != nil {
					return err
				}
				delivered++
			}
			return nil
		})
		if err != nil {
			return delivered, err
		}
	}
	return delivered, nil
}
