package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

var (
	ErrInviteInvalid = errors.New("invite token is invalid or expired")
)

type inviteClaims struct {
	TenantID string `json:"tid"`
	Email    string `json:"email"`
	Unit     string `json:"unit,omitempty"`
	jwt.RegisteredClaims
}

type ResidentRegistration struct {
	Token     string
	FirstName string
	LastName  string
	Password  string
}

// ResidentRegistrationService exchanges signed invite tokens for resident
// accounts. Invites are issued by building staff and carry the tenant the
// resident belongs to.
type ResidentRegistrationService struct {
	users      user.Repository
	publisher  eventbus.EventBus
	signingKey []byte
	ttl        time.Duration
}

func NewResidentRegistrationService(users user.Repository, publisher eventbus.EventBus) *ResidentRegistrationService {
	conf := configuration.Use()
	return &ResidentRegistrationService{
		users:      users,
		publisher:  publisher,
		signingKey: []byte(conf.ResidentInvite.SigningKey),
		ttl:        conf.ResidentInvite.TTL,
	}
}

// IssueInvite signs an invite token for the given tenant and email.
func (s *ResidentRegistrationService) IssueInvite(ctx context.Context, tenantID uuid.UUID, email, unit string) (string, error) {
	now := time.Now()
	claims := inviteClaims{
		TenantID: tenantID.String(),
		Email:    email,
		Unit:     unit,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign invite token")
	}
	return signed, nil
}

func (s *ResidentRegistrationService) parseInvite(token string) (*inviteClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &inviteClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInviteInvalid
	}
	claims, ok := parsed.Claims.(*inviteClaims)
	if !ok {
		return nil, ErrInviteInvalid
	}
	return claims, nil
}

// Register consumes an invite token and creates the resident account.
func (s *ResidentRegistrationService) Register(ctx context.Context, data *ResidentRegistration) (user.User, error) {
	claims, err := s.parseInvite(data.Token)
	if err != nil {
		return nil, err
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, ErrInviteInvalid
	}

	hash, err := user.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}

	resident := user.New(
		tenantID,
		claims.Email,
		data.FirstName,
		data.LastName,
		user.RoleResident,
		user.WithPasswordHash(hash),
	)

	regCtx := composables.WithTenantID(ctx, tenantID)
	created, err := composables.InTenantTxResult(regCtx, func(txCtx context.Context) (user.User, error) {
		return s.users.Create(txCtx, resident)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(user.CreatedEvent{Result: created})
	return created, nil
}
