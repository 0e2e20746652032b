package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/session"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

// AuthService issues and resolves session tokens. It satisfies the shared
// middleware Authenticator interface via AuthorizeToken.
type AuthService struct {
	users     user.Repository
	sessions  session.Repository
	publisher eventbus.EventBus
}

func NewAuthService(users user.Repository, sessions session.Repository, publisher eventbus.EventBus) *AuthService {
	return &AuthService{users: users, sessions: sessions, publisher: publisher}
}

func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate session token")
	}
	return hex.EncodeToString(b), nil
}

// Authenticate verifies credentials and opens a session. It runs outside the
// tenant transaction helpers because no tenant is known before the user row
// is found.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (user.User, *session.Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, composables.ErrInvalidPassword
		}
		return nil, nil, err
	}
	if !u.CheckPassword(password) {
		return nil, nil, composables.ErrInvalidPassword
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, nil, err
	}

	conf := configuration.Use()
	ip, _ := composables.UseIP(ctx)
	userAgent, _ := composables.UseUserAgent(ctx)
	sess := (&session.CreateDTO{
		Token:     token,
		UserID:    u.ID(),
		TenantID:  u.TenantID(),
		IP:        ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(conf.SessionDuration),
	}).ToEntity()

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, err
	}

	updated := u.WithLastLoginAt(time.Now())
	if err := s.users.Update(ctx, updated); err != nil {
		return nil, nil, err
	}

	s.publisher.Publish(user.SignedInEvent{Result: updated})
	return updated, sess, nil
}

// AuthorizeToken resolves a session token to its user, rejecting expired
// sessions.
func (s *AuthService) AuthorizeToken(ctx context.Context, token string) (composables.AuthUser, error) {
	if token == "" {
		return nil, composables.ErrSessionNotFound
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, composables.ErrSessionNotFound
		}
		return nil, err
	}
	if sess.Expired() {
		return nil, composables.ErrSessionNotFound
	}
	return s.users.GetByID(ctx, sess.UserID)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// CollectExpiredSessions clears expired rows; invoked periodically from the
// server process.
func (s *AuthService) CollectExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}
