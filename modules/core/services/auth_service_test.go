package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/session"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/testutils"
)

func newTestUser(t *testing.T, email, password string) user.User {
	t.Helper()
	hash, err := user.HashPassword(password)
	require.NoError(t, err)
	return user.New(
		uuid.New(),
		email,
		"Jordan",
		"Reyes",
		user.RoleTechnician,
		user.WithPasswordHash(hash),
	)
}

func TestAuthService_Authenticate(t *testing.T) {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	publisher := &stubPublisher{}
	svc := NewAuthService(users, sessions, publisher)

	existing := newTestUser(t, "tech@example.com", "correct horse battery")
	users.add(existing)

	ctx := composables.WithParams(context.Background(), &composables.Params{
		IP:        "203.0.113.7",
		UserAgent: "test-agent",
	})

	t.Run("ValidCredentials", func(t *testing.T) {
		u, sess, err := svc.Authenticate(ctx, "tech@example.com", "correct horse battery")
		require.NoError(t, err)
		require.Equal(t, existing.ID(), u.ID())
		require.NotEmpty(t, sess.Token)
		require.Equal(t, "203.0.113.7", sess.IP)
		require.True(t, sess.ExpiresAt.After(time.Now()))
		require.NotNil(t, u.LastLoginAt())

		stored, err := sessions.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		require.Equal(t, existing.ID(), stored.UserID)
		require.Len(t, publisher.events, 1)
		require.IsType(t, user.SignedInEvent{}, publisher.events[0])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "tech@example.com", "nope")
		require.ErrorIs(t, err, composables.ErrInvalidPassword)
	})

	t.Run("UnknownEmailMapsToInvalidPassword", func(t *testing.T) {
		_, _, err := svc.Authenticate(ctx, "ghost@example.com", "whatever")
		require.ErrorIs(t, err, composables.ErrInvalidPassword)
	})
}

func TestAuthService_AuthorizeToken(t *testing.T) {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	svc := NewAuthService(users, sessions, &stubPublisher{})

	existing := newTestUser(t, "tech@example.com", "correct horse battery")
	users.add(existing)

	ctx := context.Background()

	t.Run("ValidToken", func(t *testing.T) {
		sessions.sessions["tok-valid"] = &session.Session{
			Token:     "tok-valid",
			UserID:    existing.ID(),
			TenantID:  existing.TenantID(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		u, err := svc.AuthorizeToken(ctx, "tok-valid")
		require.NoError(t, err)
		require.Equal(t, existing.ID(), u.ID())
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		sessions.sessions["tok-expired"] = &session.Session{
			Token:     "tok-expired",
			UserID:    existing.ID(),
			TenantID:  existing.TenantID(),
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		_, err := svc.AuthorizeToken(ctx, "tok-expired")
		require.ErrorIs(t, err, composables.ErrSessionNotFound)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		_, err := svc.AuthorizeToken(ctx, "tok-missing")
		require.ErrorIs(t, err, composables.ErrSessionNotFound)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		_, err := svc.AuthorizeToken(ctx, "")
		require.ErrorIs(t, err, composables.ErrSessionNotFound)
	})
}

func TestResidentRegistrationService_Register(t *testing.T) {
	users := newMockUserRepository()
	publisher := &stubPublisher{}
	svc := NewResidentRegistrationService(users, publisher)

	tenantID := uuid.New()
	ctx := testutils.WithNoopTx(context.Background())

	token, err := svc.IssueInvite(ctx, tenantID, "resident@example.com", "12B")
	require.NoError(t, err)

	t.Run("ValidInvite", func(t *testing.T) {
		created, err := svc.Register(ctx, &ResidentRegistration{
			Token:     token,
			FirstName: "Dana",
			LastName:  "Whitfield",
			Password:  "long enough password",
		})
		require.NoError(t, err)
		require.Equal(t, tenantID, created.TenantID())
		require.Equal(t, user.RoleResident, created.Role())
		require.Equal(t, "resident@example.com", created.Email())
		require.True(t, created.CheckPassword("long enough password"))
		require.Len(t, publisher.events, 1)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.Register(ctx, &ResidentRegistration{
			Token:     token,
			FirstName: "Dana",
			LastName:  "Whitfield",
			Password:  "long enough password",
		})
		require.ErrorIs(t, err, user.ErrEmailTaken)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		_, err := svc.Register(ctx, &ResidentRegistration{
			Token:     "not-a-jwt",
			FirstName: "Dana",
			LastName:  "Whitfield",
			Password:  "long enough password",
		})
		require.ErrorIs(t, err, ErrInviteInvalid)
	})
}
