package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ropeworks/ropeworks/modules/core/domain/aggregates/user"
	"github.com/ropeworks/ropeworks/modules/core/domain/entities/session"
)

type stubPublisher struct {
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.events = append(p.events, args...)
}
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

type mockUserRepository struct {
	users       map[uuid.UUID]user.User
	byEmail     map[string]user.User
	updated     []user.User
	createErr   error
	callsUpdate int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   map[uuid.UUID]user.User{},
		byEmail: map[string]user.User{},
	}
}

func (m *mockUserRepository) add(u user.User) {
	m.users[u.ID()] = u
	m.byEmail[u.Email()] = u
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) Create(ctx context.Context, data user.User) (user.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, taken := m.byEmail[data.Email()]; taken {
		return nil, user.ErrEmailTaken
	}
	m.add(data)
	return data, nil
}

func (m *mockUserRepository) Update(ctx context.Context, data user.User) error {
	m.callsUpdate++
	m.updated = append(m.updated, data)
	m.add(data)
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.users, id)
	return nil
}

type mockSessionRepository struct {
	sessions  map[string]*session.Session
	deleted   []string
	createErr error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*session.Session{}}
}

func (m *mockSessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) Create(ctx context.Context, data *session.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[data.Token] = data
	return nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for token, s := range m.sessions {
		if s.Expired() {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}
