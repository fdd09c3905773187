package service

import (
	"context"
	"sync"
	"time"

	"github.com/Roger0222/dandelion/internal/domain"
)

// --- Mocks ---

type MockBackend struct {
	SignInWithPasswordFunc func(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	SignUpFunc             func(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	SignOutFunc            func(ctx context.Context, session *domain.Session) error
	InsertRowFunc          func(ctx context.Context, table string, record domain.UserRecord) error

	mu    sync.Mutex
	calls []string
}

func (m *MockBackend) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockBackend) SignInWithPassword(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	m.record("SignInWithPassword")
	if m.SignInWithPasswordFunc != nil {
		return m.SignInWithPasswordFunc(ctx, creds)
	}
	return &domain.Session{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour), Email: creds.Email}, nil
}

func (m *MockBackend) SignUp(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	m.record("SignUp")
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, creds)
	}
	return nil, nil
}

func (m *MockBackend) SignOut(ctx context.Context, session *domain.Session) error {
	m.record("SignOut")
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, session)
	}
	return nil
}

func (m *MockBackend) InsertRow(ctx context.Context, table string, record domain.UserRecord) error {
	m.record("InsertRow")
	if m.InsertRowFunc != nil {
		return m.InsertRowFunc(ctx, table, record)
	}
	return nil
}
