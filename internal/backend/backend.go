// Package backend declares the operations the app consumes from the hosted
// auth and data service. Every call returns success or a descriptive error.
package backend

import (
	"context"

	"github.com/Roger0222/dandelion/internal/domain"
)

type Authenticator interface {
	SignInWithPassword(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	// SignUp may return a nil session when the backend requires email confirmation.
	SignUp(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	SignOut(ctx context.Context, session *domain.Session) error
}

type RowInserter interface {
	InsertRow(ctx context.Context, table string, record domain.UserRecord) error
}

type Client interface {
	Authenticator
	RowInserter
}
