package service

import (
	"context"
	"time"

	"github.com/Roger0222/dandelion/internal/backend"
	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/navigation"
)

const (
	loginAlertHeader  = "Notification"
	logoutAlertHeader = "Logout Failed"

	loginSuccessMessage  = "Login successful! Redirecting..."
	logoutSuccessMessage = "Logout Successful"
)

// AuthPaths are the pages the auth flows navigate to.
type AuthPaths struct {
	App   string // after login
	Login string // after logout
}

// Timing controls how long a success toast shows and how long navigation waits for it.
type Timing struct {
	Toast time.Duration
	Delay time.Duration
}

type Auth struct {
	backend backend.Authenticator
	paths   AuthPaths
	timing  Timing
}

func NewAuth(b backend.Authenticator, paths AuthPaths, timing Timing) *Auth {
	return &Auth{backend: b, paths: paths, timing: timing}
}

// Login signs in with creds. On failure the outcome is a blocking alert with
// the backend's message and no navigation; the caller keeps the form as typed.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (navigation.Outcome, *domain.Session, error) {
	session, err := a.backend.SignInWithPassword(ctx, creds)
	countEvent(flowLogin, err)
	if err != nil {
		logger.Log.Info("login failed", "error", err)
		return navigation.Outcome{
			Notice: navigation.NewAlert(loginAlertHeader, errors.UserMessage(err)),
		}, nil, err
	}

	if session.Email == "" {
		session.Email = creds.Email
	}
	logger.Log.Info("user logged in", "email", session.Email)

	return navigation.Outcome{
		Notice:     navigation.NewToast(loginSuccessMessage, a.timing.Toast),
		Navigation: navigation.ReplaceWith(a.paths.App, navigation.Forward, a.timing.Delay),
	}, session, nil
}

// Logout ends session. On failure the user stays where they are.
func (a *Auth) Logout(ctx context.Context, session *domain.Session) (navigation.Outcome, error) {
	err := a.backend.SignOut(ctx, session)
	countEvent(flowLogout, err)
	if err != nil {
		logger.Log.Warn("logout failed", "error", err)
		return navigation.Outcome{
			Notice: navigation.NewAlert(logoutAlertHeader, errors.UserMessage(err)),
		}, err
	}

	return navigation.Outcome{
		Notice:     navigation.NewToast(logoutSuccessMessage, a.timing.Toast),
		Navigation: navigation.ReplaceWith(a.paths.Login, navigation.Back, a.timing.Delay),
	}, nil
}
