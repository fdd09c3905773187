package middleware

import (
	"context"
	goerrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/jwt"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/utils"
)

// Key to store the session in the request context
type key int

const SessionKey key = 0

const (
	msgSignIn  = "Please log in to continue"
	msgExpired = "Your session has expired. Please log in again."
)

var (
	errNoToken = goerrors.New("no token")
	errExpired = goerrors.New("session expired")
)

// Auth guards pages that need a signed-in user.
type Auth struct {
	decoder   jwt.SessionDecoder
	cookies   Cookies
	loginPath string
	now       func() time.Time
}

func NewAuth(decoder jwt.SessionDecoder, cookies Cookies, loginPath string) *Auth {
	return &Auth{
		decoder:   decoder,
		cookies:   cookies,
		loginPath: loginPath,
		now:       time.Now,
	}
}

// extractSession reads the access token from the session cookie, or the
// Authorization header for the mobile shell.
func (a *Auth) extractSession(r *http.Request) (*domain.Session, error) {
	var accessToken, refreshToken string
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		accessToken = c.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		accessToken = token
	}
	if accessToken == "" {
		return nil, errNoToken
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = c.Value
	}

	session, err := a.decoder.DecodeSession(accessToken, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.Expired(a.now()) {
		return nil, errExpired
	}
	return session, nil
}

// NeedSession redirects to the login page with an alert when there is no live session.
func (a *Auth) NeedSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := a.extractSession(r)
			if err != nil {
				msg := msgSignIn
				if !goerrors.Is(err, errNoToken) {
					logger.Log.Debug("session rejected", "path", r.URL.Path, "error", err)
					msg = msgExpired
					a.cookies.ClearSession(w)
				}
				a.cookies.SetFlash(w, FlashCookieError, msg)
				http.Redirect(w, r, a.loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NeedSessionAPI answers 401 instead of redirecting.
func (a *Auth) NeedSessionAPI() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := a.extractSession(r)
			if err != nil {
				msg := msgSignIn
				if !goerrors.Is(err, errNoToken) {
					msg = msgExpired
				}
				utils.WriteJSONError(w, &errors.ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized})
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfSession sends a signed-in user to target instead of the wrapped
// page, so the login view is unreachable while a session is live.
func (a *Auth) RedirectIfSession(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := a.extractSession(r); err == nil {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext retrieves the session stored by NeedSession.
func GetSessionFromContext(r *http.Request) *domain.Session {
	session, ok := r.Context().Value(SessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return session
}
