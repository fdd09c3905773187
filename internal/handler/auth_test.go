package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
)

func formRequest(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := createRequest(t, http.MethodPost, target, []byte(form.Encode()), cookies...)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginGetHandler(t *testing.T) {
	h := newTestHandler(t, nil, nil)
	rr := httptest.NewRecorder()
	h.LoginGetHandler(rr, createRequest(t, http.MethodGet, "/dandelion/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `action="/dandelion/"`)
	assert.Contains(t, rr.Body.String(), `href="/dandelion/register"`)
}

func TestLoginPostHandler(t *testing.T) {
	t.Run("success sets session and renders transition", func(t *testing.T) {
		session := &domain.Session{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)}
		auth := &mockAuth{
			LoginFunc: func(ctx context.Context, creds domain.Credentials) (navigation.Outcome, *domain.Session, error) {
				assert.Equal(t, "a@nbsc.edu.ph", creds.Email)
				assert.Equal(t, "pw", creds.Password)
				return navigation.Outcome{
					Notice:     navigation.NewToast("Login successful! Redirecting...", 1500*time.Millisecond),
					Navigation: navigation.ReplaceWith("/dandelion/app", navigation.Forward, 300*time.Millisecond),
				}, session, nil
			},
		}
		h := newTestHandler(t, auth, nil)

		rr := httptest.NewRecorder()
		h.LoginPostHandler(rr, formRequest(t, "/dandelion/", url.Values{"email": {"a@nbsc.edu.ph"}, "password": {"pw"}}))

		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Login successful! Redirecting...")
		assert.Contains(t, body, `data-navigate="/dandelion/app"`)
		assert.Contains(t, body, `data-delay-ms="300"`)

		c := findCookie(rr, middleware.AccessTokenCookie)
		require.NotNil(t, c)
		assert.Equal(t, "access", c.Value)
	})

	t.Run("failure keeps fields and shows alert", func(t *testing.T) {
		loginErr := &errors.BackendError{Message: "Invalid login credentials", StatusCode: http.StatusBadRequest}
		auth := &mockAuth{
			LoginFunc: func(ctx context.Context, creds domain.Credentials) (navigation.Outcome, *domain.Session, error) {
				return navigation.Outcome{Notice: navigation.NewAlert("Notification", loginErr.Message)}, nil, loginErr
			},
		}
		h := newTestHandler(t, auth, nil)

		rr := httptest.NewRecorder()
		h.LoginPostHandler(rr, formRequest(t, "/dandelion/", url.Values{"email": {"a@nbsc.edu.ph"}, "password": {"wrong"}}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Invalid login credentials")
		assert.Contains(t, body, `value="a@nbsc.edu.ph"`)
		assert.Contains(t, body, `value="wrong"`)
		assert.Nil(t, findCookie(rr, middleware.AccessTokenCookie))
	})

	t.Run("cancelled request renders nothing", func(t *testing.T) {
		auth := &mockAuth{
			LoginFunc: func(ctx context.Context, creds domain.Credentials) (navigation.Outcome, *domain.Session, error) {
				return navigation.Outcome{Navigation: navigation.ReplaceWith("/dandelion/app", navigation.Forward, 0)}, &domain.Session{AccessToken: "a"}, nil
			},
		}
		h := newTestHandler(t, auth, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := formRequest(t, "/dandelion/", url.Values{"email": {"a@nbsc.edu.ph"}, "password": {"pw"}}).WithContext(ctx)

		rr := httptest.NewRecorder()
		h.LoginPostHandler(rr, req)
		assert.Empty(t, rr.Body.String())
	})
}

func TestLogoutHandler(t *testing.T) {
	session := &domain.Session{AccessToken: "access"}

	t.Run("success clears cookies and navigates back", func(t *testing.T) {
		auth := &mockAuth{
			LogoutFunc: func(ctx context.Context, s *domain.Session) (navigation.Outcome, error) {
				assert.Equal(t, session, s)
				return navigation.Outcome{
					Notice:     navigation.NewToast("Logout Successful", 1500*time.Millisecond),
					Navigation: navigation.ReplaceWith("/dandelion/", navigation.Back, 300*time.Millisecond),
				}, nil
			},
		}
		h := newTestHandler(t, auth, nil)

		req := formRequest(t, "/dandelion/app/logout", url.Values{"tab": {"search"}})
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, session))

		rr := httptest.NewRecorder()
		h.LogoutHandler(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Logout Successful")
		assert.Contains(t, rr.Body.String(), `data-direction="back"`)

		c := findCookie(rr, middleware.AccessTokenCookie)
		require.NotNil(t, c)
		assert.Equal(t, -1, c.MaxAge)
	})

	t.Run("failure stays on the current tab", func(t *testing.T) {
		auth := &mockAuth{
			LogoutFunc: func(ctx context.Context, s *domain.Session) (navigation.Outcome, error) {
				return navigation.Outcome{Notice: navigation.NewAlert("Logout Failed", "network down")},
					&errors.ErrorWithStatusCode{Message: "network down", StatusCode: http.StatusBadGateway}
			},
		}
		h := newTestHandler(t, auth, nil)

		req := formRequest(t, "/dandelion/app/logout", url.Values{"tab": {"search"}})
		req = req.WithContext(context.WithValue(req.Context(), middleware.SessionKey, session))

		rr := httptest.NewRecorder()
		h.LogoutHandler(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Logout Failed")
		assert.Contains(t, body, "search body")
		assert.Nil(t, findCookie(rr, middleware.AccessTokenCookie))
	})

	t.Run("unknown tab falls back to dashboard", func(t *testing.T) {
		auth := &mockAuth{
			LogoutFunc: func(ctx context.Context, s *domain.Session) (navigation.Outcome, error) {
				return navigation.Outcome{Notice: navigation.NewAlert("Logout Failed", "boom")}, &errors.ErrorWithStatusCode{Message: "boom", StatusCode: http.StatusInternalServerError}
			},
		}
		h := newTestHandler(t, auth, nil)

		rr := httptest.NewRecorder()
		h.LogoutHandler(rr, formRequest(t, "/dandelion/app/logout", url.Values{"tab": {"nope"}}))
		assert.True(t, strings.Contains(rr.Body.String(), "dashboard body"))
	})
}
