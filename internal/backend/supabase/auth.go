package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Roger0222/dandelion/internal/domain"
)

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	// Sign-up without auto-confirm returns the bare user object.
	Email string `json:"email"`
}

func (s sessionResponse) session(now time.Time) *domain.Session {
	if s.AccessToken == "" {
		return nil
	}
	session := &domain.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Email:        s.User.Email,
	}
	switch {
	case s.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		session.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return session
}

func decodeSession(resp *http.Response) (*domain.Session, error) {
	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return body.session(time.Now()), nil
}

// SignInWithPassword exchanges email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", creds, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	session, err := decodeSession(resp)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("auth response carried no access token")
	}
	return session, nil
}

// SignUp creates the auth account. The plaintext password goes to the auth
// service, which keeps its own credential store.
func (c *Client) SignUp(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", creds, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}
	return decodeSession(resp)
}

// SignOut revokes the session server-side. Like supabase-js, a session the
// backend no longer knows (401/403/404) counts as already signed out.
func (c *Client) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil || session.AccessToken == "" {
		return nil
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, session.AccessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent,
		http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil
	}
	return decodeError(resp)
}
