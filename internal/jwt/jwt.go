// Package jwt reads the access tokens issued by the auth backend.
package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Roger0222/dandelion/internal/domain"
	internal_errors "github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
)

type SessionDecoder interface {
	DecodeSession(accessToken, refreshToken string) (*domain.Session, error)
}

type Jwt struct {
	secretKey string
	parser    *jwt.Parser
}

// New returns a decoder. With an empty secretKey signatures are not checked
// and tokens are only read for their expiry and email; the backend stays the
// authority on every call that uses the token.
func New(secretKey string) *Jwt {
	return &Jwt{
		secretKey: secretKey,
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (j *Jwt) DecodeSession(accessToken, refreshToken string) (*domain.Session, error) {
	claims, err := j.decode(accessToken)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Email:        claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (j *Jwt) decode(tokenStr string) (*sessionClaims, error) {
	claims := &sessionClaims{}

	if j.secretKey == "" {
		if _, _, err := j.parser.ParseUnverified(tokenStr, claims); err != nil {
			logger.Log.Debug("malformed access token", "error", err)
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
		}
		if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Session expired", StatusCode: http.StatusUnauthorized}
		}
		return claims, nil
	}

	token, err := j.parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("access token rejected", "error", err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Session expired", StatusCode: http.StatusUnauthorized}
		}
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid token signature", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}
	return claims, nil
}
