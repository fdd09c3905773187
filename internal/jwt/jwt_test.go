package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretKey = "testJwtKey"

func signToken(t *testing.T, method jwt.SigningMethod, key any, email string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"email": email, "sub": "8f14e45f", "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestDecodeSessionVerified(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.SigningMethodHS256, []byte(secretKey), "a@nbsc.edu.ph", exp)

	session, err := New(secretKey).DecodeSession(token, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "a@nbsc.edu.ph", session.Email)
	assert.Equal(t, token, session.AccessToken)
	assert.Equal(t, "refresh", session.RefreshToken)
	assert.True(t, exp.Equal(session.ExpiresAt))
	assert.False(t, session.Expired(time.Now()))
}

func TestDecodeSessionExpired(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(secretKey), "a@nbsc.edu.ph", time.Now().Add(-time.Minute))

	_, err := New(secretKey).DecodeSession(token, "")
	require.Error(t, err)
	assert.Equal(t, "Session expired", err.Error())

	_, err = New("").DecodeSession(token, "")
	require.Error(t, err)
	assert.Equal(t, "Session expired", err.Error())
}

func TestDecodeSessionInvalidSecretKey(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(secretKey), "a@nbsc.edu.ph", time.Now().Add(time.Hour))

	_, err := New("invalidSecret").DecodeSession(token, "")
	assert.Error(t, err)
}

func TestDecodeSessionRejectsNoneAlg(t *testing.T) {
	token := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, "a@nbsc.edu.ph", time.Now().Add(time.Hour))

	_, err := New(secretKey).DecodeSession(token, "")
	assert.Error(t, err)
}

func TestDecodeSessionUnverified(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("backend-only-secret"), "b@nbsc.edu.ph", time.Now().Add(time.Hour))

	session, err := New("").DecodeSession(token, "")
	require.NoError(t, err)
	assert.Equal(t, "b@nbsc.edu.ph", session.Email)

	_, err = New("").DecodeSession("not-a-jwt", "")
	assert.Error(t, err)
}
