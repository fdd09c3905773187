package middleware

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/Roger0222/dandelion/internal/domain"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	FlashCookieError   = "flash_error"
	FlashCookieSuccess = "flash_success"

	flashMaxAge = 300 // 5 minutes (enough time for redirect)
)

// Cookies writes the app's cookies scoped to its base path.
type Cookies struct {
	Secure bool
	Path   string
}

func (c Cookies) path() string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

func (c Cookies) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.path(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetSession stores the backend tokens. The access cookie lives as long as the token.
func (c Cookies) SetSession(w http.ResponseWriter, s *domain.Session) {
	maxAge := 0 // browser session
	if !s.ExpiresAt.IsZero() {
		maxAge = int(time.Until(s.ExpiresAt).Seconds())
		if maxAge <= 0 {
			maxAge = -1
		}
	}
	c.set(w, AccessTokenCookie, s.AccessToken, maxAge)
	if s.RefreshToken != "" {
		c.set(w, RefreshTokenCookie, s.RefreshToken, maxAge)
	}
}

func (c Cookies) ClearSession(w http.ResponseWriter) {
	c.set(w, AccessTokenCookie, "", -1)
	c.set(w, RefreshTokenCookie, "", -1)
}

// SetFlash stores a one-shot message, base64 encoded for safe storage of special characters.
func (c Cookies) SetFlash(w http.ResponseWriter, name, message string) {
	c.set(w, name, base64.StdEncoding.EncodeToString([]byte(message)), flashMaxAge)
}

// PopFlash reads and clears a flash message. Missing or corrupt cookies read as "".
func (c Cookies) PopFlash(w http.ResponseWriter, r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.set(w, name, "", -1)

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
