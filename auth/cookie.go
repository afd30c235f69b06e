package auth

import (
	"net/http"
	"time"

	"github.com/user/agency-go/config"
)

// CookieManager owns the refresh-token cookie: its name, scope and security flags.
// The cookie is always HttpOnly so page scripts can never read the refresh token.
type CookieManager struct {
	cfg config.CookieConfig
}

// NewCookieManager creates a CookieManager. An empty name falls back to "refreshToken"
// and an empty path to "/".
func NewCookieManager(cfg config.CookieConfig) *CookieManager {
	if cfg.Name == "" {
		cfg.Name = "refreshToken"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieManager{cfg: cfg}
}

// Set writes the refresh token cookie, expiring together with the token.
func (m *CookieManager) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, m.cookie(token, maxAge, expiresAt))
}

// Read returns the refresh token sent by the client, if any.
func (m *CookieManager) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cfg.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Clear instructs the client to drop the cookie. It is safe to call when no cookie was set.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
}

func (m *CookieManager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.Name,
		Value:    value,
		Path:     m.cfg.Path,
		Domain:   m.cfg.Domain,
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: m.sameSite(),
	}
}

func (m *CookieManager) sameSite() http.SameSite {
	switch m.cfg.SameSite {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
