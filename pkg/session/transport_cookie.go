package session

import (
	"net/http"

	"github.com/dmitrymomot/soda/pkg/cookie"
)

// CookieTransport stores the raw session value in an HttpOnly cookie.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	maxAge  int
}

var _ Transport = (*CookieTransport)(nil)

// NewCookieTransport builds the cookie transport. Secure cookies are
// SameSite=Strict, others Lax.
func NewCookieTransport(cfg Config) *CookieTransport {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultConfig().CookieName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultConfig().MaxAge
	}

	sameSite := http.SameSiteLaxMode
	if cfg.Secure {
		sameSite = http.SameSiteStrictMode
	}

	return &CookieTransport{
		cookies: cookie.New(
			cookie.WithPath("/"),
			cookie.WithDomain(cfg.Domain),
			cookie.WithHTTPOnly(true),
			cookie.WithSecure(cfg.Secure),
			cookie.WithSameSite(sameSite),
		),
		name:   cfg.CookieName,
		maxAge: int(cfg.MaxAge.Seconds()),
	}
}

// Name returns the cookie name.
func (t *CookieTransport) Name() string { return t.name }

// GetToken reads the session value from the cookie.
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	v, err := t.cookies.Get(r, t.name)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return v, nil
}

// SetToken stores the session value in the cookie.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string) {
	t.cookies.Set(w, t.name, token, cookie.WithMaxAge(t.maxAge))
}

// ClearToken expires the cookie.
func (t *CookieTransport) ClearToken(w http.ResponseWriter) {
	t.cookies.Delete(w, t.name)
}
