package session

import "time"

// Config describes the session cookie.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	Domain     string        `env:"AUTH_COOKIE_DOMAIN"`
	MaxAge     time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"720h"`
	// Secure also switches SameSite to Strict. Set by the caller from APP_ENV.
	Secure bool `env:"-"`
}

// DefaultConfig returns the development cookie settings.
func DefaultConfig() Config {
	return Config{
		CookieName: "session",
		MaxAge:     30 * 24 * time.Hour,
	}
}
