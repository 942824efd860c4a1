package auth

import "time"

// DefaultTokenTTL is the validity window of every action token.
const DefaultTokenTTL = 12 * time.Hour

// Config holds the addresses used to build email links.
type Config struct {
	// ServerURL hosts the confirm-email and change-email endpoints.
	ServerURL string `env:"SERVER_URL,required"`
	// ClientURL hosts the reset-password page and post-action redirects.
	ClientURL  string        `env:"CLIENT_URL,required"`
	MailDomain string        `env:"MAIL_DOMAIN,required"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"12h"`
}

// Sender is the From address of every auth email.
func (c Config) Sender() string {
	return "auth@" + c.MailDomain
}
