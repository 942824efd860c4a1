package email

// Config selects and configures the delivery backend.
type Config struct {
	// Domain is the sender domain; senders are "<local>@<Domain>".
	Domain               string `env:"MAIL_DOMAIN,required"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	// DevDir, when set, makes the development sender also write HTML files there.
	DevDir string `env:"MAIL_DEV_DIR"`
}

// Address builds the sender address for local part local.
func (c Config) Address(local string) string {
	return local + "@" + c.Domain
}
