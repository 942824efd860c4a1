// Package oauth builds the client-side sign-in URL that third-party apps
// send their users to.
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/core"
	"github.com/dmitrymomot/soda/svc/app"
)

const signInPath = "/oauth/sign-in"

var ErrRedirectURLRequired = core.NewHTTPError(http.StatusConflict, "required_redirect_url", "redirectUrl is required")

// Config points at the client application hosting the sign-in page.
type Config struct {
	ClientURL string `env:"CLIENT_URL,required"`
}

// RedirectValidator confirms url is allowlisted for the app. *app.Service
// implements it.
type RedirectValidator interface {
	ValidateRedirect(ctx context.Context, appID uuid.UUID, url string) (app.App, error)
}

// Service builds OAuth authorization redirects into the client app.
type Service struct {
	base      *url.URL
	redirects RedirectValidator
}

// NewService parses the client URL and fails when it is not absolute.
func NewService(cfg Config, redirects RedirectValidator) (*Service, error) {
	base, err := url.Parse(cfg.ClientURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("oauth: invalid client url %q", cfg.ClientURL)
	}
	return &Service{base: base, redirects: redirects}, nil
}

// GenerateURL returns the sign-in URL for the app. The redirect URL must be
// on the app's allowlist; state is passed through when set.
func (s *Service) GenerateURL(ctx context.Context, appID uuid.UUID, redirectURL, state string) (string, error) {
	if redirectURL == "" {
		return "", ErrRedirectURLRequired
	}
	if _, err := s.redirects.ValidateRedirect(ctx, appID, redirectURL); err != nil {
		return "", err
	}

	u := s.base.JoinPath(signInPath)
	q := url.Values{}
	q.Set("appId", appID.String())
	q.Set("redirectUrl", redirectURL)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
