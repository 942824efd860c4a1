package templates_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/pkg/email/templates"
)

func render(t *testing.T, e templates.Email) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, e.Body.Render(context.Background(), &sb))
	return sb.String()
}

func TestEmails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   templates.Email
		subject string
		link    string
	}{
		{"confirmation", templates.Confirmation("https://api.example.com/api/auth/confirm-email?token=abc"), "Confirmation email", "https://api.example.com/api/auth/confirm-email?token=abc"},
		{"change email", templates.ChangeEmail("https://api.example.com/api/auth/change-email-address?token=abc"), "Change email address", "https://api.example.com/api/auth/change-email-address?token=abc"},
		{"reset password", templates.ResetPassword("https://app.example.com/reset-password?token=abc"), "Reset password", "https://app.example.com/reset-password?token=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.subject, tt.email.Subject)
			html := render(t, tt.email)
			assert.Contains(t, html, `href="`+tt.link+`"`)
			assert.Contains(t, html, "<title>"+tt.subject+"</title>")
		})
	}
}

func TestUnsafeLinkIsNeutralised(t *testing.T) {
	t.Parallel()

	html := render(t, templates.Confirmation("javascript:alert(1)"))
	assert.NotContains(t, html, "javascript:")
}

func TestParseCatalogue(t *testing.T) {
	t.Parallel()

	t.Run("default is complete", func(t *testing.T) {
		t.Parallel()
		c := templates.Default()
		assert.Equal(t, "Confirmation email", c.Confirmation.Subject)
		assert.Equal(t, "Reset password", c.ResetPassword.Subject)
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		_, err := templates.ParseCatalogue([]byte("confirmation:\n  action: Go\n"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := templates.ParseCatalogue([]byte("confirmation: ["))
		require.Error(t, err)
	})
}
