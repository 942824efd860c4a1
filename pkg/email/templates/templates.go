package templates

import (
	"github.com/a-h/templ"
)

// Email is a subject plus a renderable body.
type Email struct {
	Subject string
	Body    templ.Component
}

// Confirmation is sent after sign-up and on re-request.
func Confirmation(link string) Email {
	return action(catalogue.Confirmation, link)
}

// ChangeEmail is sent to the pending address of an email change.
func ChangeEmail(link string) Email {
	return action(catalogue.ChangeEmail, link)
}

// ResetPassword carries the client reset link.
func ResetPassword(link string) Email {
	return action(catalogue.ResetPassword, link)
}

func action(c Copy, link string) Email {
	return Email{
		Subject: c.Subject,
		Body:    actionEmail(c, templ.URL(link)),
	}
}
