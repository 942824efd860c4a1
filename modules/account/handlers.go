package account

import (
	"mime/multipart"
	"net/http"

	"github.com/dmitrymomot/soda/handler"
	"github.com/dmitrymomot/soda/pkg/binder"
	"github.com/dmitrymomot/soda/pkg/file"
	"github.com/dmitrymomot/soda/pkg/validator"
	"github.com/dmitrymomot/soda/svc/auth"
)

type signUpRequest struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

func (m *module) signUp() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req signUpRequest) handler.Response {
		if err := confirmed("passwordConfirmation", req.PasswordConfirmation, "password", req.Password); err != nil {
			return handler.Error(err)
		}
		_, err := m.svc.SignUp(ctx, auth.NewUser{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		})
		return handler.Error(err)
	}, binder.JSON())
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m *module) signIn() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req signInRequest) handler.Response {
		sess, err := m.svc.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			return handler.Error(err)
		}
		m.transport.SetToken(ctx.ResponseWriter(), sess.Value)
		return handler.Success()
	}, binder.JSON())
}

type emailRequest struct {
	Email string `json:"email"`
}

func (m *module) requestEmailConfirmation() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req emailRequest) handler.Response {
		return handler.Error(m.svc.RequestEmailConfirmation(ctx, req.Email))
	}, binder.JSON())
}

func (m *module) forgotPassword() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req emailRequest) handler.Response {
		return handler.Error(m.svc.ForgotPassword(ctx, req.Email))
	}, binder.JSON())
}

type tokenQuery struct {
	Token string `query:"token"`
}

// confirmEmail is the target of the confirmation link.
func (m *module) confirmEmail() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req tokenQuery) handler.Response {
		if req.Token == "" {
			return handler.Error(auth.ErrUnauthenticated)
		}
		if err := m.svc.ConfirmEmail(ctx, req.Token); err != nil {
			return handler.Error(err)
		}
		return handler.Redirect(m.clientURL + "/sign-in")
	}, binder.Query())
}

type resetPasswordRequest struct {
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

func (m *module) resetPassword() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req resetPasswordRequest) handler.Response {
		if err := confirmed("passwordConfirmation", req.PasswordConfirmation, "password", req.Password); err != nil {
			return handler.Error(err)
		}
		return handler.Error(m.svc.ResetPassword(ctx, req.Token, req.Password))
	}, binder.JSON())
}

type profileResponse struct {
	User auth.User `json:"user"`
}

func (m *module) profile() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, _ struct{}) handler.Response {
		user, err := m.svc.Profile(ctx, identity(ctx).User.ID)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(profileResponse{User: user})
	})
}

type updateProfileRequest struct {
	FirstName string                `form:"firstName"`
	LastName  string                `form:"lastName"`
	Avatar    *multipart.FileHeader `file:"avatar"`
}

func (m *module) updateProfile() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req updateProfileRequest) handler.Response {
		in := auth.ProfileUpdate{FirstName: req.FirstName, LastName: req.LastName}
		if req.Avatar != nil {
			upload, closer, err := file.Open(req.Avatar)
			if err != nil {
				return handler.Error(err)
			}
			defer closer.Close()
			in.Avatar = &upload
		}
		_, err := m.svc.UpdateProfile(ctx, identity(ctx).User.ID, in)
		return handler.Error(err)
	}, binder.Form())
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"currentPassword"`
	NewPassword             string `json:"newPassword"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation"`
}

func (m *module) changePassword() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req changePasswordRequest) handler.Response {
		if err := confirmed("newPasswordConfirmation", req.NewPasswordConfirmation, "newPassword", req.NewPassword); err != nil {
			return handler.Error(err)
		}
		return handler.Error(m.svc.UpdatePassword(ctx, identity(ctx).User.ID, req.CurrentPassword, req.NewPassword))
	}, binder.JSON())
}

type changeEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (m *module) requestChangeEmailAddress() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req changeEmailRequest) handler.Response {
		return handler.Error(m.svc.RequestChangeEmailAddress(ctx, identity(ctx).User, req.Email, req.Password))
	}, binder.JSON())
}

// changeEmailAddress is the target of the change-email link.
func (m *module) changeEmailAddress() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, req tokenQuery) handler.Response {
		if req.Token == "" {
			return handler.Error(auth.ErrInvalidToken)
		}
		if _, err := m.svc.ChangeEmailAddress(ctx, req.Token); err != nil {
			return handler.Error(err)
		}
		return handler.Redirect(m.clientURL + "/profile")
	}, binder.Query())
}

func (m *module) signOut() http.HandlerFunc {
	return wrap(m, func(ctx handler.Context, _ struct{}) handler.Response {
		if err := m.svc.SignOut(ctx, identity(ctx).Session); err != nil {
			return handler.Error(err)
		}
		m.transport.ClearToken(ctx.ResponseWriter())
		return handler.Success()
	})
}

// confirmed rejects a confirmation field that differs from the password.
func confirmed(field, value, passwordField, password string) error {
	return validator.Apply(validator.Matches(field, value, passwordField, password))
}
