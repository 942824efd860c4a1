// Package account mounts the /auth HTTP endpoints: registration, email
// confirmation, sign-in and sign-out, password recovery and profile edits.
package account

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/handler"
	"github.com/dmitrymomot/soda/pkg/session"
	"github.com/dmitrymomot/soda/svc/auth"
)

// AuthService is the part of *auth.Service the endpoints use.
type AuthService interface {
	auth.Authenticator
	SignUp(ctx context.Context, in auth.NewUser) (auth.User, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignOut(ctx context.Context, sess auth.Session) error
	RequestEmailConfirmation(ctx context.Context, email string) error
	ConfirmEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error
	RequestChangeEmailAddress(ctx context.Context, user auth.User, newEmail, password string) error
	ChangeEmailAddress(ctx context.Context, token string) (auth.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (auth.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in auth.ProfileUpdate) (auth.User, error)
}

// RouterOptions configures the account module.
type RouterOptions struct {
	Service   AuthService
	Transport session.Transport
	// ClientURL is where confirm and change-email links land after success.
	ClientURL string
	// ErrorHandler renders failures; handler.NewErrorHandler by default.
	ErrorHandler handler.ErrorHandler[handler.Context]
	// Responder answers middleware failures; handler.Responder by default.
	Responder auth.ErrorResponder
	// RateLimit guards the unauthenticated write endpoints when set.
	RateLimit func(http.Handler) http.Handler
}

type module struct {
	svc          AuthService
	transport    session.Transport
	clientURL    string
	errorHandler handler.ErrorHandler[handler.Context]
}

// Router returns the /auth routes.
//
//	r.Route("/api", func(api chi.Router) {
//		api.Mount("/auth", account.Router(account.RouterOptions{
//			Service:   authSvc,
//			Transport: transport,
//			ClientURL: cfg.ClientURL,
//			RateLimit: limit,
//		}))
//	})
func Router(opts RouterOptions) chi.Router {
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = handler.NewErrorHandler(nil)
	}
	if opts.Responder == nil {
		opts.Responder = handler.Responder(nil)
	}
	limit := opts.RateLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	m := &module{
		svc:          opts.Service,
		transport:    opts.Transport,
		clientURL:    strings.TrimRight(opts.ClientURL, "/"),
		errorHandler: opts.ErrorHandler,
	}

	r := chi.NewRouter()

	r.With(limit).Post("/sign-up", m.signUp())
	r.With(limit).Post("/sign-in", m.signIn())
	r.With(limit).Post("/request-email-confirmation", m.requestEmailConfirmation())
	r.With(limit).Post("/forgot-password", m.forgotPassword())
	r.Get("/confirm-email", m.confirmEmail())
	r.Post("/reset-password", m.resetPassword())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(opts.Service, opts.Transport, opts.Responder))

		r.Get("/profile", m.profile())
		r.Patch("/profile", m.updateProfile())
		r.Post("/change-password", m.changePassword())
		r.Post("/request-change-email-address", m.requestChangeEmailAddress())
		r.Get("/change-email-address", m.changeEmailAddress())
		r.Post("/sign-out", m.signOut())
	})

	return r
}

func wrap[R any](m *module, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
	)
}

// identity is set by auth.Middleware on every authenticated route.
func identity(ctx context.Context) auth.Auth {
	a, _ := auth.FromContext(ctx)
	return a
}
