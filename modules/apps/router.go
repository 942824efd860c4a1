// Package apps mounts the /apps endpoints through which users manage their
// OAuth apps: listing, editing, secret rotation and the redirect allowlist.
package apps

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/handler"
	"github.com/dmitrymomot/soda/pkg/binder"
	"github.com/dmitrymomot/soda/svc/app"
	"github.com/dmitrymomot/soda/svc/auth"
)

// AppService is the part of *app.Service the endpoints use.
type AppService interface {
	Create(ctx context.Context, userID uuid.UUID, in app.Input) (app.App, error)
	Update(ctx context.Context, appID, userID uuid.UUID, in app.Input) (app.App, error)
	Remove(ctx context.Context, appID, userID uuid.UUID) error
	RegenerateSecret(ctx context.Context, appID uuid.UUID) (app.Secret, error)
	SetRedirectURLs(ctx context.Context, appID uuid.UUID, urls []string) error
	GetRedirectURLs(ctx context.Context, appID uuid.UUID) ([]app.RedirectURL, error)
	Get(ctx context.Context, userID uuid.UUID, query app.Query, withCount bool) (app.Listing, error)
}

// RouterOptions configures the apps module.
type RouterOptions struct {
	Service AppService
	// Authenticate populates the auth identity; routes without one answer 401.
	Authenticate func(http.Handler) http.Handler
	ErrorHandler handler.ErrorHandler[handler.Context]
}

type module struct {
	svc          AppService
	errorHandler handler.ErrorHandler[handler.Context]
}

// Router returns the /apps routes.
func Router(opts RouterOptions) chi.Router {
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = handler.NewErrorHandler(nil)
	}
	m := &module{svc: opts.Service, errorHandler: opts.ErrorHandler}

	r := chi.NewRouter()
	if opts.Authenticate != nil {
		r.Use(opts.Authenticate)
	}

	r.Get("/", m.list())
	r.Post("/", m.create())
	r.Route("/{appId}", func(r chi.Router) {
		r.Patch("/", m.update())
		r.Delete("/", m.remove())
		r.Post("/refresh-secret", m.refreshSecret())
		r.Post("/redirect-urls", m.setRedirectURLs())
		r.Get("/redirect-urls", m.redirectURLs())
	})

	return r
}

// authed rejects calls that reached the handler without an identity.
func authed[R any](m *module, h func(ctx handler.Context, user auth.User, req R) handler.Response, binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap[handler.Context, R](func(ctx handler.Context, req R) handler.Response {
		a, ok := auth.FromContext(ctx)
		if !ok {
			return handler.Error(auth.ErrUnauthenticated)
		}
		return h(ctx, a.User, req)
	},
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
	)
}

var pathBinder = binder.Path(chi.URLParam)

type listQuery struct {
	Page string `query:"page"`
	Text string `query:"q"`
}

// page falls back to 1 for missing, malformed or non-positive values.
func (q listQuery) page() int {
	n, err := strconv.Atoi(q.Page)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (m *module) list() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, user auth.User, req listQuery) handler.Response {
		listing, err := m.svc.Get(ctx, user.ID, app.Query{Text: req.Text, Page: req.page()}, true)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(listing.Apps, handler.WithJSONMeta(map[string]any{
			"lastPage": listing.LastPage(),
		}))
	}, binder.Query())
}

type appRequest struct {
	AppID       uuid.UUID `path:"appId" json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (r appRequest) input() app.Input {
	return app.Input{Title: r.Title, Description: r.Description}
}

func (m *module) create() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, user auth.User, req appRequest) handler.Response {
		_, err := m.svc.Create(ctx, user.ID, req.input())
		return handler.Error(err)
	}, binder.JSON())
}

func (m *module) update() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, user auth.User, req appRequest) handler.Response {
		_, err := m.svc.Update(ctx, req.AppID, user.ID, req.input())
		return handler.Error(err)
	}, pathBinder, binder.JSON())
}

type appPath struct {
	AppID uuid.UUID `path:"appId"`
}

func (m *module) remove() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, user auth.User, req appPath) handler.Response {
		return handler.Error(m.svc.Remove(ctx, req.AppID, user.ID))
	}, pathBinder)
}

func (m *module) refreshSecret() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, _ auth.User, req appPath) handler.Response {
		_, err := m.svc.RegenerateSecret(ctx, req.AppID)
		return handler.Error(err)
	}, pathBinder)
}

type redirectURLsRequest struct {
	AppID uuid.UUID `path:"appId" json:"-"`
	URLs  []string  `json:"urls"`
}

func (m *module) setRedirectURLs() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, _ auth.User, req redirectURLsRequest) handler.Response {
		return handler.Error(m.svc.SetRedirectURLs(ctx, req.AppID, req.URLs))
	}, pathBinder, binder.JSON())
}

func (m *module) redirectURLs() http.HandlerFunc {
	return authed(m, func(ctx handler.Context, _ auth.User, req appPath) handler.Response {
		urls, err := m.svc.GetRedirectURLs(ctx, req.AppID)
		if err != nil {
			return handler.Error(err)
		}
		return handler.JSON(urls)
	}, pathBinder)
}
