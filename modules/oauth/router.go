// Package oauth mounts the public endpoint third-party apps call to obtain
// the sign-in URL for their users.
package oauth

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/handler"
	"github.com/dmitrymomot/soda/pkg/binder"
)

// URLGenerator is implemented by *oauth.Service.
type URLGenerator interface {
	GenerateURL(ctx context.Context, appID uuid.UUID, redirectURL, state string) (string, error)
}

type generateURLRequest struct {
	AppID       uuid.UUID `path:"appId"`
	RedirectURL string    `query:"redirectUrl"`
	State       string    `query:"state"`
}

type generateURLResponse struct {
	URL string `json:"url"`
}

// Router returns the /oauth routes. A nil errorHandler selects
// handler.NewErrorHandler(nil).
func Router(svc URLGenerator, errorHandler handler.ErrorHandler[handler.Context]) chi.Router {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil)
	}

	r := chi.NewRouter()
	r.Get("/{appId}/generate-url", handler.Wrap[handler.Context, generateURLRequest](
		func(ctx handler.Context, req generateURLRequest) handler.Response {
			u, err := svc.GenerateURL(ctx, req.AppID, req.RedirectURL, req.State)
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(generateURLResponse{URL: u})
		},
		handler.WithBinders[handler.Context, generateURLRequest](binder.Path(chi.URLParam), binder.Query()),
		handler.WithErrorHandler[handler.Context, generateURLRequest](errorHandler),
	))
	return r
}
