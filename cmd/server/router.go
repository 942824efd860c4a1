package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/soda/core"
	"github.com/dmitrymomot/soda/handler"
	"github.com/dmitrymomot/soda/modules/account"
	"github.com/dmitrymomot/soda/modules/apps"
	moauth "github.com/dmitrymomot/soda/modules/oauth"
	"github.com/dmitrymomot/soda/pkg/clientip"
	"github.com/dmitrymomot/soda/pkg/httpserver"
	"github.com/dmitrymomot/soda/pkg/metrics"
	"github.com/dmitrymomot/soda/pkg/ratelimiter"
	"github.com/dmitrymomot/soda/pkg/requestid"
	"github.com/dmitrymomot/soda/pkg/session"
	"github.com/dmitrymomot/soda/svc/app"
	"github.com/dmitrymomot/soda/svc/auth"
	"github.com/dmitrymomot/soda/svc/oauth"
)

type routerDeps struct {
	cfg       Config
	log       *slog.Logger
	auth      *auth.Service
	apps      *app.Service
	oauth     *oauth.Service
	transport session.Transport
	limiter   ratelimiter.RateLimiter
	metrics   *metrics.Collector
	gatherer  prometheus.Gatherer
	checks    []httpserver.Check
	filesDir  string
}

const filesPrefix = "/files"

func newRouter(d routerDeps) http.Handler {
	errorHandler := handler.NewErrorHandler(d.log)
	respond := handler.Responder(d.log)

	limit := ratelimiter.Middleware(d.limiter,
		ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.ByPath()),
		ratelimiter.WithErrorResponder(func(w http.ResponseWriter, r *http.Request, err error) {
			if err == ratelimiter.ErrLimitExceeded {
				err = core.ErrTooManyRequests
			}
			respond(w, r, err)
		}),
	)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		middleware.Recoverer,
		d.metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{d.cfg.App.ClientURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", requestid.Header},
			AllowCredentials: true,
			MaxAge:           int((12 * time.Hour).Seconds()),
		}),
	)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(d.log, d.checks...))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(d.gatherer))

	if d.filesDir != "" {
		r.Handle(filesPrefix+"/*", http.StripPrefix(filesPrefix, http.FileServer(http.Dir(d.filesDir))))
	}

	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", account.Router(account.RouterOptions{
			Service:      d.auth,
			Transport:    d.transport,
			ClientURL:    d.cfg.App.ClientURL,
			ErrorHandler: errorHandler,
			Responder:    respond,
			RateLimit:    limit,
		}))
		api.Mount("/apps", apps.Router(apps.RouterOptions{
			Service:      d.apps,
			Authenticate: auth.Middleware(d.auth, d.transport, respond),
			ErrorHandler: errorHandler,
		}))
		api.Mount("/oauth", moauth.Router(d.oauth, errorHandler))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, core.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, core.ErrMethodNotAllowed)
	})

	return r
}
