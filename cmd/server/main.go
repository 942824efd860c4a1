// Command server runs the soda HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/soda/internal/db"
	"github.com/dmitrymomot/soda/pkg/config"
	"github.com/dmitrymomot/soda/pkg/email"
	"github.com/dmitrymomot/soda/pkg/file"
	"github.com/dmitrymomot/soda/pkg/httpserver"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/metrics"
	"github.com/dmitrymomot/soda/pkg/password"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/ratelimiter"
	"github.com/dmitrymomot/soda/pkg/redis"
	"github.com/dmitrymomot/soda/pkg/requestid"
	"github.com/dmitrymomot/soda/pkg/session"
	"github.com/dmitrymomot/soda/svc/app"
	"github.com/dmitrymomot/soda/svc/auth"
	"github.com/dmitrymomot/soda/svc/oauth"
)

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	var limiterStore ratelimiter.Store
	if cfg.Redis.Enabled() {
		var client *goredis.Client
		client, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		limiterStore = ratelimiter.NewRedisStore(client)
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limiterStore = mem
	}
	limiter, err := ratelimiter.NewBucket(limiterStore, cfg.RateLimit)
	if err != nil {
		return err
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}

	files, filesDir, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg, cfg.App.Name)

	tx := pg.NewTransactor(pool)

	authSvc := auth.NewService(cfg.Auth, tx, mailer, files,
		auth.WithHasher(password.NewBcrypt()),
		auth.WithMetrics(collector),
		auth.WithLogger(log),
	)
	appSvc := app.NewService(tx,
		app.WithMetrics(collector),
		app.WithLogger(log),
	)
	oauthSvc, err := oauth.NewService(oauth.Config{ClientURL: cfg.App.ClientURL}, appSvc)
	if err != nil {
		return err
	}

	sessCfg := cfg.Session
	sessCfg.Secure = cfg.App.Env.SecureCookies()

	router := newRouter(routerDeps{
		cfg:       cfg,
		log:       log,
		auth:      authSvc,
		apps:      appSvc,
		oauth:     oauthSvc,
		transport: session.NewCookieTransport(sessCfg),
		limiter:   limiter,
		metrics:   collector,
		gatherer:  reg,
		checks:    checks,
		filesDir:  filesDir,
	})

	log.InfoContext(ctx, "starting server", slog.String("addr", cfg.HTTP.Addr))
	return httpserver.New(cfg.HTTP, router, log).Run(ctx)
}

// newMailer delivers through Postmark in production and logs elsewhere.
func newMailer(cfg Config, log *slog.Logger) (email.Sender, error) {
	if !cfg.App.Env.IsProduction() {
		return email.NewDevSender(log, cfg.Mail.DevDir), nil
	}
	sender, err := email.NewPostmarkSender(cfg.Mail)
	if err != nil {
		return nil, err
	}
	return sender, nil
}

// newStorage uses S3 when a bucket is configured and a local directory,
// served under /files, otherwise. filesDir is empty for S3.
func newStorage(ctx context.Context, cfg Config) (storage file.Storage, filesDir string, err error) {
	if cfg.S3.Enabled() {
		bucket, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return bucket, "", nil
	}
	local, err := file.NewLocalStorage(cfg.Files.Dir, strings.TrimRight(cfg.App.ServerURL, "/")+filesPrefix)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}
