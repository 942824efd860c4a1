package main

import (
	"github.com/dmitrymomot/soda/pkg/email"
	"github.com/dmitrymomot/soda/pkg/environment"
	"github.com/dmitrymomot/soda/pkg/file"
	"github.com/dmitrymomot/soda/pkg/httpserver"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/ratelimiter"
	"github.com/dmitrymomot/soda/pkg/redis"
	"github.com/dmitrymomot/soda/pkg/session"
	"github.com/dmitrymomot/soda/svc/auth"
)

type appConfig struct {
	Env       environment.Environment `env:"APP_ENV" envDefault:"development"`
	Name      string                  `env:"APP_NAME" envDefault:"soda"`
	ServerURL string                  `env:"SERVER_URL,required"`
	ClientURL string                  `env:"CLIENT_URL,required"`
}

// Config is everything the server reads from the environment.
type Config struct {
	App       appConfig
	Auth      auth.Config
	Session   session.Config
	Log       logger.Config
	HTTP      httpserver.Config
	PG        pg.Config
	Redis     redis.Config
	RateLimit ratelimiter.Config
	Mail      email.Config
	S3        file.S3Config
	Files     file.LocalConfig
}
