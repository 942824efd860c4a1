package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type options struct {
	files       []string
	requireFile bool
	environment map[string]string
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles loads the given dotenv files instead of ./.env. Files must exist.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		o.files = paths
		o.requireFile = true
	}
}

// WithEnvironment parses from m instead of the process environment and
// skips dotenv loading. Intended for tests.
func WithEnvironment(m map[string]string) Option {
	return func(o *options) { o.environment = m }
}

// Load fills v from environment variables using `env` struct tags.
// Variables already present in the process take precedence over dotenv files;
// a missing ./.env is not an error.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parseOpts := env.Options{}
	if o.environment != nil {
		parseOpts.Environment = o.environment
	} else if err := godotenv.Load(o.files...); err != nil && o.requireFile {
		return errors.Join(ErrLoadingEnvFile, err)
	}

	if err := env.ParseWithOptions(v, parseOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load that panics on failure. Use it for configuration the
// process cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
