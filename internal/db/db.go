// Package db ships the PostgreSQL schema as embedded goose migrations.
package db

import (
	"context"
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/soda/pkg/pg"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"

// Migrate applies the embedded migrations, ignoring cfg.MigrationsPath.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	cfg.MigrationsPath = MigrationsDir
	return pg.Migrate(ctx, pool, cfg, log, pg.WithMigrationsFS(Migrations))
}
