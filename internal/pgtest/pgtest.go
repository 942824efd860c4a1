// Package pgtest starts a disposable PostgreSQL for integration tests and
// applies the embedded schema to it.
package pgtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrymomot/soda/internal/db"
	"github.com/dmitrymomot/soda/pkg/pg"
)

const image = "postgres:16-alpine"

var (
	once    sync.Once
	connURL string
	bootErr error
)

// Pool returns a pool on a migrated database shared by the test binary.
// Tables are truncated before the pool is handed out.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() { connURL, bootErr = start(context.Background()) })
	if bootErr != nil {
		t.Fatalf("postgres container failed: %v", bootErr)
	}

	ctx := context.Background()
	pool, err := pg.Connect(ctx, pg.Config{
		ConnectionString: connURL,
		MaxOpenConns:     4,
		RetryAttempts:    1,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx,
		`TRUNCATE users, passwords, sessions, tokens, apps, app_secrets, app_redirect_urls CASCADE`,
	); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func start(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "soda",
				"POSTGRES_PASSWORD": "soda",
				"POSTGRES_DB":       "soda",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", fmt.Errorf("get postgres host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", fmt.Errorf("get postgres port: %w", err)
	}

	url := fmt.Sprintf("postgres://soda:soda@%s:%s/soda?sslmode=disable", host, port.Port())
	cfg := pg.Config{ConnectionString: url, MaxOpenConns: 2, RetryAttempts: 5, RetryInterval: time.Second}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", err
	}
	defer pool.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := db.Migrate(ctx, pool, cfg, log); err != nil {
		_ = container.Terminate(ctx)
		return "", fmt.Errorf("migrate: %w", err)
	}
	return url, nil
}
