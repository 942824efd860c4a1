package db_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/internal/db"
)

func TestMigrations(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(db.Migrations, db.MigrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			t.Parallel()

			data, err := fs.ReadFile(db.Migrations, db.MigrationsDir+"/"+e.Name())
			require.NoError(t, err)
			sql := string(data)
			assert.Contains(t, sql, "-- +goose Up")
			assert.Contains(t, sql, "-- +goose Down")
			assert.True(t, strings.HasSuffix(e.Name(), ".sql"))
		})
	}
}
