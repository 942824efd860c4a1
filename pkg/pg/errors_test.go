package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	dup := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrap: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("boom")))

	assert.True(t, IsDuplicateKeyError(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsDuplicateKeyError(fk))

	assert.True(t, IsForeignKeyViolationError(fk))
	assert.False(t, IsForeignKeyViolationError(nil))

	assert.True(t, IsTxClosedError(pgx.ErrTxClosed))
	assert.False(t, IsTxClosedError(nil))
}
