package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is implemented by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Stores accept it so the same code runs inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFunc is a unit of work executed against a transaction.
type TxFunc func(ctx context.Context, q Querier) error

// Transactor runs units of work atomically.
type Transactor interface {
	InTx(ctx context.Context, fn TxFunc) error
}

// PoolTransactor opens transactions on a connection pool.
type PoolTransactor struct {
	pool    *pgxpool.Pool
	options pgx.TxOptions
}

// NewTransactor returns a Transactor backed by pool.
// The default isolation level is read committed.
func NewTransactor(pool *pgxpool.Pool, opts ...pgx.TxOptions) *PoolTransactor {
	t := &PoolTransactor{pool: pool}
	if len(opts) > 0 {
		t.options = opts[0]
	}
	return t
}

// InTx commits when fn returns nil and rolls back otherwise, including on panic.
func (t *PoolTransactor) InTx(ctx context.Context, fn TxFunc) error {
	return pgx.BeginTxFunc(ctx, t.pool, t.options, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}
