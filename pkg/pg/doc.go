// Package pg wraps pgx/v5 for the rest of the application: pool setup with
// retries, goose migrations, readiness probes, transactions and a small
// generic table gateway.
//
// Stores are written against [Querier] so the same code runs on the pool or
// inside a transaction opened by [Transactor.InTx]:
//
//	users := pg.NewRepository[User]("users")
//	err := tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
//		u, err := users.First(ctx, q, pg.QueryOptions{Where: pg.Eq("email", email)})
//		if pg.IsNotFoundError(err) {
//			...
//		}
//		...
//	})
//
// Filters are built only through [Eq], [In], [IDs], [ILike] and [And]; values
// are always bound as parameters and identifiers are quoted.
package pg
