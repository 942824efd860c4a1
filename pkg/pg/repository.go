package pg

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Values maps column names to values for inserts and updates.
type Values map[string]any

// Expr is a SQL expression written as-is into an insert or update.
type Expr string

// Now sets a column to the database clock.
const Now Expr = "now()"

// Repository is a table gateway for rows scanned into T by `db` struct tags.
// It holds no connection; every call takes the Querier to run on.
type Repository[T any] struct {
	table   string
	columns []string
}

// NewRepository builds a gateway for table. The selected columns are the
// `db` tags of T's exported fields.
func NewRepository[T any](table string) Repository[T] {
	return Repository[T]{table: table, columns: dbColumns[T]()}
}

// Table returns the table name.
func (r Repository[T]) Table() string { return r.table }

func dbColumns[T any]() []string {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("pg: repository type %s is not a struct", t))
	}
	cols := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		cols = append(cols, tag)
	}
	return cols
}

func (r Repository[T]) selectList() string {
	parts := make([]string, len(r.columns))
	for i, c := range r.columns {
		parts[i] = ident(c)
	}
	return strings.Join(parts, ", ")
}

func (r Repository[T]) selectSQL(opts QueryOptions) (string, []any) {
	var args argList
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(r.selectList())
	b.WriteString(" FROM ")
	b.WriteString(ident(r.table))
	b.WriteString(whereClause(opts.Where, &args))
	b.WriteString(orderClause(opts.OrderBy))
	if opts.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(args.add(opts.Limit))
	}
	if opts.Offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(args.add(opts.Offset))
	}
	return b.String(), args.values
}

func (r Repository[T]) countSQL(where Filter) (string, []any) {
	var args argList
	sql := "SELECT count(*) FROM " + ident(r.table) + whereClause(where, &args)
	return sql, args.values
}

func (r Repository[T]) insertSQL(rows []Values) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, ErrEmptyInsert
	}
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	slices.Sort(cols)

	var args argList
	tuples := make([]string, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return "", nil, ErrColumnMismatch
		}
		ph := make([]string, len(cols))
		for j, c := range cols {
			v, ok := row[c]
			if !ok {
				return "", nil, ErrColumnMismatch
			}
			ph[j] = args.value(v)
		}
		tuples[i] = "(" + strings.Join(ph, ", ") + ")"
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
	}
	sql := "INSERT INTO " + ident(r.table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES " + strings.Join(tuples, ", ") +
		" RETURNING " + r.selectList()
	return sql, args.values, nil
}

func (r Repository[T]) updateSQL(where Filter, set Values) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, ErrEmptyUpdate
	}
	cols := make([]string, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	slices.Sort(cols)

	var args argList
	assigns := make([]string, len(cols))
	for i, c := range cols {
		assigns[i] = ident(c) + " = " + args.value(set[c])
	}
	sql := "UPDATE " + ident(r.table) + " SET " + strings.Join(assigns, ", ") +
		whereClause(where, &args) + " RETURNING " + r.selectList()
	return sql, args.values, nil
}

func (r Repository[T]) deleteSQL(where Filter) (string, []any) {
	var args argList
	sql := "DELETE FROM " + ident(r.table) + whereClause(where, &args)
	return sql, args.values
}

func (r Repository[T]) collect(ctx context.Context, q Querier, sql string, args []any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: query %s: %w", r.table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("pg: scan %s: %w", r.table, err)
	}
	return items, nil
}

// Find returns every row matching opts, possibly none.
func (r Repository[T]) Find(ctx context.Context, q Querier, opts QueryOptions) ([]T, error) {
	sql, args := r.selectSQL(opts)
	return r.collect(ctx, q, sql, args)
}

// First returns the first row matching opts or ErrNotFound.
func (r Repository[T]) First(ctx context.Context, q Querier, opts QueryOptions) (T, error) {
	opts.Limit = 1
	sql, args := r.selectSQL(opts)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("pg: query %s: %w", r.table, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, ErrNotFound
		}
		return item, fmt.Errorf("pg: scan %s: %w", r.table, err)
	}
	return item, nil
}

// Count returns the number of rows matching where. A nil filter counts all rows.
func (r Repository[T]) Count(ctx context.Context, q Querier, where Filter) (int64, error) {
	sql, args := r.countSQL(where)
	var n int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("pg: count %s: %w", r.table, err)
	}
	return n, nil
}

// Insert writes all rows in one statement and returns them as stored.
// Every row must set the same columns.
func (r Repository[T]) Insert(ctx context.Context, q Querier, rows ...Values) ([]T, error) {
	sql, args, err := r.insertSQL(rows)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, q, sql, args)
}

// InsertOne writes a single row and returns it as stored.
func (r Repository[T]) InsertOne(ctx context.Context, q Querier, row Values) (T, error) {
	items, err := r.Insert(ctx, q, row)
	if err != nil {
		var zero T
		return zero, err
	}
	return items[0], nil
}

// Update sets columns on every row matching where and returns the updated rows.
func (r Repository[T]) Update(ctx context.Context, q Querier, where Filter, set Values) ([]T, error) {
	sql, args, err := r.updateSQL(where, set)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, q, sql, args)
}

// Delete removes rows matching where and reports how many were removed.
func (r Repository[T]) Delete(ctx context.Context, q Querier, where Filter) (int64, error) {
	sql, args := r.deleteSQL(where)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("pg: delete %s: %w", r.table, err)
	}
	return tag.RowsAffected(), nil
}
