package pg

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Filter is a WHERE predicate. Only the constructors in this package
// produce filters, so column names never come from user input.
type Filter interface {
	build(args *argList) string
}

type argList struct {
	values []any
}

func (a *argList) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// value is add for assigned column values; an Expr is inlined.
func (a *argList) value(v any) string {
	if e, ok := v.(Expr); ok {
		return string(e)
	}
	return a.add(v)
}

func ident(column string) string {
	return pgx.Identifier(strings.Split(column, ".")).Sanitize()
}

type eqFilter struct {
	column string
	value  any
}

func (f eqFilter) build(args *argList) string {
	return ident(f.column) + " = " + args.add(f.value)
}

// Eq matches rows where column equals value.
func Eq(column string, value any) Filter {
	return eqFilter{column: column, value: value}
}

type inFilter struct {
	column string
	values any
}

func (f inFilter) build(args *argList) string {
	return ident(f.column) + " = ANY(" + args.add(f.values) + ")"
}

// In matches rows where column is one of values. values must be a slice.
func In[V any](column string, values []V) Filter {
	return inFilter{column: column, values: values}
}

// IDs matches rows by primary key.
func IDs[V any](ids ...V) Filter {
	return In("id", ids)
}

type ilikeFilter struct {
	pattern string
	columns []string
}

func (f ilikeFilter) build(args *argList) string {
	if len(f.columns) == 0 {
		return "TRUE"
	}
	p := args.add(f.pattern)
	parts := make([]string, len(f.columns))
	for i, c := range f.columns {
		parts[i] = ident(c) + " ILIKE " + p
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// ILike is a case-insensitive substring match of text against any of columns.
// LIKE wildcards in text are escaped.
func ILike(text string, columns ...string) Filter {
	return ilikeFilter{pattern: "%" + escapeLike(text) + "%", columns: columns}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type andFilter []Filter

func (f andFilter) build(args *argList) string {
	parts := make([]string, 0, len(f))
	for _, sub := range f {
		if sub == nil {
			continue
		}
		parts = append(parts, sub.build(args))
	}
	switch len(parts) {
	case 0:
		return "TRUE"
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// And combines filters. nil entries are skipped.
func And(filters ...Filter) Filter {
	return andFilter(filters)
}

// Order is an ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Asc orders by column ascending.
func Asc(column string) Order { return Order{Column: column} }

// Desc orders by column descending.
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// QueryOptions narrows a Find or First call.
type QueryOptions struct {
	Where   Filter
	OrderBy []Order
	Limit   int
	Offset  int
}

func whereClause(f Filter, args *argList) string {
	if f == nil {
		return ""
	}
	return " WHERE " + f.build(args)
}

func orderClause(orders []Order) string {
	if len(orders) == 0 {
		return ""
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = ident(o.Column)
		if o.Desc {
			parts[i] += " DESC"
		}
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
