package record

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// Query is an unexecuted SELECT over one table. Builder methods return a new
// Query and leave the receiver unchanged. Executing a query flushes the
// session first when autoflush is on, and merges results into the identity
// map.
type Query[T any] struct {
	m      *Manager[T]
	where  []squirrel.Sqlizer
	order  []string
	limit  uint64
	offset uint64
	err    error
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.where = slices.Clone(q.where)
	c.order = slices.Clone(q.order)
	return &c
}

// Where adds predicates, joined with AND.
func (q *Query[T]) Where(preds ...squirrel.Sqlizer) *Query[T] {
	c := q.clone()
	c.where = append(c.where, preds...)
	return c
}

// WhereExpr adds a raw SQL predicate with ? placeholders.
func (q *Query[T]) WhereExpr(sql string, args ...any) *Query[T] {
	return q.Where(squirrel.Expr(sql, args...))
}

// FilterBy adds column equality predicates. Unknown columns and unresolvable
// Ref values are reported when the query executes.
func (q *Query[T]) FilterBy(fields Fields) *Query[T] {
	c := q.clone()
	if c.err != nil {
		return c
	}
	eq, err := q.m.t.eq(fields)
	if err != nil {
		c.err = err
		return c
	}
	if len(eq) > 0 {
		c.where = append(c.where, eq)
	}
	return c
}

// OrderBy appends ORDER BY expressions such as "created_at DESC".
func (q *Query[T]) OrderBy(exprs ...string) *Query[T] {
	c := q.clone()
	c.order = append(c.order, exprs...)
	return c
}

// Limit caps the number of rows. Zero means no limit.
func (q *Query[T]) Limit(n uint64) *Query[T] {
	c := q.clone()
	c.limit = n
	return c
}

// Offset skips n rows.
func (q *Query[T]) Offset(n uint64) *Query[T] {
	c := q.clone()
	c.offset = n
	return c
}

// Err returns the first error recorded while building the query.
func (q *Query[T]) Err() error { return q.err }

func (q *Query[T]) filtered(columns ...string) squirrel.SelectBuilder {
	sb := builder.Select(columns...).From(q.m.t.name)
	for _, w := range q.where {
		sb = sb.Where(w)
	}
	return sb
}

func (q *Query[T]) selectBuilder() squirrel.SelectBuilder {
	sb := q.filtered(q.m.t.Columns()...)
	if len(q.order) > 0 {
		sb = sb.OrderBy(q.order...)
	}
	if q.limit > 0 {
		sb = sb.Limit(q.limit)
	}
	if q.offset > 0 {
		sb = sb.Offset(q.offset)
	}
	return sb
}

// ToSQL renders the statement with PostgreSQL placeholders.
func (q *Query[T]) ToSQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	return q.selectBuilder().ToSql()
}

// All executes the query and returns every matching instance.
func (q *Query[T]) All(ctx context.Context) ([]*T, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}
	conn, err := q.m.s.queryConn(ctx)
	if err != nil {
		return nil, err
	}

	var rows []*T
	if err := pgxscan.Select(ctx, conn, &rows, sql, args...); err != nil {
		return nil, err
	}
	return q.m.load(rows), nil
}

// First returns the first matching instance or nil.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	rows, err := q.Limit(1).All(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// OneOrNone returns the only matching instance, nil when nothing matches,
// and ErrAmbiguousResult when more than one row matches.
func (q *Query[T]) OneOrNone(ctx context.Context) (*T, error) {
	lq := q
	if q.limit == 0 || q.limit > 2 {
		lq = q.Limit(2)
	}
	rows, err := lq.All(ctx)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, fmt.Errorf("%w: table %s", ErrAmbiguousResult, q.m.t.name)
	}
}

// One is OneOrNone that fails with ErrNoResult when nothing matches.
func (q *Query[T]) One(ctx context.Context) (*T, error) {
	inst, err := q.OneOrNone(ctx)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: table %s", ErrNoResult, q.m.t.name)
	}
	return inst, nil
}

// Count returns the number of matching rows, ignoring order, limit and offset.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	sql, args, err := q.filtered("count(*)").ToSql()
	if err != nil {
		return 0, err
	}
	conn, err := q.m.s.queryConn(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := conn.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether any row matches.
func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	sql, args, err := q.filtered("1").
		Limit(1).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	conn, err := q.m.s.queryConn(ctx)
	if err != nil {
		return false, err
	}

	var ok bool
	if err := conn.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
