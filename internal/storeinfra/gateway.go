package storeinfra

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-newsnet/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"
)

// bunGateway implements store.Gateway on the connection pool bun manages.
// Statements go to the driver with their arguments bound; bun only supplies
// the dialect and quotes identifiers.
type bunGateway struct {
	db       *bun.DB
	numbered bool
	hook     *queryHook
}

// GatewayOption configures the gateway.
type GatewayOption func(*bunGateway)

// WithQueryObserver reports every statement's timing and outcome to o.
func WithQueryObserver(o QueryObserver) GatewayOption {
	return func(g *bunGateway) {
		g.hook.observer = o
	}
}

// WithLogger sets the logger used for failed and slow statements.
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *bunGateway) {
		if l != nil {
			g.hook.logger = l
		}
	}
}

// WithSlowQuery logs statements running at least d. Zero disables it.
func WithSlowQuery(d time.Duration) GatewayOption {
	return func(g *bunGateway) {
		g.hook.slow = d
	}
}

// NewGateway wraps a bun database as a store.Gateway.
func NewGateway(db *bun.DB, opts ...GatewayOption) store.Gateway {
	g := &bunGateway{
		db:       db,
		numbered: db.Dialect().Name() == dialect.PG,
		hook:     &queryHook{logger: zap.NewNop()},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Query implements store.Gateway.Query.
func (g *bunGateway) Query(ctx context.Context, query string, args ...any) (out []store.Row, err error) {
	start := time.Now()
	defer func() { g.hook.after(opQuery, query, start, err) }()

	rows, err := g.db.DB.QueryContext(ctx, g.rebind(query), args...)
	if err != nil {
		return nil, &store.Error{Op: opQuery, Query: query, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &store.Error{Op: opQuery, Query: query, Err: err}
	}

	out = []store.Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &store.Error{Op: opQuery, Query: query, Err: err}
		}

		row := make(store.Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.Error{Op: opQuery, Query: query, Err: err}
	}
	return out, nil
}

// Count implements store.Gateway.Count.
func (g *bunGateway) Count(ctx context.Context, query string, args ...any) (total int64, err error) {
	start := time.Now()
	defer func() { g.hook.after(opCount, query, start, err) }()

	if err := g.db.DB.QueryRowContext(ctx, g.rebind(query), args...).Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, &store.Error{Op: opCount, Query: query, Err: err}
	}
	return total, nil
}

// Increment implements store.Gateway.Increment.
func (g *bunGateway) Increment(ctx context.Context, inc store.Increment) (err error) {
	query := "UPDATE " + g.ident(inc.Table) +
		" SET " + g.ident(inc.Column) + " = " + g.ident(inc.Column) + " + ?" +
		" WHERE " + g.ident(inc.KeyColumn) + " = ?"

	start := time.Now()
	defer func() { g.hook.after(opIncrement, query, start, err) }()

	res, err := g.db.DB.ExecContext(ctx, g.rebind(query), inc.By, inc.Key)
	if err != nil {
		return &store.Error{Op: opIncrement, Query: query, Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return &store.Error{Op: opIncrement, Query: query, Err: err}
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ident quotes a table or column name for the dialect.
func (g *bunGateway) ident(name string) string {
	return g.db.Formatter().FormatQuery("?", bun.Ident(name))
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres. Statements
// must not carry a literal question mark.
func (g *bunGateway) rebind(query string) string {
	if !g.numbered || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
