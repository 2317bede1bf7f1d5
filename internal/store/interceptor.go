package store

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QueryInterceptor logs every statement at debug level before handing it to
// the wrapped Querier.
type QueryInterceptor struct {
	q      Querier
	logger *zap.SugaredLogger
}

func NewQueryInterceptor(q Querier) QueryInterceptor {
	return QueryInterceptor{q: q, logger: zap.S().Named("store")}
}

func (i QueryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	i.logger.Debugw("exec", "query", query, "args", len(args))
	return i.q.ExecContext(ctx, query, args...)
}

func (i QueryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	i.logger.Debugw("query", "query", query, "args", args)
	return i.q.QueryContext(ctx, query, args...)
}

func (i QueryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	i.logger.Debugw("query row", "query", query, "args", args)
	return i.q.QueryRowContext(ctx, query, args...)
}
