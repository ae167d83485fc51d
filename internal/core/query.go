package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/coregx/sqlbridge/internal/tracer"
)

// Query is a finalized statement: SQL text plus the bound parameter list in
// placeholder order. It is produced by TableQuery.Build, by the raw
// passthrough on Adapter, or by Adapter.NewQuery for named parameters.
type Query struct {
	sql        string
	params     []interface{}
	paramNames []string // set only for named-parameter queries
	adapter    *Adapter
	err        error // deferred Bind error
}

// SQL returns the generated SQL text.
func (q *Query) SQL() string { return q.sql }

// Params returns the bound parameter list, positionally matching the
// placeholders in SQL.
func (q *Query) Params() []interface{} { return q.params }

// prepareStatement prepares the SQL through the adapter's LRU statement
// cache. The returned bool reports whether the caller must close the
// statement (only when caching was bypassed).
func (q *Query) prepareStatement(ctx context.Context) (*sql.Stmt, bool, error) {
	if stmt, ok := q.adapter.stmtCache.Get(q.sql); ok {
		return stmt, false, nil
	}

	stmt, err := q.adapter.sqlDB.PrepareContext(ctx, q.sql)
	if err != nil {
		return nil, false, err
	}
	q.adapter.stmtCache.Set(q.sql, stmt)
	return stmt, false, nil
}

// finish records logging, tracing, and hook output for one execution.
func (q *Query) finish(ctx context.Context, span tracer.Span, start time.Time, rows int64, err error) {
	elapsed := time.Since(start)
	op := DetectOperation(q.sql)

	q.adapter.logQuery(q.sql, q.params, elapsed, rows, err)

	if span != nil {
		tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
			SQL:          q.sql,
			Args:         q.params,
			Duration:     elapsed,
			RowsAffected: rows,
			Error:        err,
			Database:     q.adapter.driverName,
			Operation:    op,
		})
	}

	q.adapter.invokeHook(ctx, QueryEvent{
		SQL:          q.sql,
		Args:         q.params,
		Duration:     elapsed,
		RowsAffected: rows,
		Error:        err,
		Operation:    op,
	})
}

// Execute runs the statement and returns the driver result. Driver errors
// come back wrapped as ExecutionError with the original reachable via
// errors.Unwrap.
func (q *Query) Execute(ctx context.Context) (sql.Result, error) {
	if q.err != nil {
		return nil, q.err
	}

	ctx, span := q.adapter.tracer.StartSpan(ctx, "sqlbridge.query.execute")
	defer span.End()
	start := time.Now()

	stmt, needsClose, err := q.prepareStatement(ctx)
	if err != nil {
		q.finish(ctx, span, start, 0, err)
		return nil, &ExecutionError{SQL: q.sql, Err: err}
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}

	res, err := stmt.ExecContext(ctx, q.params...)
	var affected int64
	if res != nil {
		affected, _ = res.RowsAffected()
	}
	q.finish(ctx, span, start, affected, err)

	if err != nil {
		return nil, &ExecutionError{SQL: q.sql, Err: err}
	}
	return res, nil
}

// All runs the statement and returns every result row in order.
func (q *Query) All(ctx context.Context) ([]Row, error) {
	if q.err != nil {
		return nil, q.err
	}

	ctx, span := q.adapter.tracer.StartSpan(ctx, "sqlbridge.query.all")
	defer span.End()
	start := time.Now()

	stmt, needsClose, err := q.prepareStatement(ctx)
	if err != nil {
		q.finish(ctx, span, start, 0, err)
		return nil, &ExecutionError{SQL: q.sql, Err: err}
	}
	if needsClose {
		defer func() { _ = stmt.Close() }()
	}

	rows, err := stmt.QueryContext(ctx, q.params...)
	if err != nil {
		q.finish(ctx, span, start, 0, err)
		return nil, &ExecutionError{SQL: q.sql, Err: err}
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	q.finish(ctx, span, start, int64(len(out)), err)
	if err != nil {
		return nil, &ExecutionError{SQL: q.sql, Err: err}
	}
	return out, nil
}

// One runs the statement and returns the first row, or ErrNoRows when the
// result set is empty.
func (q *Query) One(ctx context.Context) (Row, error) {
	rows, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}
