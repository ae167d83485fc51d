// Package core provides the core database functionality for sqlbridge:
// connection ownership, dialect-aware query building and translation,
// statement caching, the model registry, and result scanning.
package core

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/coregx/sqlbridge/internal/cache"
	"github.com/coregx/sqlbridge/internal/dialects"
	"github.com/coregx/sqlbridge/internal/logger"
	"github.com/coregx/sqlbridge/internal/tracer"
)

// Adapter owns one live connection, its Dialect, and the registry of models
// bound to it. All SQL execution for that connection goes through it.
//
// An Adapter serializes nothing itself: callers issuing concurrent statements
// against one Adapter must coordinate or use independent Adapters. Each
// builder execution translates with a fresh placeholder counter, so sharing
// an Adapter across builders never corrupts parameter ordering.
type Adapter struct {
	sqlDB      *sql.DB
	driverName string
	dialect    dialects.Dialect
	stmtCache  *cache.StmtCache
	logger     logger.Logger
	sanitizer  *logger.Sanitizer
	tracer     tracer.Tracer
	queryHook  QueryHook
	registry   modelRegistry

	// lastIDs tracks driver-reported insert ids per table for dialects
	// whose drivers return them (MySQL, SQLite).
	mu      sync.Mutex
	lastIDs map[string]int64
}

// Option is a functional option for configuring an Adapter.
type Option func(*Adapter)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(a *Adapter) {
		a.sqlDB.SetMaxOpenConns(n)
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(a *Adapter) {
		a.sqlDB.SetMaxIdleConns(n)
	}
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
func WithStmtCacheCapacity(capacity int) Option {
	return func(a *Adapter) {
		a.stmtCache = cache.NewStmtCacheWithCapacity(capacity)
	}
}

// WithLogger sets the structured logger used for query logging.
func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

// WithTracer sets the tracer wrapped around every execution.
func WithTracer(t tracer.Tracer) Option {
	return func(a *Adapter) {
		a.tracer = t
	}
}

// WithQueryHook sets a callback invoked after each query execution.
func WithQueryHook(h QueryHook) Option {
	return func(a *Adapter) {
		a.queryHook = h
	}
}

// Open creates an Adapter over a new connection for the given driver.
func Open(driverName, dsn string, opts ...Option) (*Adapter, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	a, err := Wrap(sqlDB, driverName, opts...)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return a, nil
}

// Wrap creates an Adapter over an existing *sql.DB. The driver name selects
// the dialect; ownership of the connection transfers to the Adapter.
func Wrap(sqlDB *sql.DB, driverName string, opts ...Option) (*Adapter, error) {
	dialect, ok := dialects.Lookup(driverName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, driverName)
	}

	a := &Adapter{
		sqlDB:      sqlDB,
		driverName: driverName,
		dialect:    dialect,
		stmtCache:  cache.NewStmtCache(),
		sanitizer:  logger.NewSanitizer(nil),
		tracer:     &tracer.NoopTracer{},
		lastIDs:    make(map[string]int64),
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Close releases all database resources.
func (a *Adapter) Close() error {
	a.stmtCache.Clear()
	return a.sqlDB.Close()
}

// DriverName returns the driver the Adapter was opened with.
func (a *Adapter) DriverName() string { return a.driverName }

// Dialect returns the Adapter's dialect.
func (a *Adapter) Dialect() dialects.Dialect { return a.dialect }

// Table returns a new query builder scoped to the given table.
func (a *Adapter) Table(name string) *TableQuery {
	return &TableQuery{adapter: a, table: name}
}

// AddModel binds the model's table identity to this Adapter and appends it
// to the ordered registry. Registering the same model type again re-binds it
// in place (last write wins).
func (a *Adapter) AddModel(m Model) *ModelBinding {
	return a.registry.add(a, m)
}

// Models returns the registered bindings in registration order.
func (a *Adapter) Models() []*ModelBinding {
	return a.registry.all()
}

// Query executes verbatim SQL expected to return rows. This is a trust
// boundary: the text is not validated and params must already be in
// placeholder order.
func (a *Adapter) Query(ctx context.Context, sqlText string, args ...interface{}) ([]Row, error) {
	q := &Query{sql: sqlText, params: args, adapter: a}
	return q.All(ctx)
}

// Exec executes verbatim SQL that does not return rows. Same trust boundary
// as Query.
func (a *Adapter) Exec(ctx context.Context, sqlText string, args ...interface{}) (sql.Result, error) {
	q := &Query{sql: sqlText, params: args, adapter: a}
	return q.Execute(ctx)
}

// LastInsertID returns the id of the most recent insert into table. MySQL
// and SQLite use the driver-reported id tracked by this Adapter; PostgreSQL
// runs the dialect's follow-up query. Resolves to 0, not an error, when
// nothing has been inserted.
func (a *Adapter) LastInsertID(ctx context.Context, table, pk string) (int64, error) {
	lookup := a.dialect.LastInsertIDQuery(
		a.dialect.QuoteIdentifier(table),
		a.dialect.QuoteIdentifier(pk),
	)
	if lookup == "" {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.lastIDs[table], nil
	}

	var id int64
	if err := a.sqlDB.QueryRowContext(ctx, lookup).Scan(&id); err != nil {
		return 0, &ExecutionError{SQL: lookup, Err: err}
	}
	return id, nil
}

// recordInsertID stores a driver-reported insert id for the table.
// Drivers without LastInsertId support (lib/pq) error out and are skipped.
func (a *Adapter) recordInsertID(table string, res sql.Result) {
	if res == nil {
		return
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return
	}
	a.mu.Lock()
	a.lastIDs[table] = id
	a.mu.Unlock()
}

// TruncateModels removes all rows from every registered table, in
// registration order. The first table-level failure stops the sweep and is
// returned wrapped with the table name; no cross-table transaction is used.
func (a *Adapter) TruncateModels(ctx context.Context) error {
	for _, b := range a.Models() {
		stmt := a.dialect.TruncateSQL(a.dialect.QuoteIdentifier(b.Table()))
		if _, err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("truncate %s: %w", b.Table(), err)
		}

		a.mu.Lock()
		delete(a.lastIDs, b.Table())
		a.mu.Unlock()
	}
	return nil
}

// Ping verifies the connection is alive.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.sqlDB.PingContext(ctx)
}

// logQuery emits one structured log line for an executed statement.
func (a *Adapter) logQuery(sqlText string, params []interface{}, elapsed time.Duration, rows int64, err error) {
	if a.logger == nil {
		return
	}

	masked := a.sanitizer.FormatParams(a.sanitizer.MaskParams(sqlText, params))
	if err != nil {
		a.logger.Error("query failed",
			"sql", sqlText,
			"params", masked,
			"duration_ms", elapsed.Milliseconds(),
			"database", a.driverName,
			"error", err,
		)
		return
	}
	a.logger.Info("query executed",
		"sql", sqlText,
		"params", masked,
		"duration_ms", elapsed.Milliseconds(),
		"rows", rows,
		"database", a.driverName,
	)
}
