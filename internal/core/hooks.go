package core

import (
	"context"
	"strings"
	"time"
)

// QueryEvent contains information about an executed query, passed to
// QueryHook callbacks for logging, metrics, or debugging.
type QueryEvent struct {
	// SQL is the executed SQL query string
	SQL string
	// Args are the query parameters
	Args []interface{}
	// Duration is how long the query took to execute
	Duration time.Duration
	// RowsAffected is the number of rows affected or returned
	RowsAffected int64
	// Error is any error that occurred during query execution (nil on success)
	Error error
	// Operation is the SQL operation type (SELECT, INSERT, UPDATE, DELETE, UNKNOWN)
	Operation string
}

// QueryHook is a callback function invoked after each query execution.
//
// Example:
//
//	a, _ := sqlbridge.Open("postgres", dsn,
//	    sqlbridge.WithQueryHook(func(ctx context.Context, e sqlbridge.QueryEvent) {
//	        slog.Info("query", "sql", e.SQL, "duration", e.Duration, "err", e.Error)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

// DetectOperation attempts to detect the SQL operation type from the query string.
// Returns one of: SELECT, INSERT, REPLACE, UPDATE, DELETE, or UNKNOWN.
func DetectOperation(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	switch {
	case strings.HasPrefix(sql, "SELECT"), strings.HasPrefix(sql, "WITH"):
		return "SELECT"
	case strings.HasPrefix(sql, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(sql, "REPLACE"):
		return "REPLACE"
	case strings.HasPrefix(sql, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(sql, "DELETE"), strings.HasPrefix(sql, "TRUNCATE"):
		return "DELETE"
	}
	return "UNKNOWN"
}

// invokeHook calls the query hook if set.
func (a *Adapter) invokeHook(ctx context.Context, event QueryEvent) {
	if a.queryHook != nil {
		a.queryHook(ctx, event)
	}
}
