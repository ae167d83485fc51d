package core

import (
	"errors"
	"fmt"
)

// Predefined errors returned by sqlbridge operations.
var (
	// ErrNoRows is returned when a query that expects a row returns no results.
	ErrNoRows = errors.New("no rows in result set")
	// ErrUnsupportedDialect is returned when no dialect is registered for a driver name.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
)

// ValidationError reports malformed builder input detected at accumulation or
// build time, before any SQL reaches the driver.
type ValidationError struct {
	Op     string // the builder call that failed, e.g. "Limit", "Insert"
	Reason string
}

func (e *ValidationError) Error() string {
	return "sqlbridge: " + e.Op + ": " + e.Reason
}

// UnsupportedOperationError reports an operation the active dialect cannot
// express, such as REPLACE on PostgreSQL. Raised before execution.
type UnsupportedOperationError struct {
	Op      string
	Dialect string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("sqlbridge: %s is not supported by dialect %s", e.Op, e.Dialect)
}

// ExecutionError wraps an error the driver or connection returned while
// executing a statement. The original error is reachable via Unwrap; no
// retry is attempted since SQL execution is not assumed idempotent.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return "sqlbridge: execute: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
