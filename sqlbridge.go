// Package sqlbridge is a dialect-aware database access toolkit for Go. It
// lets callers describe queries structurally (table, columns, predicates,
// pagination, mutations) and translates them into correct SQL text and
// positional parameter bindings for PostgreSQL, MySQL, or SQLite, executed
// through one Adapter abstraction that also tracks registered models.
package sqlbridge

import (
	"github.com/coregx/sqlbridge/internal/core"
	"github.com/coregx/sqlbridge/internal/dialects"
	"github.com/coregx/sqlbridge/internal/logger"
	"github.com/coregx/sqlbridge/internal/tracer"
)

type (
	// Adapter owns one live connection, its dialect, and the model registry.
	Adapter = core.Adapter
	// Dialect describes one supported SQL dialect: identifier quoting,
	// placeholder style, and per-dialect statement shapes.
	Dialect = dialects.Dialect
	// Option is a functional option for configuring an Adapter.
	Option = core.Option
	// Query is a finalized statement: SQL text plus ordered parameters.
	Query = core.Query
	// TableQuery accumulates one query against a single table.
	TableQuery = core.TableQuery
	// Row is one result row as a column-to-value mapping.
	Row = core.Row
	// Params holds named parameter values for raw queries.
	Params = core.Params
	// QueryEvent describes one executed query, passed to hooks.
	QueryEvent = core.QueryEvent
	// QueryHook is a callback invoked after each query execution.
	QueryHook = core.QueryHook

	// Model is implemented by types registered with an Adapter.
	Model = core.Model
	// ModelBinding records one registered model and its Adapter.
	ModelBinding = core.ModelBinding
	// Schema maps field names to their specs.
	Schema = core.Schema
	// FieldSpec describes one declared model field.
	FieldSpec = core.FieldSpec
	// FieldType is the semantic type of a model field.
	FieldType = core.FieldType
	// SchemaProvider is implemented by models declaring a field schema.
	SchemaProvider = core.SchemaProvider

	// ValidationError reports malformed builder input.
	ValidationError = core.ValidationError
	// UnsupportedOperationError reports an operation the dialect cannot express.
	UnsupportedOperationError = core.UnsupportedOperationError
	// ExecutionError wraps a driver error from statement execution.
	ExecutionError = core.ExecutionError

	// Logger is the structured logging interface consumed by the adapter.
	Logger = logger.Logger
	// Tracer starts spans around query execution.
	Tracer = tracer.Tracer
)

// Supported field types.
const (
	FieldString = core.FieldString
	FieldInt    = core.FieldInt
	FieldFloat  = core.FieldFloat
	FieldBool   = core.FieldBool
	FieldTime   = core.FieldTime
	FieldBytes  = core.FieldBytes
)

// Re-export core functions.
var (
	Open = core.Open
	Wrap = core.Wrap

	WithMaxOpenConns      = core.WithMaxOpenConns
	WithMaxIdleConns      = core.WithMaxIdleConns
	WithStmtCacheCapacity = core.WithStmtCacheCapacity
	WithLogger            = core.WithLogger
	WithTracer            = core.WithTracer
	WithQueryHook         = core.WithQueryHook

	NewSlogAdapter = logger.NewSlogAdapter
	NewOtelTracer  = tracer.NewOtelTracer

	DetectOperation = core.DetectOperation
)

// Sentinel errors.
var (
	ErrNoRows             = core.ErrNoRows
	ErrUnsupportedDialect = core.ErrUnsupportedDialect
)
