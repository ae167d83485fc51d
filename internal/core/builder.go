package core

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coregx/sqlbridge/internal/dateutil"
	"github.com/coregx/sqlbridge/internal/dialects"
)

// opKind is the finalized operation of a TableQuery.
type opKind int

const (
	opSelect opKind = iota
	opInsert
	opReplace
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opInsert:
		return "insert"
	case opReplace:
		return "replace"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "select"
	}
}

// allowedOperators is the closed set of predicate operators. Operators are
// interpolated into SQL text, so anything outside this set is rejected.
var allowedOperators = map[string]bool{
	"=": true, "!=": true, "<>": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true, "NOT LIKE": true,
}

// predicate is one accumulated WHERE clause.
type predicate struct {
	column string
	op     string
	value  interface{}
	or     bool // joined to the previous clause with OR instead of AND
	not    bool
}

// TableQuery accumulates one query against a single table and translates it
// into SQL text plus an ordered parameter list for the Adapter's dialect.
//
// The builder is sticky on errors: the first malformed call records a
// ValidationError and every later call is a no-op, so chains stay fluent and
// the error surfaces at Build or Execute. Nothing reaches the driver before
// the representation validates.
//
// Example:
//
//	rows, err := adapter.Table("users").
//	    Select("email", "age").
//	    Where("status", "active").
//	    OrWhere("age", ">", 65).
//	    Limit(10).
//	    All(ctx)
type TableQuery struct {
	adapter *Adapter
	table   string

	op    opKind
	opSet bool

	columns    []string
	wheres     []predicate
	limit      int
	hasLimit   bool
	offset     int
	hasOffset  bool
	insertRows []Row
	insertCols []string // canonical column order, fixed by the first row
	setRow     Row

	err error
}

// fail records the first builder error.
func (tq *TableQuery) fail(op, reason string) *TableQuery {
	if tq.err == nil {
		tq.err = &ValidationError{Op: op, Reason: reason}
	}
	return tq
}

// setOp fixes the operation kind. The kind is set by exactly one mutation
// call and is immutable afterwards.
func (tq *TableQuery) setOp(op opKind, name string) bool {
	if tq.err != nil {
		return false
	}
	if tq.opSet {
		tq.fail(name, "operation kind already set to "+tq.op.String())
		return false
	}
	tq.op = op
	tq.opSet = true
	return true
}

// Select appends columns to the selected-column list. Never calling it
// selects all columns. Multiple calls append in order of first appearance.
func (tq *TableQuery) Select(cols ...string) *TableQuery {
	if tq.err != nil {
		return tq
	}
	tq.columns = append(tq.columns, cols...)
	return tq
}

// Where appends a predicate joined by AND. The two-argument form compares
// with "="; the three-argument form takes an explicit operator:
//
//	Where("status", "active")
//	Where("age", ">=", 18)
func (tq *TableQuery) Where(column string, args ...interface{}) *TableQuery {
	return tq.addWhere("Where", column, false, false, args)
}

// OrWhere appends a predicate joined by OR.
func (tq *TableQuery) OrWhere(column string, args ...interface{}) *TableQuery {
	return tq.addWhere("OrWhere", column, true, false, args)
}

// NotWhere appends a negated predicate joined by AND.
func (tq *TableQuery) NotWhere(column string, args ...interface{}) *TableQuery {
	return tq.addWhere("NotWhere", column, false, true, args)
}

// OrNotWhere appends a negated predicate joined by OR.
func (tq *TableQuery) OrNotWhere(column string, args ...interface{}) *TableQuery {
	return tq.addWhere("OrNotWhere", column, true, true, args)
}

func (tq *TableQuery) addWhere(name, column string, or, not bool, args []interface{}) *TableQuery {
	if tq.err != nil {
		return tq
	}
	if column == "" {
		return tq.fail(name, "column must be a non-empty string")
	}

	var op string
	var value interface{}
	switch len(args) {
	case 1:
		op, value = "=", args[0]
	case 2:
		s, ok := args[0].(string)
		if !ok {
			return tq.fail(name, "operator must be a string")
		}
		op, value = strings.ToUpper(strings.TrimSpace(s)), args[1]
	default:
		return tq.fail(name, "expects (column, value) or (column, operator, value)")
	}

	if !allowedOperators[op] {
		return tq.fail(name, "unsupported operator "+fmt.Sprintf("%q", op))
	}

	tq.wheres = append(tq.wheres, predicate{column: column, op: op, value: value, or: or, not: not})
	return tq
}

// Limit sets the maximum number of rows returned. n must be non-negative.
func (tq *TableQuery) Limit(n int) *TableQuery {
	if tq.err != nil {
		return tq
	}
	if n < 0 {
		return tq.fail("Limit", "must be a non-negative integer")
	}
	tq.limit = n
	tq.hasLimit = true
	return tq
}

// Offset sets the number of rows skipped. n must be non-negative.
func (tq *TableQuery) Offset(n int) *TableQuery {
	if tq.err != nil {
		return tq
	}
	if n < 0 {
		return tq.fail("Offset", "must be a non-negative integer")
	}
	tq.offset = n
	tq.hasOffset = true
	return tq
}

// Insert sets the payload rows for an INSERT. A single row or several rows
// may be given; the first row's columns (in sorted order, for deterministic
// SQL) define the column list and every row must match it exactly.
func (tq *TableQuery) Insert(rows ...Row) *TableQuery {
	if !tq.setOp(opInsert, "Insert") {
		return tq
	}
	return tq.setPayload("Insert", rows)
}

// Replace sets a single payload row for a REPLACE INTO. Fails with
// UnsupportedOperationError when the dialect has no REPLACE.
func (tq *TableQuery) Replace(row Row) *TableQuery {
	if tq.err == nil && !tq.adapter.dialect.SupportsReplace() {
		tq.err = &UnsupportedOperationError{Op: "REPLACE", Dialect: tq.adapter.dialect.Name()}
		return tq
	}
	if !tq.setOp(opReplace, "Replace") {
		return tq
	}
	return tq.setPayload("Replace", []Row{row})
}

func (tq *TableQuery) setPayload(name string, rows []Row) *TableQuery {
	if len(rows) == 0 {
		return tq.fail(name, "requires at least one row")
	}
	if len(rows[0]) == 0 {
		return tq.fail(name, "row must have a non-empty column set")
	}

	cols := sortedColumns(rows[0])
	for _, row := range rows[1:] {
		if len(row) != len(cols) {
			return tq.fail(name, "all rows must share the same column set")
		}
		for _, c := range cols {
			if _, ok := row[c]; !ok {
				return tq.fail(name, "all rows must share the same column set")
			}
		}
	}

	tq.insertRows = rows
	tq.insertCols = cols
	return tq
}

// Update sets the operation to UPDATE with the given SET row. Accumulated
// predicates become the WHERE of the update.
func (tq *TableQuery) Update(row Row) *TableQuery {
	if !tq.setOp(opUpdate, "Update") {
		return tq
	}
	if len(row) == 0 {
		return tq.fail("Update", "row must have a non-empty column set")
	}
	tq.setRow = row
	return tq
}

// Delete sets the operation to DELETE. Accumulated predicates become the
// WHERE of the delete.
func (tq *TableQuery) Delete() *TableQuery {
	tq.setOp(opDelete, "Delete")
	return tq
}

// Build freezes the accumulated representation and translates it into SQL
// text and an ordered parameter list for the Adapter's dialect. The
// placeholder counter is local to this call, so concurrent builds sharing
// one dialect never interleave numbering.
func (tq *TableQuery) Build() (*Query, error) {
	if tq.err != nil {
		return nil, tq.err
	}
	if tq.table == "" {
		return nil, &ValidationError{Op: "Table", Reason: "table name must be a non-empty string"}
	}
	if tq.hasOffset && !tq.hasLimit {
		return nil, &ValidationError{Op: "Offset", Reason: "requires Limit to be set"}
	}

	t := translation{dialect: tq.adapter.dialect}

	switch tq.op {
	case opInsert, opReplace:
		tq.buildInsert(&t)
	case opUpdate:
		tq.buildUpdate(&t)
	case opDelete:
		tq.buildDelete(&t)
	default:
		tq.buildSelect(&t)
	}

	return &Query{sql: t.sb.String(), params: t.params, adapter: tq.adapter}, nil
}

// translation carries the per-call emission state: the SQL text under
// construction, the parameter list, and the placeholder counter.
type translation struct {
	dialect dialects.Dialect
	sb      strings.Builder
	params  []interface{}
	n       int
}

// placeholder emits the next placeholder token and binds v in order.
// Temporal values are pre-formatted to dialect text before binding.
func (t *translation) placeholder(v interface{}) string {
	t.n++
	if tv, ok := v.(time.Time); ok {
		v = dateutil.Format(tv, t.dialect.TimeLayout())
	}
	t.params = append(t.params, v)
	return t.dialect.Placeholder(t.n)
}

func (t *translation) quote(ident string) string {
	return t.dialect.QuoteIdentifier(ident)
}

func (tq *TableQuery) buildSelect(t *translation) {
	t.sb.WriteString("SELECT ")
	if len(tq.columns) == 0 {
		t.sb.WriteString("*")
	} else {
		for i, col := range tq.columns {
			if i > 0 {
				t.sb.WriteString(", ")
			}
			t.sb.WriteString(t.quote(col))
		}
	}
	t.sb.WriteString(" FROM ")
	t.sb.WriteString(t.quote(tq.table))

	tq.writeWhere(t)

	if tq.hasLimit {
		fmt.Fprintf(&t.sb, " LIMIT %d", tq.limit)
	}
	if tq.hasOffset {
		fmt.Fprintf(&t.sb, " OFFSET %d", tq.offset)
	}
}

func (tq *TableQuery) buildInsert(t *translation) {
	if tq.op == opReplace {
		t.sb.WriteString("REPLACE INTO ")
	} else {
		t.sb.WriteString("INSERT INTO ")
	}
	t.sb.WriteString(t.quote(tq.table))

	t.sb.WriteString(" (")
	for i, col := range tq.insertCols {
		if i > 0 {
			t.sb.WriteString(", ")
		}
		t.sb.WriteString(t.quote(col))
	}
	t.sb.WriteString(") VALUES ")

	for i, row := range tq.insertRows {
		if i > 0 {
			t.sb.WriteString(", ")
		}
		t.sb.WriteString("(")
		for j, col := range tq.insertCols {
			if j > 0 {
				t.sb.WriteString(", ")
			}
			t.sb.WriteString(t.placeholder(row[col]))
		}
		t.sb.WriteString(")")
	}
}

func (tq *TableQuery) buildUpdate(t *translation) {
	t.sb.WriteString("UPDATE ")
	t.sb.WriteString(t.quote(tq.table))
	t.sb.WriteString(" SET ")

	// SET values bind before WHERE values, so PostgreSQL numbering runs
	// across the whole statement.
	for i, col := range sortedColumns(tq.setRow) {
		if i > 0 {
			t.sb.WriteString(", ")
		}
		t.sb.WriteString(t.quote(col))
		t.sb.WriteString(" = ")
		t.sb.WriteString(t.placeholder(tq.setRow[col]))
	}

	tq.writeWhere(t)
}

func (tq *TableQuery) buildDelete(t *translation) {
	t.sb.WriteString("DELETE FROM ")
	t.sb.WriteString(t.quote(tq.table))
	tq.writeWhere(t)
}

// writeWhere emits the predicate list in accumulation order. An empty list
// emits nothing at all.
func (tq *TableQuery) writeWhere(t *translation) {
	if len(tq.wheres) == 0 {
		return
	}

	t.sb.WriteString(" WHERE ")
	for i, p := range tq.wheres {
		if i > 0 {
			if p.or {
				t.sb.WriteString(" OR ")
			} else {
				t.sb.WriteString(" AND ")
			}
		}
		if p.not {
			t.sb.WriteString("NOT ")
		}
		t.sb.WriteString(t.quote(p.column))
		t.sb.WriteString(" ")
		t.sb.WriteString(p.op)
		t.sb.WriteString(" ")
		t.sb.WriteString(t.placeholder(p.value))
	}
}

// Execute builds and runs the query, returning the driver result. For
// insert and replace the driver-reported id is recorded for LastInsertID.
func (tq *TableQuery) Execute(ctx context.Context) (sql.Result, error) {
	q, err := tq.Build()
	if err != nil {
		return nil, err
	}

	res, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if tq.op == opInsert || tq.op == opReplace {
		tq.adapter.recordInsertID(tq.table, res)
	}
	return res, nil
}

// All builds and runs a select, returning every row in order.
func (tq *TableQuery) All(ctx context.Context) ([]Row, error) {
	if tq.err == nil && tq.opSet {
		return nil, &ValidationError{Op: "All", Reason: "only valid for select queries"}
	}
	q, err := tq.Build()
	if err != nil {
		return nil, err
	}
	return q.All(ctx)
}

// One builds and runs a select, returning the first row or ErrNoRows.
func (tq *TableQuery) One(ctx context.Context) (Row, error) {
	if tq.err == nil && tq.opSet {
		return nil, &ValidationError{Op: "One", Reason: "only valid for select queries"}
	}
	q, err := tq.Build()
	if err != nil {
		return nil, err
	}
	return q.One(ctx)
}

// sortedColumns returns the row's column names in sorted order for
// deterministic SQL generation.
func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
