// Package dialects provides database-specific SQL dialect implementations for
// PostgreSQL, MySQL, and SQLite, handling identifier quoting, placeholder
// style, REPLACE support, bulk truncation, and last-insert-id retrieval.
package dialects

// Dialect defines database-specific behaviors.
//
// Placeholder is stateless: the position counter for a statement lives with
// the translation that calls it, so concurrent translations sharing one
// Dialect never interfere with each other's parameter numbering.
type Dialect interface {
	// Name returns the canonical dialect name (mysql, postgres, sqlite).
	Name() string
	// QuoteIdentifier quotes a table or column name, doubling any embedded
	// quote characters.
	QuoteIdentifier(string) string
	// Placeholder returns the parameter marker for position n (1-based).
	Placeholder(n int) string
	// SupportsReplace reports whether the dialect accepts REPLACE INTO.
	SupportsReplace() bool
	// LastInsertIDQuery returns the follow-up query that reads the most
	// recent auto-generated id for the given table and primary key, or ""
	// when the driver reports the id directly on the insert result.
	// Both identifiers must already be quoted by the caller.
	LastInsertIDQuery(table, pk string) string
	// TruncateSQL returns the statement that removes all rows from the
	// given (already quoted) table.
	TruncateSQL(table string) string
	// TimeLayout returns the time.Format layout for binding temporal values.
	TimeLayout() string
}

var dialects = make(map[string]Dialect)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	dialects[name] = d
}

// Lookup retrieves a registered dialect by driver name.
func Lookup(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// GetDialect retrieves a registered dialect by driver name, panics if not found.
func GetDialect(name string) Dialect {
	if d, ok := dialects[name]; ok {
		return d
	}
	panic("unsupported dialect: " + name)
}
