package dialects

import (
	"strings"

	"github.com/coregx/sqlbridge/internal/dateutil"
)

// SQLiteDialect implements SQLite-specific SQL dialect.
type SQLiteDialect struct{}

func init() {
	RegisterDialect("sqlite", &SQLiteDialect{})
	RegisterDialect("sqlite3", &SQLiteDialect{})
}

// Name returns "sqlite".
func (d *SQLiteDialect) Name() string { return "sqlite" }

// QuoteIdentifier quotes a SQLite identifier using double quotes.
func (d *SQLiteDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns SQLite placeholder format (always "?").
func (d *SQLiteDialect) Placeholder(_ int) string {
	return "?"
}

// SupportsReplace reports REPLACE INTO support (SQLite has it).
func (d *SQLiteDialect) SupportsReplace() bool { return true }

// LastInsertIDQuery returns "" because the SQLite drivers report the
// rowid on the insert result.
func (d *SQLiteDialect) LastInsertIDQuery(_, _ string) string { return "" }

// TruncateSQL deletes all rows; SQLite has no TRUNCATE statement.
func (d *SQLiteDialect) TruncateSQL(table string) string {
	return "DELETE FROM " + table
}

// TimeLayout returns the DATETIME literal layout.
func (d *SQLiteDialect) TimeLayout() string { return dateutil.LayoutSQLite }
