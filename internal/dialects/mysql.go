package dialects

import (
	"strings"

	"github.com/coregx/sqlbridge/internal/dateutil"
)

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}

// Name returns "mysql".
func (d *MySQLDialect) Name() string { return "mysql" }

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// SupportsReplace reports REPLACE INTO support (MySQL has it).
func (d *MySQLDialect) SupportsReplace() bool { return true }

// LastInsertIDQuery returns "" because the MySQL driver reports the
// auto-increment id on the insert result.
func (d *MySQLDialect) LastInsertIDQuery(_, _ string) string { return "" }

// TruncateSQL returns the MySQL truncate statement for a quoted table.
func (d *MySQLDialect) TruncateSQL(table string) string {
	return "TRUNCATE TABLE " + table
}

// TimeLayout returns the DATETIME literal layout.
func (d *MySQLDialect) TimeLayout() string { return dateutil.LayoutMySQL }
