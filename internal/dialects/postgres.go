package dialects

import (
	"fmt"
	"strings"

	"github.com/coregx/sqlbridge/internal/dateutil"
)

// PostgresDialect implements PostgreSQL-specific SQL dialect.
type PostgresDialect struct{}

func init() {
	RegisterDialect("postgres", &PostgresDialect{})
	RegisterDialect("postgresql", &PostgresDialect{})
	RegisterDialect("pgx", &PostgresDialect{})
}

// Name returns "postgres".
func (d *PostgresDialect) Name() string { return "postgres" }

// QuoteIdentifier quotes a PostgreSQL identifier using double quotes.
func (d *PostgresDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns PostgreSQL placeholder format ($1, $2, etc.).
func (d *PostgresDialect) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// SupportsReplace reports REPLACE INTO support (PostgreSQL has none).
func (d *PostgresDialect) SupportsReplace() bool { return false }

// LastInsertIDQuery returns the MAX-based id lookup. lib/pq does not
// implement Result.LastInsertId, so the id is read with a follow-up query.
// COALESCE maps the empty-table case to 0.
func (d *PostgresDialect) LastInsertIDQuery(table, pk string) string {
	return fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", pk, table)
}

// TruncateSQL returns the PostgreSQL truncate statement for a quoted table.
func (d *PostgresDialect) TruncateSQL(table string) string {
	return "TRUNCATE TABLE " + table
}

// TimeLayout returns the timestamptz literal layout.
func (d *PostgresDialect) TimeLayout() string { return dateutil.LayoutPostgres }
