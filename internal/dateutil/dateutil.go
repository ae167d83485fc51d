// Package dateutil formats temporal values into the textual representation
// each SQL dialect accepts for bound parameters.
package dateutil

import "time"

// Per-dialect time layouts. MySQL and SQLite store DATETIME without a zone,
// so values are normalized to UTC first; PostgreSQL keeps the offset.
const (
	LayoutMySQL    = "2006-01-02 15:04:05"
	LayoutSQLite   = "2006-01-02 15:04:05"
	LayoutPostgres = "2006-01-02 15:04:05.999999Z07:00"
)

// Format renders t using the given dialect layout. Layouts without zone
// information format the UTC instant.
func Format(t time.Time, layout string) string {
	if layout == LayoutMySQL || layout == LayoutSQLite {
		t = t.UTC()
	}
	return t.Format(layout)
}
