package core

import (
	"database/sql"
	"fmt"
	"time"
)

// Row is one result row as a column-to-value mapping. Values hold whatever
// the driver produced (int64, float64, bool, []byte, string, time.Time or
// nil); the typed accessors below cover the common conversions.
//
// Example:
//
//	rows, _ := adapter.Table("users").Where("status", "active").All(ctx)
//	for _, r := range rows {
//	    fmt.Println(r.String("email"), r.Int64("age"))
//	}
type Row map[string]interface{}

// Has reports whether the column exists in the row.
func (r Row) Has(col string) bool {
	_, ok := r[col]
	return ok
}

// IsNull reports whether the column is NULL or absent.
func (r Row) IsNull(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}

// String returns the column as a string. []byte values are converted,
// NULL and absent columns yield "".
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Int64 returns the column as int64, or 0 for NULL and non-numeric values.
func (r Row) Int64(col string) int64 {
	switch n := r[col].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// Float64 returns the column as float64, or 0 for NULL and non-numeric values.
func (r Row) Float64(col string) float64 {
	switch n := r[col].(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns the column as bool. Integer columns treat non-zero as true.
func (r Row) Bool(col string) bool {
	switch b := r[col].(type) {
	case bool:
		return b
	case int64:
		return b != 0
	default:
		return false
	}
}

// Time returns the column as time.Time when the driver produced one.
func (r Row) Time(col string) (time.Time, bool) {
	t, ok := r[col].(time.Time)
	return t, ok
}

// scanRows drains rows into an ordered slice of Row maps.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
