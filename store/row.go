package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row maps column names to the raw values returned by the driver.
// Values are narrowed through the typed accessors below; drivers disagree on
// representations (MySQL returns text as []byte, SQLite may return timestamps
// as strings), so callers must not type-assert entries directly.
type Row map[string]any

// Has reports whether the column is present and non-null.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// String returns the column as a string, or "" when absent or null.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Int64 returns the column as an int64, or 0 when absent, null or not numeric.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	default:
		return 0
	}
}

// OptionalInt64 returns the column as an int64 pointer, nil when absent or null.
func (r Row) OptionalInt64(col string) *int64 {
	if !r.Has(col) {
		return nil
	}
	n := r.Int64(col)
	return &n
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the column as a time.Time, the zero time when it cannot be parsed.
func (r Row) Time(col string) time.Time {
	var raw string
	switch v := r[col].(type) {
	case time.Time:
		return v
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return time.Time{}
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
