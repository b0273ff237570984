// Package codec converts between relational rows and domain records.
//
// Rows keep the stored representation: nullable columns as sql.Null types,
// booleans as 0/1 integers, and arrays and maps as JSON text. Every FromRow
// function is total. A malformed JSON column is logged, counted, and read
// as its default so one bad row never makes a query unreadable.
package codec

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/julianstephens/tracklit/internal/logger"
	"github.com/julianstephens/tracklit/internal/metrics"
)

// decode parses a JSON column into T. NULL, blank, and JSON null yield
// ok=false without an anomaly; unparseable text yields ok=false and is
// reported.
func decode[T any](raw sql.NullString, table, column string) (T, bool) {
	var v T
	if !raw.Valid || strings.TrimSpace(raw.String) == "" || raw.String == "null" {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		logger.Warn("Malformed JSON column, using default", "table", table, "column", column, "error", err)
		metrics.CodecAnomaly(table, column)
		return v, false
	}
	return v, true
}

// Strings decodes a JSON string array; the default is an empty list.
func Strings(raw sql.NullString, table, column string) []string {
	v, ok := decode[[]string](raw, table, column)
	if !ok || v == nil {
		return []string{}
	}
	return v
}

// Ints decodes a JSON integer array; the default is an empty list.
func Ints(raw sql.NullString, table, column string) []int {
	v, ok := decode[[]int](raw, table, column)
	if !ok || v == nil {
		return []int{}
	}
	return v
}

// StringMap decodes a JSON object of strings; the default is an empty map.
func StringMap(raw sql.NullString, table, column string) map[string]string {
	v, ok := decode[map[string]string](raw, table, column)
	if !ok || v == nil {
		return map[string]string{}
	}
	return v
}

// EncodeStrings renders a string list as stored JSON; nil becomes [].
func EncodeStrings(v []string) string {
	if v == nil {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// EncodeInts renders an integer list as stored JSON; nil becomes [].
func EncodeInts(v []int) string {
	if v == nil {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// EncodeStringMap renders a string map as stored JSON; nil becomes {}.
func EncodeStringMap(v map[string]string) string {
	if v == nil {
		return "{}"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// Bool coerces a 0/1 integer column.
func Bool(v int64) bool {
	return v != 0
}

// Int stores a boolean as 0/1.
func Int(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// StringPtr converts a nullable text column.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NullString converts an optional string for storage.
func NullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// IntPtr converts a nullable integer column.
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// NullInt converts an optional integer for storage.
func NullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func jsonText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
