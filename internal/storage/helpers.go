package storage

import (
	"database/sql"
	"time"
)

// nowISO returns the current UTC time in the ISO-8601 form used for every
// timestamp column.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// nullable maps an empty string to NULL on insert.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullableInt maps zero to NULL on insert.
func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func stringOf(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func intOf(ni sql.NullInt64) int {
	if ni.Valid {
		return int(ni.Int64)
	}
	return 0
}

// isoWindow returns [now, now+days] as ISO-8601 strings. Lexicographic
// comparison of RFC 3339 strings matches chronological order, so the window
// bounds go straight into the SQL.
func isoWindow(days int) (string, string) {
	now := time.Now().UTC()
	return now.Format(time.RFC3339), now.AddDate(0, 0, days).Format(time.RFC3339)
}

// priorityRankSQL orders rows by explicit severity rather than by the
// priority string's lexical order.
const priorityRankSQL = `CASE priority
	WHEN 'urgent' THEN 3
	WHEN 'high' THEN 2
	WHEN 'medium' THEN 1
	WHEN 'low' THEN 0
	ELSE -1
END`
