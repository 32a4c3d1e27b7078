package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			query.WriteString(" LIMIT -1")
		}
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// nullString stores an absent value as NULL.
func nullString(v webscraper.Value) sql.NullString {
	s, ok := v.Get()
	return sql.NullString{String: s, Valid: ok}
}

func valueOf(ns sql.NullString) webscraper.Value {
	if !ns.Valid {
		return webscraper.Value{}
	}
	return webscraper.Found(ns.String)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
