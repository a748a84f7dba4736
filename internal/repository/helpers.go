package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/alexanderramin/being/internal/domain"
)

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableStringToValue stores empty strings as NULL.
func nullableStringToValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIntToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// parseOptionalDate reads a YYYY-MM-DD column that may be empty.
func parseOptionalDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
