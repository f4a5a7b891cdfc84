package repository

import (
	"strings"
	"time"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// dateLayout stores calendar dates without a time component
const dateLayout = "2006-01-02"

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// formatTime formats t in UTC so stored values sort lexically
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// isUniqueViolation reports whether err is a UNIQUE failure on column, given
// as "table.column" the way SQLite names it in the constraint message.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

// serviceSep separates names in the GROUP_CONCAT of invoice_items.service_name
const serviceSep = "\x1f"

func splitServices(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, serviceSep)
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
