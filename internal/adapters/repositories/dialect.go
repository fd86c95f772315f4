package repositories

import (
	"restaurant-dispatch-service/internal/platform/db"
	"strconv"
	"strings"
	"time"
)

// SQLite keeps timestamps as TEXT. A fixed-width layout keeps them sortable.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// rebind rewrites ? placeholders to $n for PostgreSQL. Queries must not
// contain literal question marks.
func rebind(driver, query string) string {
	if driver != db.DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func timeArg(driver string, t time.Time) any {
	if driver == db.DriverSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

func nullableTimeArg(driver string, t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeArg(driver, *t)
}
