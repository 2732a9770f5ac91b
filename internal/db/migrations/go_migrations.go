// Package migrations holds the schema changes whose DDL differs by SQL
// dialect and so cannot live in the plain .sql files.
package migrations

var dialect = "sqlite3"

// SetDialect selects the dialect the Go migrations emit DDL for: "postgres",
// "mysql" or "sqlite3". The db package sets it before running goose.
func SetDialect(d string) {
	dialect = d
}

// documentColumnType is the column type for a whole JSON document.
func documentColumnType() string {
	switch dialect {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "JSON"
	default:
		return "TEXT"
	}
}
