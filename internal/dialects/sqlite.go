package dialects

import (
	"fmt"
	"strings"
)

// SQLiteDialect implements SQLite-specific SQL dialect.
type SQLiteDialect struct{}

func init() {
	Register("sqlite", &SQLiteDialect{})
	Register("sqlite3", &SQLiteDialect{})
}

// Name returns "sqlite".
func (d *SQLiteDialect) Name() string { return "sqlite" }

// QuoteIdentifier quotes a SQLite identifier using double quotes.
func (d *SQLiteDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns SQLite placeholder format (always "?").
func (d *SQLiteDialect) Placeholder(_ int) string { return "?" }

// InsertVerb returns "INSERT INTO"; SQLite expresses ignore mode as a
// trailing ON CONFLICT clause.
func (d *SQLiteDialect) InsertVerb(_ bool) string { return "INSERT INTO" }

// ConflictClause generates SQLite UPSERT syntax using ON CONFLICT.
// Update mode without any non-key column degrades to DO NOTHING.
func (d *SQLiteDialect) ConflictClause(keyCols, updateCols []string, ignore bool) string {
	if ignore || len(updateCols) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(keyCols, ", "))
	}

	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s = excluded.%s", col, col)
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(keyCols, ", "),
		strings.Join(updates, ", "))
}

// TypeSQL renders a canonical type as a SQLite column type. SQLite stores
// JSON as TEXT; the reconciler treats the two as interchangeable.
func (d *SQLiteDialect) TypeSQL(t ColumnType) string {
	switch t {
	case TypeBool:
		return "BOOLEAN"
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "REAL"
	case TypeTimestamp, TypeTimestampTZ:
		return "TIMESTAMP"
	case TypeBytes:
		return "BLOB"
	default:
		return "TEXT"
	}
}

// KeyTypeSQL renders a canonical type for a key column; SQLite can index
// every plain rendering.
func (d *SQLiteDialect) KeyTypeSQL(t ColumnType) string { return d.TypeSQL(t) }

// ParameterLimit returns SQLITE_MAX_VARIABLE_NUMBER for SQLite >= 3.32.0.
func (d *SQLiteDialect) ParameterLimit() int { return 32766 }

// SupportsSchemas returns false; SQLite has no schema system.
func (d *SQLiteDialect) SupportsSchemas() bool { return false }

// SupportsAlterColumnType returns false; SQLite has no ALTER COLUMN form.
func (d *SQLiteDialect) SupportsAlterColumnType() bool { return false }

// FiltersNullKeys returns false; NULL key values are rejected up front.
func (d *SQLiteDialect) FiltersNullKeys() bool { return false }

// AddColumnSQL renders an ADD COLUMN. SQLite lacks IF NOT EXISTS here; the
// reconciler only plans columns it verified to be absent.
func (d *SQLiteDialect) AddColumnSQL(table, col, typeSQL string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
		table, d.QuoteIdentifier(col), typeSQL)
}

// AlterColumnTypeSQL is unreachable for SQLite (SupportsAlterColumnType is false).
func (d *SQLiteDialect) AlterColumnTypeSQL(_, _, _ string) string { return "" }

// CreateSchemaSQL is unreachable for SQLite (SupportsSchemas is false).
func (d *SQLiteDialect) CreateSchemaSQL(_ string) string { return "" }
