package dialects

import (
	"fmt"
	"strings"
)

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

func init() {
	Register("mysql", &MySQLDialect{})
}

// Name returns "mysql".
func (d *MySQLDialect) Name() string { return "mysql" }

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string { return "?" }

// InsertVerb returns "INSERT IGNORE INTO" for ignore mode; MySQL has no
// DO NOTHING clause.
func (d *MySQLDialect) InsertVerb(ignore bool) string {
	if ignore {
		return "INSERT IGNORE INTO"
	}
	return "INSERT INTO"
}

// ConflictClause generates MySQL UPSERT syntax using ON DUPLICATE KEY UPDATE.
// Ignore mode is already handled by the verb prefix. Update mode without any
// non-key column rewrites the key columns to themselves: a no-op update that
// keeps the statement valid without the error-swallowing of INSERT IGNORE.
func (d *MySQLDialect) ConflictClause(keyCols, updateCols []string, ignore bool) string {
	if ignore {
		return ""
	}

	if len(updateCols) == 0 {
		updates := make([]string, len(keyCols))
		for i, col := range keyCols {
			updates[i] = fmt.Sprintf("%s = %s", col, col)
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
	}

	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s = VALUES(%s)", col, col)
	}
	return " ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
}

// TypeSQL renders a canonical type as a MySQL column type.
func (d *MySQLDialect) TypeSQL(t ColumnType) string {
	switch t {
	case TypeBool:
		return "BOOLEAN"
	case TypeInteger:
		return "BIGINT"
	case TypeFloat:
		return "DOUBLE"
	case TypeTimestamp:
		return "DATETIME"
	case TypeTimestampTZ:
		return "TIMESTAMP"
	case TypeBytes:
		return "BLOB"
	case TypeJSON:
		return "JSON"
	default:
		return "TEXT"
	}
}

// KeyTypeSQL renders a canonical type for a key column. MySQL cannot index
// bare TEXT/BLOB, so textual and unknown key columns become VARCHAR(255).
func (d *MySQLDialect) KeyTypeSQL(t ColumnType) string {
	switch t {
	case TypeText, TypeUnknown, TypeJSON:
		return "VARCHAR(255)"
	case TypeBytes:
		return "VARBINARY(255)"
	default:
		return d.TypeSQL(t)
	}
}

// ParameterLimit returns the default max_prepared_stmt placeholder limit.
func (d *MySQLDialect) ParameterLimit() int { return 65535 }

// SupportsSchemas returns false; MySQL "schemas" are databases, not
// namespaces inside the current connection's database.
func (d *MySQLDialect) SupportsSchemas() bool { return false }

// SupportsAlterColumnType reports that MySQL can alter column types.
func (d *MySQLDialect) SupportsAlterColumnType() bool { return true }

// FiltersNullKeys returns true: ON DUPLICATE KEY cannot express a NULL key
// conflict target, so null-key rows are skipped with a warning instead of
// failing the operation.
func (d *MySQLDialect) FiltersNullKeys() bool { return true }

// AddColumnSQL renders an ADD COLUMN. MySQL lacks IF NOT EXISTS here; the
// reconciler only plans columns it verified to be absent.
func (d *MySQLDialect) AddColumnSQL(table, col, typeSQL string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
		table, d.QuoteIdentifier(col), typeSQL)
}

// AlterColumnTypeSQL renders a MODIFY COLUMN type change.
func (d *MySQLDialect) AlterColumnTypeSQL(table, col, typeSQL string) string {
	return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s %s",
		table, d.QuoteIdentifier(col), typeSQL)
}

// CreateSchemaSQL is unreachable for MySQL (SupportsSchemas is false).
func (d *MySQLDialect) CreateSchemaSQL(_ string) string { return "" }
