package dialects

import (
	"fmt"
	"strings"
)

// PostgresDialect implements PostgreSQL-specific SQL dialect.
type PostgresDialect struct{}

func init() {
	Register("postgres", &PostgresDialect{})
	Register("postgresql", &PostgresDialect{})
	Register("pgx", &PostgresDialect{})
}

// Name returns "postgres".
func (d *PostgresDialect) Name() string { return "postgres" }

// QuoteIdentifier quotes a PostgreSQL identifier using double quotes.
func (d *PostgresDialect) QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Placeholder returns PostgreSQL placeholder format ($1, $2, etc.).
func (d *PostgresDialect) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// InsertVerb returns "INSERT INTO"; PostgreSQL expresses ignore mode as a
// trailing ON CONFLICT clause, not a verb prefix.
func (d *PostgresDialect) InsertVerb(_ bool) string { return "INSERT INTO" }

// ConflictClause generates PostgreSQL UPSERT syntax using ON CONFLICT.
// Update mode without any non-key column degrades to DO NOTHING, which is
// the only harmless conflict action PostgreSQL accepts with an empty SET.
func (d *PostgresDialect) ConflictClause(keyCols, updateCols []string, ignore bool) string {
	if ignore || len(updateCols) == 0 {
		return fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(keyCols, ", "))
	}

	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	return fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(keyCols, ", "),
		strings.Join(updates, ", "))
}

// TypeSQL renders a canonical type as a PostgreSQL column type.
func (d *PostgresDialect) TypeSQL(t ColumnType) string {
	switch t {
	case TypeBool:
		return "BOOLEAN"
	case TypeInteger:
		return "BIGINT"
	case TypeFloat:
		return "DOUBLE PRECISION"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeTimestampTZ:
		return "TIMESTAMPTZ"
	case TypeBytes:
		return "BYTEA"
	case TypeJSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}

// KeyTypeSQL renders a canonical type for a key column; PostgreSQL can
// index every plain rendering.
func (d *PostgresDialect) KeyTypeSQL(t ColumnType) string { return d.TypeSQL(t) }

// ParameterLimit returns the wire-protocol bind limit (int16 message field).
func (d *PostgresDialect) ParameterLimit() int { return 65535 }

// SupportsSchemas reports that PostgreSQL has a schema system.
func (d *PostgresDialect) SupportsSchemas() bool { return true }

// SupportsAlterColumnType reports that PostgreSQL can alter column types.
func (d *PostgresDialect) SupportsAlterColumnType() bool { return true }

// FiltersNullKeys returns false; NULL key values are rejected up front.
func (d *PostgresDialect) FiltersNullKeys() bool { return false }

// AddColumnSQL renders an idempotent ADD COLUMN.
func (d *PostgresDialect) AddColumnSQL(table, col, typeSQL string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
		table, d.QuoteIdentifier(col), typeSQL)
}

// AlterColumnTypeSQL renders an ALTER COLUMN with an explicit USING cast;
// without it PostgreSQL refuses several otherwise valid conversions.
func (d *PostgresDialect) AlterColumnTypeSQL(table, col, typeSQL string) string {
	quoted := d.QuoteIdentifier(col)
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s",
		table, quoted, typeSQL, quoted, typeSQL)
}

// CreateSchemaSQL renders an idempotent CREATE SCHEMA.
func (d *PostgresDialect) CreateSchemaSQL(schema string) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", d.QuoteIdentifier(schema))
}
