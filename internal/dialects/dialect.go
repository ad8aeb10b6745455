// Package dialects provides database-specific SQL dialect implementations for
// PostgreSQL, MySQL, and SQLite, handling identifier quoting, placeholders,
// canonical type rendering, UPSERT conflict clauses, and structural DDL.
package dialects

// ColumnType is the dialect-neutral classification of a column's values.
// It is inferred from the dataset (or supplied by the caller) and rendered
// to a concrete SQL type by each dialect.
type ColumnType int

const (
	// TypeUnknown is the fallback for columns holding only NULL values.
	TypeUnknown ColumnType = iota
	// TypeBool holds boolean values.
	TypeBool
	// TypeInteger holds whole numbers of any Go integer kind.
	TypeInteger
	// TypeFloat holds floating-point numbers (or a mix of integers and floats).
	TypeFloat
	// TypeText holds strings and anything that had to fall back to text.
	TypeText
	// TypeTimestamp holds timezone-naive date/time values.
	TypeTimestamp
	// TypeTimestampTZ holds timezone-aware date/time values.
	TypeTimestampTZ
	// TypeBytes holds raw binary values.
	TypeBytes
	// TypeJSON holds nested structures (slices, maps) stored as JSON.
	TypeJSON
)

// String returns the canonical type name.
func (t ColumnType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	case TypeTimestamp:
		return "timestamp"
	case TypeTimestampTZ:
		return "timestamptz"
	case TypeBytes:
		return "bytes"
	case TypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Dialect defines database-specific behaviors needed to build and apply
// an upsert operation.
type Dialect interface {
	// Name returns the canonical dialect name ("postgres", "mysql", "sqlite").
	Name() string
	// QuoteIdentifier quotes a schema, table or column name.
	QuoteIdentifier(s string) string
	// Placeholder returns the bound-parameter placeholder for position n (1-based).
	Placeholder(n int) string
	// InsertVerb returns the statement head. Some dialects express the
	// ignore conflict mode as a verb prefix instead of a trailing clause.
	InsertVerb(ignore bool) string
	// ConflictClause renders the clause appended after the VALUES groups.
	// keyCols and updateCols must already be quoted. An empty updateCols in
	// update mode must still yield a valid, harmless clause.
	ConflictClause(keyCols, updateCols []string, ignore bool) string
	// TypeSQL renders a canonical type as a concrete column type.
	TypeSQL(t ColumnType) string
	// KeyTypeSQL renders a canonical type for a key column. Differs from
	// TypeSQL where the dialect cannot index the plain rendering.
	KeyTypeSQL(t ColumnType) string
	// ParameterLimit returns the maximum number of bound parameters the
	// dialect accepts in a single statement.
	ParameterLimit() int
	// SupportsSchemas reports whether the dialect has a schema/namespace system.
	SupportsSchemas() bool
	// SupportsAlterColumnType reports whether column types can be altered.
	SupportsAlterColumnType() bool
	// FiltersNullKeys reports whether rows with NULL key values are filtered
	// out with a warning instead of failing the whole operation. True only
	// for the dialect whose conflict syntax cannot target a NULL key.
	FiltersNullKeys() bool
	// AddColumnSQL renders the DDL adding one column. table must already be
	// quoted (and schema-qualified), col must not.
	AddColumnSQL(table, col, typeSQL string) string
	// AlterColumnTypeSQL renders the DDL changing one column's type.
	// Must not be called when SupportsAlterColumnType is false.
	AlterColumnTypeSQL(table, col, typeSQL string) string
	// CreateSchemaSQL renders the idempotent schema creation DDL.
	// Must not be called when SupportsSchemas is false.
	CreateSchemaSQL(schema string) string
}

var dialects = make(map[string]Dialect)

// Register registers a database dialect by driver name.
func Register(name string, d Dialect) {
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name.
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}
