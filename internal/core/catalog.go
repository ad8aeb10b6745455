package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coregx/tabsert/internal/dialects"
)

// ColumnInfo describes one existing column of the target table.
type ColumnInfo struct {
	// Name is the column name as stored in the catalog.
	Name string
	// TypeSQL is the column type as reported by the database.
	TypeSQL string
}

// Catalog reads the target table's structure. Implementations issue only
// read statements; the reconciler turns their answers into a change plan.
type Catalog interface {
	// TableExists reports whether the target table exists.
	TableExists(ctx context.Context) (bool, error)
	// SchemaExists reports whether the target schema exists. Only called on
	// dialects with a schema system.
	SchemaExists(ctx context.Context) (bool, error)
	// Columns returns the existing columns in ordinal order.
	Columns(ctx context.Context) ([]ColumnInfo, error)
	// EmptyColumns returns the names of existing columns holding no data
	// (every row NULL, or the table has no rows).
	EmptyColumns(ctx context.Context) ([]string, error)
}

// newCatalog builds the dialect-appropriate catalog reader.
func newCatalog(d dialects.Dialect, ex Execer, schema, table string) Catalog {
	base := baseCatalog{dialect: d, ex: ex, schema: schema, table: table}
	switch d.Name() {
	case "postgres":
		return &postgresCatalog{baseCatalog: base}
	case "mysql":
		return &mysqlCatalog{baseCatalog: base}
	default:
		return &sqliteCatalog{baseCatalog: base}
	}
}

// baseCatalog carries what every dialect's reader needs and implements the
// shared emptiness probe.
type baseCatalog struct {
	dialect dialects.Dialect
	ex      Execer
	schema  string
	table   string
}

// emptyColumns probes each column with SELECT ... WHERE col IS NOT NULL
// LIMIT 1; no hit means the column holds no data and is safe to alter.
func (c *baseCatalog) emptyColumns(ctx context.Context, cols []ColumnInfo) ([]string, error) {
	target := qualifiedTable(c.dialect, c.schema, c.table)
	var empty []string
	for _, col := range cols {
		q := fmt.Sprintf("SELECT 1 FROM %s WHERE %s IS NOT NULL LIMIT 1",
			target, c.dialect.QuoteIdentifier(col.Name))
		rows, err := c.ex.QueryContext(ctx, q)
		if err != nil {
			return nil, err
		}
		hasData := rows.Next()
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
		if !hasData {
			empty = append(empty, col.Name)
		}
	}
	return empty, nil
}

// queryExists runs a query and reports whether it returned at least one row.
func (c *baseCatalog) queryExists(ctx context.Context, query string, args ...any) (bool, error) {
	rows, err := c.ex.QueryContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}
	return exists, nil
}

// postgresCatalog reads table metadata from information_schema.
type postgresCatalog struct {
	baseCatalog
}

// schemaOrPublic returns the effective schema; PostgreSQL defaults to public.
func (c *postgresCatalog) schemaOrPublic() string {
	if c.schema == "" {
		return "public"
	}
	return c.schema
}

func (c *postgresCatalog) TableExists(ctx context.Context) (bool, error) {
	return c.queryExists(ctx,
		"SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2",
		c.schemaOrPublic(), c.table)
}

func (c *postgresCatalog) SchemaExists(ctx context.Context) (bool, error) {
	return c.queryExists(ctx,
		"SELECT 1 FROM information_schema.schemata WHERE schema_name = $1",
		c.schemaOrPublic())
}

func (c *postgresCatalog) Columns(ctx context.Context) ([]ColumnInfo, error) {
	return scanColumns(c.ex.QueryContext(ctx,
		"SELECT column_name, data_type FROM information_schema.columns "+
			"WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position",
		c.schemaOrPublic(), c.table))
}

func (c *postgresCatalog) EmptyColumns(ctx context.Context) ([]string, error) {
	cols, err := c.Columns(ctx)
	if err != nil {
		return nil, err
	}
	return c.emptyColumns(ctx, cols)
}

// mysqlCatalog reads table metadata from information_schema. MySQL
// "schemas" are databases: a configured schema scopes the queries to that
// database, matching the schema-qualified statements the builder renders;
// the default scopes to the connection's current database.
type mysqlCatalog struct {
	baseCatalog
}

// schemaPredicate returns the table_schema filter and its bound arguments.
func (c *mysqlCatalog) schemaPredicate() (string, []any) {
	if c.schema == "" {
		return "table_schema = DATABASE()", nil
	}
	return "table_schema = ?", []any{c.schema}
}

func (c *mysqlCatalog) TableExists(ctx context.Context) (bool, error) {
	pred, args := c.schemaPredicate()
	return c.queryExists(ctx,
		"SELECT 1 FROM information_schema.tables WHERE "+pred+" AND table_name = ?",
		append(args, c.table)...)
}

func (c *mysqlCatalog) SchemaExists(_ context.Context) (bool, error) {
	return false, ErrNoSchemaSystem
}

func (c *mysqlCatalog) Columns(ctx context.Context) ([]ColumnInfo, error) {
	pred, args := c.schemaPredicate()
	return scanColumns(c.ex.QueryContext(ctx,
		"SELECT column_name, column_type FROM information_schema.columns "+
			"WHERE "+pred+" AND table_name = ? ORDER BY ordinal_position",
		append(args, c.table)...))
}

func (c *mysqlCatalog) EmptyColumns(ctx context.Context) ([]string, error) {
	cols, err := c.Columns(ctx)
	if err != nil {
		return nil, err
	}
	return c.emptyColumns(ctx, cols)
}

// sqliteCatalog reads table metadata from sqlite_master and PRAGMA
// table_info. A missing table raises no error there, only zero columns.
type sqliteCatalog struct {
	baseCatalog
}

func (c *sqliteCatalog) TableExists(ctx context.Context) (bool, error) {
	return c.queryExists(ctx,
		"SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?",
		c.table)
}

func (c *sqliteCatalog) SchemaExists(_ context.Context) (bool, error) {
	return false, ErrNoSchemaSystem
}

func (c *sqliteCatalog) Columns(ctx context.Context) ([]ColumnInfo, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s)", c.dialect.QuoteIdentifier(c.table))
	rows, err := c.ex.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, typeSQL    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typeSQL, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnInfo{Name: name, TypeSQL: typeSQL})
	}
	return cols, rows.Err()
}

func (c *sqliteCatalog) EmptyColumns(ctx context.Context) ([]string, error) {
	cols, err := c.Columns(ctx)
	if err != nil {
		return nil, err
	}
	return c.emptyColumns(ctx, cols)
}

// scanColumns collects (name, type) result rows into ColumnInfo values.
func scanColumns(rows *sql.Rows, err error) ([]ColumnInfo, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols []ColumnInfo
	for rows.Next() {
		var info ColumnInfo
		if err := rows.Scan(&info.Name, &info.TypeSQL); err != nil {
			return nil, err
		}
		cols = append(cols, info)
	}
	return cols, rows.Err()
}
