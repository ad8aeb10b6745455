package core

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	cat := newCatalog(mustDialect(t, "postgres"), db, "metrics", "users")
	ctx := context.Background()

	mock.ExpectQuery("SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2").
		WithArgs("metrics", "users").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := cat.TableExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM information_schema.schemata WHERE schema_name = $1").
		WithArgs("metrics").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	exists, err = cat.SchemaExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	mock.ExpectQuery("SELECT column_name, data_type FROM information_schema.columns "+
		"WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position").
		WithArgs("metrics", "users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
			AddRow("id", "bigint").
			AddRow("name", "text"))
	cols, err := cat.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Name: "id", TypeSQL: "bigint"}, {Name: "name", TypeSQL: "text"}}, cols)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalogDefaultsToPublicSchema(t *testing.T) {
	db, mock := newMockDB(t)
	cat := newCatalog(mustDialect(t, "postgres"), db, "", "users")

	mock.ExpectQuery("SELECT 1 FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2").
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	exists, err := cat.TableExists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	cat := newCatalog(mustDialect(t, "mysql"), db, "", "users")
	ctx := context.Background()

	mock.ExpectQuery("SELECT 1 FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := cat.TableExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = cat.SchemaExists(ctx)
	assert.ErrorIs(t, err, ErrNoSchemaSystem)

	mock.ExpectQuery("SELECT column_name, column_type FROM information_schema.columns "+
		"WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type"}).
			AddRow("id", "bigint").
			AddRow("email", "varchar(255)"))
	cols, err := cat.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Name: "id", TypeSQL: "bigint"}, {Name: "email", TypeSQL: "varchar(255)"}}, cols)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCatalogScopedToConfiguredSchema(t *testing.T) {
	db, mock := newMockDB(t)
	cat := newCatalog(mustDialect(t, "mysql"), db, "analytics", "users")
	ctx := context.Background()

	// A configured schema is a database on MySQL: introspection must bind
	// it instead of falling back to the connection's current database.
	mock.ExpectQuery("SELECT 1 FROM information_schema.tables WHERE table_schema = ? AND table_name = ?").
		WithArgs("analytics", "users").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := cat.TableExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT column_name, column_type FROM information_schema.columns "+
		"WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position").
		WithArgs("analytics", "users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type"}).
			AddRow("id", "bigint"))
	cols, err := cat.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Name: "id", TypeSQL: "bigint"}}, cols)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCatalog(t *testing.T) {
	db, mock := newMockDB(t)
	cat := newCatalog(mustDialect(t, "sqlite"), db, "", "users")
	ctx := context.Background()

	mock.ExpectQuery(sqliteTableExistsQuery).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := cat.TableExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = cat.SchemaExists(ctx)
	assert.ErrorIs(t, err, ErrNoSchemaSystem)

	mock.ExpectQuery(`PRAGMA table_info("users")`).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 1, nil, 1).
			AddRow(1, "name", "TEXT", 0, nil, 0))
	cols, err := cat.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Name: "id", TypeSQL: "INTEGER"}, {Name: "name", TypeSQL: "TEXT"}}, cols)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmptyColumnsProbe(t *testing.T) {
	db, mock := newMockDB(t)
	cat := newCatalog(mustDialect(t, "sqlite"), db, "", "users")

	mock.ExpectQuery(`PRAGMA table_info("users")`).
		WillReturnRows(sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"}).
			AddRow(0, "id", "INTEGER", 1, nil, 1).
			AddRow(1, "note", "TEXT", 0, nil, 0))

	// id holds data, note does not.
	mock.ExpectQuery(`SELECT 1 FROM "users" WHERE "id" IS NOT NULL LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM "users" WHERE "note" IS NOT NULL LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	empty, err := cat.EmptyColumns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
