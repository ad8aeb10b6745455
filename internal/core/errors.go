package core

import "errors"

// Predefined errors returned by tabsert operations. All of them are raised
// before any statement is sent to the database; errors happening during
// execution come from the driver and are passed through unwrapped.
var (
	// ErrUnsupportedDialect is returned when no dialect is registered for the driver name.
	ErrUnsupportedDialect = errors.New("unsupported database dialect")
	// ErrUnnamedKeyLevel is returned when a key level has an empty name.
	ErrUnnamedKeyLevel = errors.New("every key level must be named")
	// ErrDuplicateLabels is returned when a name repeats across key levels and columns.
	ErrDuplicateLabels = errors.New("duplicate labels across key levels and columns")
	// ErrDuplicateKeyValues is returned when two rows share the same key tuple.
	ErrDuplicateKeyValues = errors.New("duplicate key values in dataset")
	// ErrNullKeyValue is returned when a key value is NULL on a dialect that
	// rejects NULL conflict targets outright.
	ErrNullKeyValue = errors.New("null value in key column")
	// ErrBadColumnNames is returned for column names the PostgreSQL driver
	// cannot bind ('%', '(' or ')' in the name).
	ErrBadColumnNames = errors.New("column names not supported by the postgres driver")
	// ErrMissingKeyColumn is returned when a column requested for addition is
	// itself a key level; adding it silently would leave the table's key wrong.
	ErrMissingKeyColumn = errors.New("column to add is part of the upsert key")
	// ErrCannotAlterColumnType is returned when an empty-column type change is
	// needed on a dialect without any ALTER COLUMN form.
	ErrCannotAlterColumnType = errors.New("dialect does not support altering column types")
	// ErrNoSchemaSystem is returned when schema creation is requested on a
	// dialect without a schema system.
	ErrNoSchemaSystem = errors.New("dialect has no schema system")
	// ErrTooManyColumns is returned when even a single-row statement would
	// exceed the dialect's bound-parameter limit.
	ErrTooManyColumns = errors.New("too many columns for a single-row upsert statement")
	// ErrInvalidChunksize is returned for a requested chunksize below one.
	ErrInvalidChunksize = errors.New("chunksize must be strictly above zero")
	// ErrColumnCountMismatch is returned when an appended row does not match
	// the dataset's declared key levels plus columns.
	ErrColumnCountMismatch = errors.New("row value count does not match key levels plus columns")
	// ErrUnknownColumn is returned when a record references an undeclared label.
	ErrUnknownColumn = errors.New("unknown column")
)
