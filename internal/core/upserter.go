package core

import (
	"fmt"

	"github.com/coregx/tabsert/internal/dialects"
	"github.com/coregx/tabsert/internal/logger"
	"github.com/coregx/tabsert/internal/tracer"
)

// Upserter holds the configuration of upsert operations against one target
// table. It is immutable after New and safe to reuse across operations.
type Upserter struct {
	dialect    dialects.Dialect
	driverName string
	table      string
	schema     string

	createSchema      bool
	createTable       bool
	addNewColumns     bool
	adaptEmptyColumns bool
	chunksize         int

	typeOverrides map[string]dialects.ColumnType
	rawOverrides  map[string]string

	log    logger.Logger
	tracer tracer.Tracer
}

// Option is a functional option for configuring an Upserter.
type Option func(*Upserter)

// WithSchema sets the schema/namespace containing the table. On MySQL a
// schema is a database, so this targets a database other than the
// connection's current one. SQLite has no namespaces and rejects it.
func WithSchema(schema string) Option {
	return func(u *Upserter) { u.schema = schema }
}

// WithCreateSchema creates the schema if it does not exist. Requires a
// dialect with a schema system.
func WithCreateSchema(enabled bool) Option {
	return func(u *Upserter) { u.createSchema = enabled }
}

// WithCreateTable creates the table if it does not exist. Enabled by default.
func WithCreateTable(enabled bool) Option {
	return func(u *Upserter) { u.createTable = enabled }
}

// WithAddNewColumns adds dataset columns missing from the table.
func WithAddNewColumns(enabled bool) Option {
	return func(u *Upserter) { u.addNewColumns = enabled }
}

// WithAdaptEmptyColumnTypes alters the type of table columns that hold no
// data when the dataset implies a different type. Columns with data are
// never altered.
func WithAdaptEmptyColumnTypes(enabled bool) Option {
	return func(u *Upserter) { u.adaptEmptyColumns = enabled }
}

// WithChunksize sets the number of rows sent per statement. Zero (the
// default) sends all rows in as few statements as the dialect's parameter
// limit allows. An explicit value is never adjusted to the limit; use
// SafeChunksize for a recommendation.
func WithChunksize(rows int) Option {
	return func(u *Upserter) { u.chunksize = rows }
}

// WithColumnType overrides the inferred canonical type of one column.
func WithColumnType(name string, t dialects.ColumnType) Option {
	return func(u *Upserter) { u.typeOverrides[name] = t }
}

// WithColumnTypeSQL overrides the rendered SQL type of one column with a
// raw type string, e.g. "VARCHAR(50)" for a MySQL text key.
func WithColumnTypeSQL(name, typeSQL string) Option {
	return func(u *Upserter) { u.rawOverrides[name] = typeSQL }
}

// WithLogger sets the structured logger. Defaults to no logging.
func WithLogger(log logger.Logger) Option {
	return func(u *Upserter) { u.log = log }
}

// WithTracer sets the tracer for reconciliation and chunk statements.
// Defaults to no tracing.
func WithTracer(t tracer.Tracer) Option {
	return func(u *Upserter) { u.tracer = t }
}

// New creates an Upserter for the given driver name and target table.
// Capability mismatches that no connection could fix (unknown dialect,
// schema creation on a dialect without schemas) fail here, before any
// database work.
func New(driverName, table string, opts ...Option) (*Upserter, error) {
	d, ok := dialects.Get(driverName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, driverName)
	}

	u := &Upserter{
		dialect:       d,
		driverName:    driverName,
		table:         table,
		createTable:   true,
		typeOverrides: make(map[string]dialects.ColumnType),
		rawOverrides:  make(map[string]string),
		log:           &logger.NoopLogger{},
		tracer:        &tracer.NoopTracer{},
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.createSchema && !d.SupportsSchemas() {
		return nil, fmt.Errorf("%w: %s cannot create schema %q",
			ErrNoSchemaSystem, d.Name(), u.schema)
	}
	if u.schema != "" && d.Name() == "sqlite" {
		return nil, fmt.Errorf("%w: %s cannot target schema %q",
			ErrNoSchemaSystem, d.Name(), u.schema)
	}
	if u.chunksize < 0 {
		return nil, ErrInvalidChunksize
	}
	return u, nil
}

// prepare runs everything that must happen before any statement is sent:
// validation, inference and chunk planning. Zero database side effects.
func (u *Upserter) prepare(ds *Dataset, mode ConflictMode) (*operation, error) {
	if mode != OnConflictUpdate && mode != OnConflictIgnore {
		return nil, fmt.Errorf("invalid conflict mode %q (want %q or %q)",
			mode, OnConflictUpdate, OnConflictIgnore)
	}

	validated, err := validateDataset(ds, u.dialect, u.log)
	if err != nil {
		return nil, err
	}
	cols := inferColumns(validated, u.typeOverrides, u.rawOverrides)

	chunks, err := planChunks(validated.Len(), len(cols), u.dialect.ParameterLimit(), u.chunksize)
	if err != nil {
		return nil, err
	}

	return &operation{
		u:      u,
		ds:     validated,
		cols:   cols,
		chunks: chunks,
		mode:   mode,
	}, nil
}
