// Package tabsert upserts tabular datasets (rows keyed by a unique key)
// into PostgreSQL, MySQL, and SQLite tables. It builds dialect-correct
// parameterized "insert on conflict update/ignore" statements, optionally
// reconciles the target table's structure (create schema/table, add missing
// columns, widen empty-column types), and batches rows within each
// database's bound-parameter limit. Structured logging via log/slog and
// OpenTelemetry tracing are supported out of the box.
package tabsert

import (
	"github.com/coregx/tabsert/internal/core"
	"github.com/coregx/tabsert/internal/dialects"
	"github.com/coregx/tabsert/internal/logger"
	"github.com/coregx/tabsert/internal/tracer"
)

type (
	// Upserter holds the configuration of upsert operations against one
	// target table and is safe to reuse across operations.
	Upserter = core.Upserter
	// Option is a functional option for configuring an Upserter.
	Option = core.Option
	// Dataset is an ordered sequence of rows keyed by named key levels.
	Dataset = core.Dataset
	// ConflictMode selects the behavior when a key already exists.
	ConflictMode = core.ConflictMode
	// Results is the lazy, single-pass sequence of per-chunk outcomes.
	Results = core.Results
	// ChunkResult is the outcome of one executed chunk.
	ChunkResult = core.ChunkResult
	// Column describes one dataset column after inference.
	Column = core.Column
	// ColumnType is the dialect-neutral classification of a column's values.
	ColumnType = dialects.ColumnType
	// Execer is the minimal statement-execution capability (satisfied by
	// *sql.DB, *sql.Tx and *sql.Conn).
	Execer = core.Execer
	// TxBeginner marks connections whose transaction lifecycle the
	// operation owns (satisfied by *sql.DB).
	TxBeginner = core.TxBeginner
	// Logger is the structured logging interface consumed by WithLogger.
	Logger = logger.Logger
	// Tracer is the tracing interface consumed by WithTracer.
	Tracer = tracer.Tracer
)

// Conflict modes.
const (
	// OnConflictUpdate overwrites non-key columns of conflicting rows with
	// the incoming values; columns absent from the dataset stay untouched.
	OnConflictUpdate = core.OnConflictUpdate
	// OnConflictIgnore leaves conflicting rows unmodified.
	OnConflictIgnore = core.OnConflictIgnore
)

// Canonical column types.
const (
	TypeUnknown     = dialects.TypeUnknown
	TypeBool        = dialects.TypeBool
	TypeInteger     = dialects.TypeInteger
	TypeFloat       = dialects.TypeFloat
	TypeText        = dialects.TypeText
	TypeTimestamp   = dialects.TypeTimestamp
	TypeTimestampTZ = dialects.TypeTimestampTZ
	TypeBytes       = dialects.TypeBytes
	TypeJSON        = dialects.TypeJSON
)

// Re-export core functions.
var (
	New           = core.New
	NewDataset    = core.NewDataset
	SafeChunksize = core.SafeChunksize

	// Options
	WithSchema                = core.WithSchema
	WithCreateSchema          = core.WithCreateSchema
	WithCreateTable           = core.WithCreateTable
	WithAddNewColumns         = core.WithAddNewColumns
	WithAdaptEmptyColumnTypes = core.WithAdaptEmptyColumnTypes
	WithChunksize             = core.WithChunksize
	WithColumnType            = core.WithColumnType
	WithColumnTypeSQL         = core.WithColumnTypeSQL
	WithLogger                = core.WithLogger
	WithTracer                = core.WithTracer

	// Observability adapters
	NewSlogAdapter = logger.NewSlogAdapter
	DefaultLogger  = logger.Default
	NewOtelTracer  = tracer.NewOtelTracer
)

// Re-export predefined errors.
var (
	ErrUnsupportedDialect    = core.ErrUnsupportedDialect
	ErrUnnamedKeyLevel       = core.ErrUnnamedKeyLevel
	ErrDuplicateLabels       = core.ErrDuplicateLabels
	ErrDuplicateKeyValues    = core.ErrDuplicateKeyValues
	ErrNullKeyValue          = core.ErrNullKeyValue
	ErrBadColumnNames        = core.ErrBadColumnNames
	ErrMissingKeyColumn      = core.ErrMissingKeyColumn
	ErrCannotAlterColumnType = core.ErrCannotAlterColumnType
	ErrNoSchemaSystem        = core.ErrNoSchemaSystem
	ErrTooManyColumns        = core.ErrTooManyColumns
	ErrInvalidChunksize      = core.ErrInvalidChunksize
	ErrColumnCountMismatch   = core.ErrColumnCountMismatch
	ErrUnknownColumn         = core.ErrUnknownColumn
)
