package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newRecordingTracer builds an OtelTracer backed by an in-memory exporter.
func newRecordingTracer(t *testing.T) (*OtelTracer, *tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOtelTracer(tp.Tracer("test")), exporter, tp
}

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}
	ctx := context.Background()

	// Should not panic
	_, span := tracer.StartSpan(ctx, "tabsert.chunk")
	assert.NotNil(t, span)

	span.SetAttributes(attribute.String("key", "value"))
	span.RecordError(errors.New("test error"))
	span.SetStatus(codes.Error, "error")
	span.End()
}

func TestOtelTracerRecordsSpans(t *testing.T) {
	tracer, exporter, tp := newRecordingTracer(t)

	ctx := context.Background()
	ctx, span := tracer.StartSpan(ctx, "tabsert.reconcile.create-table")
	span.SetAttributes(attribute.String("db.system", "sqlite"))
	span.End()

	_ = tp.ForceFlush(ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tabsert.reconcile.create-table", spans[0].Name)
	assert.Equal(t, "sqlite", spans[0].Attributes[0].Value.AsString())
}

func TestAddQueryAttributesSuccess(t *testing.T) {
	tracer, exporter, tp := newRecordingTracer(t)

	ctx := context.Background()
	ctx, span := tracer.StartSpan(ctx, "tabsert.chunk")

	meta := &QueryMetadata{
		SQL:          `INSERT INTO "users" ("id", "name") VALUES (?, ?) ON CONFLICT ("id") DO NOTHING`,
		Args:         []any{1, "Alice"},
		Duration:     15 * time.Millisecond,
		RowsAffected: 1,
		Database:     "sqlite",
		Operation:    "INSERT",
		Table:        "users",
	}
	AddQueryAttributes(span, meta)
	span.End()

	_ = tp.ForceFlush(ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrMap := make(map[string]any)
	for _, attr := range spans[0].Attributes {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	assert.Equal(t, "sqlite", attrMap["db.system"])
	assert.Equal(t, meta.SQL, attrMap["db.statement"])
	assert.Equal(t, "INSERT", attrMap["db.operation"])
	assert.Equal(t, "users", attrMap["db.table"])
	assert.Equal(t, int64(1), attrMap["db.rows_affected"])
	assert.InDelta(t, 15.0, attrMap["db.duration_ms"], 0.1)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestAddQueryAttributesWithError(t *testing.T) {
	tracer, exporter, tp := newRecordingTracer(t)

	ctx := context.Background()
	ctx, span := tracer.StartSpan(ctx, "tabsert.chunk")

	execErr := errors.New("database is locked")
	AddQueryAttributes(span, &QueryMetadata{
		SQL:       `INSERT INTO "users" ("id") VALUES (?)`,
		Duration:  5 * time.Millisecond,
		Error:     execErr,
		Database:  "sqlite",
		Operation: "INSERT",
	})
	span.End()

	_ = tp.ForceFlush(ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "database is locked", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestAddQueryAttributesOmitsEmptyFields(t *testing.T) {
	tracer, exporter, tp := newRecordingTracer(t)

	ctx := context.Background()
	ctx, span := tracer.StartSpan(ctx, "tabsert.reconcile.add-column")

	AddQueryAttributes(span, &QueryMetadata{
		SQL:       `ALTER TABLE "users" ADD COLUMN "age" INTEGER`,
		Database:  "sqlite",
		Operation: "ALTER",
	})
	span.End()

	_ = tp.ForceFlush(ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	for _, attr := range spans[0].Attributes {
		assert.NotEqual(t, "db.table", string(attr.Key))
		assert.NotEqual(t, "db.rows_affected", string(attr.Key))
	}
}

func TestDetectOperation(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{`SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`, "SELECT"},
		{`select column_name from information_schema.columns`, "SELECT"},
		{`PRAGMA table_info("users")`, "SELECT"},
		{`WITH t AS (SELECT 1) SELECT * FROM t`, "SELECT"},
		{`INSERT INTO "users" ("id") VALUES (?)`, "INSERT"},
		{"INSERT IGNORE INTO `users` (`id`) VALUES (?)", "INSERT"},
		{`CREATE TABLE IF NOT EXISTS "users" ("id" INTEGER)`, "CREATE"},
		{`CREATE SCHEMA IF NOT EXISTS "metrics"`, "CREATE"},
		{`ALTER TABLE "users" ADD COLUMN "age" INTEGER`, "ALTER"},
		{`DROP TABLE "users"`, "UNKNOWN"},
		{"", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want+" "+tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectOperation(tt.sql))
		})
	}
}
