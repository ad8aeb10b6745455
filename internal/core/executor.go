package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/coregx/tabsert/internal/logger"
	"github.com/coregx/tabsert/internal/tracer"
)

// operation carries the per-call state of one upsert: the validated
// dataset, its inferred columns, the chunk plan and the conflict mode.
type operation struct {
	u      *Upserter
	ds     *Dataset
	cols   []Column
	chunks []Chunk
	mode   ConflictMode

	exec Execer
	tx   *sql.Tx // non-nil when the operation owns the transaction
}

// Upsert validates the dataset, reconciles the target table and sends every
// chunk, strictly in row order, on a single connection. When conn can begin
// transactions, the whole operation runs in one owned transaction: committed
// on success, rolled back on any failure. Otherwise conn is used as-is and
// transaction boundaries stay with the caller.
func (u *Upserter) Upsert(ctx context.Context, conn Execer, ds *Dataset, mode ConflictMode) error {
	op, err := u.prepare(ds, mode)
	if err != nil {
		return err
	}
	op.exec, op.tx, err = acquire(ctx, conn)
	if err != nil {
		return err
	}
	return finalize(op.tx, op.run(ctx))
}

// UpsertYield is Upsert with per-chunk visibility: reconciliation is applied
// up front, then a lazy, forward-only Results sequence executes one chunk
// per Next call. Side effects are already applied when a result is
// produced; the sequence is not restartable. The caller must Close the
// sequence: with an owned transaction, Close commits when no error occurred
// and rolls back otherwise.
func (u *Upserter) UpsertYield(ctx context.Context, conn Execer, ds *Dataset, mode ConflictMode) (*Results, error) {
	op, err := u.prepare(ds, mode)
	if err != nil {
		return nil, err
	}
	op.exec, op.tx, err = acquire(ctx, conn)
	if err != nil {
		return nil, err
	}

	if err := op.reconcileAndApply(ctx); err != nil {
		return nil, finalize(op.tx, err)
	}
	return &Results{ctx: ctx, op: op}, nil
}

// run executes the eager form: reconciliation, then every chunk.
func (op *operation) run(ctx context.Context) error {
	if err := op.reconcileAndApply(ctx); err != nil {
		return err
	}
	for i := range op.chunks {
		if _, err := op.execChunk(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// reconcileAndApply computes the structural plan and applies its actions in
// order, each as its own statement, before any chunk is sent.
func (op *operation) reconcileAndApply(ctx context.Context) error {
	u := op.u
	cat := newCatalog(u.dialect, op.exec, u.schema, u.table)
	plan, err := u.reconcile(ctx, cat, op.cols)
	if err != nil {
		return err
	}

	for _, action := range plan.Actions {
		ctx, span := u.tracer.StartSpan(ctx, "tabsert.reconcile."+action.Kind.String())
		start := time.Now()
		_, err := op.exec.ExecContext(ctx, action.SQL)
		elapsed := time.Since(start)

		tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
			SQL:       action.SQL,
			Duration:  elapsed,
			Error:     err,
			Database:  u.dialect.Name(),
			Operation: tracer.DetectOperation(action.SQL),
			Table:     u.table,
		})
		span.End()

		if err != nil {
			u.log.Error("reconciliation action failed",
				"action", action.Kind.String(),
				"sql", action.SQL,
				"table", u.table,
				"error", err,
			)
			return err
		}
		u.log.Info("reconciliation action applied",
			"action", action.Kind.String(),
			"column", action.Column,
			"table", u.table,
			"schema", u.schema,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return nil
}

// execChunk builds, binds and sends chunk i, returning the affected-row
// count reported by the driver.
func (op *operation) execChunk(ctx context.Context, i int) (int64, error) {
	u := op.u
	chunk := op.chunks[i]

	query := buildUpsertSQL(u.dialect, u.schema, u.table, op.cols, op.mode, chunk.Rows())
	args, err := bindChunkArgs(op.ds, op.cols, chunk)
	if err != nil {
		return 0, err
	}

	ctx, span := u.tracer.StartSpan(ctx, "tabsert.chunk")
	start := time.Now()
	res, err := op.exec.ExecContext(ctx, query, args...)
	elapsed := time.Since(start)

	var affected int64
	if res != nil {
		var countErr error
		affected, countErr = res.RowsAffected()
		if countErr != nil {
			affected = 0
			u.log.Debug("driver cannot report affected rows",
				"chunk", i,
				"error", countErr,
			)
		}
	}
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:          query,
		Args:         args,
		Duration:     elapsed,
		RowsAffected: affected,
		Error:        err,
		Database:     u.dialect.Name(),
		Operation:    tracer.DetectOperation(query),
		Table:        u.table,
	})
	span.End()

	if err != nil {
		u.log.Error("chunk execution failed",
			"chunk", i,
			"rows", chunk.Rows(),
			"sql", query,
			"params", logger.FormatParams(logger.MaskParams(query, args)),
			"table", u.table,
			"error", err,
		)
		return 0, err
	}
	u.log.Debug("chunk executed",
		"chunk", i,
		"rows", chunk.Rows(),
		"rows_affected", affected,
		"duration_ms", elapsed.Milliseconds(),
		"table", u.table,
	)
	return affected, nil
}

// ChunkResult is the outcome of one executed chunk.
type ChunkResult struct {
	// Chunk is the zero-based chunk index in execution order.
	Chunk int
	// Rows is the number of dataset rows the chunk carried.
	Rows int
	// RowsAffected is the driver-reported affected-row count. Dialects
	// count an updated conflict differently from a plain insert.
	RowsAffected int64
}

// Results is a lazy, forward-only, single-pass sequence of per-chunk
// outcomes. Each Next call sends one chunk; its side effects are applied
// before Next returns. The iteration pattern matches sql.Rows:
//
//	res, err := u.UpsertYield(ctx, db, ds, tabsert.OnConflictUpdate)
//	if err != nil { ... }
//	defer res.Close()
//	for res.Next() {
//	    fmt.Println(res.Result().RowsAffected)
//	}
//	if err := res.Err(); err != nil { ... }
type Results struct {
	ctx    context.Context
	op     *operation
	next   int
	cur    ChunkResult
	err    error
	closed bool
}

// Next sends the next chunk and reports whether an outcome is available.
// It returns false after the last chunk, on error, or once closed.
func (r *Results) Next() bool {
	if r.closed || r.err != nil || r.next >= len(r.op.chunks) {
		return false
	}
	affected, err := r.op.execChunk(r.ctx, r.next)
	if err != nil {
		r.err = err
		return false
	}
	r.cur = ChunkResult{
		Chunk:        r.next,
		Rows:         r.op.chunks[r.next].Rows(),
		RowsAffected: affected,
	}
	r.next++
	return true
}

// Result returns the outcome produced by the last successful Next call.
func (r *Results) Result() ChunkResult { return r.cur }

// Err returns the first error encountered while iterating, if any.
func (r *Results) Err() error { return r.err }

// Close finalizes the sequence. With an owned transaction it commits when
// no error occurred (even if iteration stopped early) and rolls back
// otherwise. Close is idempotent.
func (r *Results) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return finalize(r.op.tx, r.err)
}
