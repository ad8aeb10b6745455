package core

import (
	"context"
	"database/sql"
)

// Execer is the minimal statement-execution capability the upsert pipeline
// needs. *sql.DB, *sql.Tx and *sql.Conn all satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TxBeginner is the optional connection-acquisition capability. When the
// object handed to an operation also implements it (e.g. *sql.DB), the
// operation owns the full transaction lifecycle: it opens exactly one
// transaction, commits on success and rolls back on any failure. When the
// object is only an Execer (e.g. *sql.Tx), transaction boundaries belong
// entirely to the caller, enabling commit-as-you-go and multi-operation
// transactions. This is a capability contract, not a type hierarchy.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// acquire resolves the capability of conn. It returns the Execer to run
// statements on and, when the operation owns the transaction, the
// transaction to finalize.
func acquire(ctx context.Context, conn Execer) (Execer, *sql.Tx, error) {
	if tb, ok := conn.(TxBeginner); ok {
		tx, err := tb.BeginTx(ctx, nil)
		if err != nil {
			return nil, nil, err
		}
		return tx, tx, nil
	}
	return conn, nil, nil
}

// finalize commits or rolls back an owned transaction. A nil tx (caller
// owns the boundaries) is a no-op.
func finalize(tx *sql.Tx, opErr error) error {
	if tx == nil {
		return opErr
	}
	if opErr != nil {
		_ = tx.Rollback()
		return opErr
	}
	return tx.Commit()
}
