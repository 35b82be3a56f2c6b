package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ifxgo/adapter/runtime"
)

// BeginDBTransaction starts a transaction on the connection.
func (e *Executor) BeginDBTransaction(ctx context.Context) error {
	err := e.run(ctx, "begin", "BEGIN WORK", nil, func() error {
		return e.conn.Begin(ctx)
	})
	if err != nil {
		return runtime.Classify("begin", "BEGIN WORK", err)
	}
	return nil
}

// CommitDBTransaction commits the open transaction.
func (e *Executor) CommitDBTransaction(ctx context.Context) error {
	err := e.run(ctx, "commit", "COMMIT WORK", nil, func() error {
		return e.conn.Commit(ctx)
	})
	if err != nil {
		return runtime.Classify("commit", "COMMIT WORK", err)
	}
	return nil
}

// RollbackDBTransaction rolls back the open transaction.
func (e *Executor) RollbackDBTransaction(ctx context.Context) error {
	err := e.run(ctx, "rollback", "ROLLBACK WORK", nil, func() error {
		return e.conn.Rollback(ctx)
	})
	if err != nil {
		return runtime.Classify("rollback", "ROLLBACK WORK", err)
	}
	return nil
}

// TransactionFunc is a function that runs within a transaction
type TransactionFunc func(e *Executor) error

// Transaction runs fn inside a transaction. If fn returns an error or panics
// the transaction is rolled back, otherwise it is committed. Nested calls are
// not supported; Informix has no savepoints on older servers. A failed commit
// is returned as is: the transaction is already closed by then.
func (e *Executor) Transaction(ctx context.Context, fn TransactionFunc) (err error) {
	if err := e.BeginDBTransaction(ctx); err != nil {
		return err
	}

	committing := false
	defer func() {
		if p := recover(); p != nil {
			_ = e.RollbackDBTransaction(ctx)
			panic(p)
		}
		if err != nil && !committing {
			if rerr := e.RollbackDBTransaction(ctx); rerr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			}
		}
	}()

	if err = fn(e); err != nil {
		return err
	}
	committing = true
	return e.CommitDBTransaction(ctx)
}
