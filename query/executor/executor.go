// Package executor runs rewritten statements over a driver connection.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
)

// StatementExecutor is the statement surface offered to the ORM.
type StatementExecutor interface {
	Execute(ctx context.Context, sql string, args ...interface{}) error
	SelectAll(ctx context.Context, sql string, args ...interface{}) (*types.QueryResult, error)
	SelectOne(ctx context.Context, sql string, args ...interface{}) (*types.Record, bool, error)
	Insert(ctx context.Context, sql string, id interface{}, args ...interface{}) (interface{}, error)
	Update(ctx context.Context, sql string, args ...interface{}) (int64, error)
	Delete(ctx context.Context, sql string, args ...interface{}) (int64, error)
	Prepare(ctx context.Context, sql string) (driver.Stmt, error)
	NextSequenceValue(ctx context.Context, sequence string) (int64, error)
	BeginDBTransaction(ctx context.Context) error
	CommitDBTransaction(ctx context.Context) error
	RollbackDBTransaction(ctx context.Context) error
}

// Executor executes statements on one connection. It is not safe for
// concurrent use; the connection runs one statement at a time.
type Executor struct {
	conn        driver.Conn
	rewriter    sqlgen.Rewriter
	middlewares []Middleware
}

// NewExecutor creates a new executor
func NewExecutor(conn driver.Conn, rewriter sqlgen.Rewriter) *Executor {
	return &Executor{
		conn:     conn,
		rewriter: rewriter,
	}
}

// Rewriter returns the rewriter used for read statements
func (e *Executor) Rewriter() sqlgen.Rewriter {
	return e.rewriter
}

// Execute runs a statement that returns no rows.
func (e *Executor) Execute(ctx context.Context, sql string, args ...interface{}) error {
	_, err := e.immediate(ctx, "execute", sql, args)
	return err
}

// ExecuteAll runs statements in order and stops at the first failure.
func (e *Executor) ExecuteAll(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		if err := e.Execute(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Update runs an UPDATE and returns the affected row count.
func (e *Executor) Update(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	return e.immediate(ctx, "update", sql, args)
}

// Delete runs a DELETE and returns the affected row count.
func (e *Executor) Delete(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	return e.immediate(ctx, "delete", sql, args)
}

// Insert runs an INSERT and returns id.
//
// Informix does not report generated keys reliably, so the caller fetches the
// key with NextSequenceValue first and binds it in the INSERT.
func (e *Executor) Insert(ctx context.Context, sql string, id interface{}, args ...interface{}) (interface{}, error) {
	if _, err := e.immediate(ctx, "insert", sql, args); err != nil {
		return nil, err
	}
	return id, nil
}

// SelectAll runs a read statement and returns every row in fetch order.
func (e *Executor) SelectAll(ctx context.Context, sql string, args ...interface{}) (*types.QueryResult, error) {
	return e.query(ctx, "select_all", e.rewriter.RewriteNullPredicates(sql), args)
}

// SelectPage runs a read statement with pagination spliced in.
func (e *Executor) SelectPage(ctx context.Context, sql string, page sqlgen.Pagination, args ...interface{}) (*types.QueryResult, error) {
	return e.query(ctx, "select_page", e.rewriter.RewriteSelect(sql, page), args)
}

// SelectOne runs a read statement limited to one row. ok is false when the
// statement returned nothing.
func (e *Executor) SelectOne(ctx context.Context, sql string, args ...interface{}) (rec *types.Record, ok bool, err error) {
	result, err := e.query(ctx, "select_one", e.rewriter.RewriteSelect(sql, sqlgen.Limit(1)), args)
	if err != nil {
		return nil, false, err
	}
	rec, ok = result.First()
	return rec, ok, nil
}

// SelectValue returns the value of column in the first row.
func (e *Executor) SelectValue(ctx context.Context, sql, column string, args ...interface{}) (interface{}, error) {
	rec, ok, err := e.SelectOne(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, runtime.NewError(runtime.ErrNoRows, "select_value", sql, nil)
	}
	v, ok := rec.GetFold(column)
	if !ok {
		return nil, runtime.NewError(runtime.ErrNoRows, "select_value", sql, fmt.Errorf("column %s not in result", column))
	}
	return v, nil
}

// NextSequenceValue draws the next value of sequence.
func (e *Executor) NextSequenceValue(ctx context.Context, sequence string) (int64, error) {
	sql := fmt.Sprintf("select %s.nextval id from systables where tabid=1", sequence)
	v, err := e.SelectValue(ctx, sql, "id")
	if err != nil {
		return 0, err
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return 0, runtime.NewError(runtime.ErrStatement, "next_sequence_value", sql, err)
	}
	return id, nil
}

// Prepare prepares a statement. The caller must Drop it.
func (e *Executor) Prepare(ctx context.Context, sql string) (driver.Stmt, error) {
	var stmt driver.Stmt
	err := e.run(ctx, "prepare", sql, nil, func() error {
		var err error
		stmt, err = e.conn.Prepare(ctx, sql)
		return err
	})
	if err != nil {
		return nil, runtime.Classify("prepare", sql, err)
	}
	return stmt, nil
}

// ExecutePrepared prepares sql, executes it once with params and drops it.
// io.Reader params are sent as streams.
func (e *Executor) ExecutePrepared(ctx context.Context, sql string, params ...interface{}) (affected int64, err error) {
	stmt, err := e.Prepare(ctx, sql)
	if err != nil {
		return 0, err
	}
	defer func() {
		if derr := stmt.Drop(); derr != nil && err == nil {
			err = runtime.Classify("drop statement", sql, derr)
		}
	}()

	err = e.run(ctx, "execute_prepared", sql, params, func() error {
		var err error
		affected, err = stmt.Execute(ctx, params...)
		return err
	})
	if err != nil {
		return 0, runtime.Classify("execute_prepared", sql, err)
	}
	return affected, nil
}

func (e *Executor) immediate(ctx context.Context, name, sql string, args []interface{}) (int64, error) {
	var affected int64
	err := e.run(ctx, name, sql, args, func() error {
		var err error
		affected, err = e.conn.Immediate(ctx, sql, args...)
		return err
	})
	if err != nil {
		return 0, runtime.Classify(name, sql, err)
	}
	return affected, nil
}

// query is the shared read path: declare, open, fetch, close.
func (e *Executor) query(ctx context.Context, name, sql string, args []interface{}) (*types.QueryResult, error) {
	var records []*types.Record
	start := time.Now()
	err := e.run(ctx, name, sql, args, func() error {
		var err error
		records, err = driver.FetchAll(ctx, e.conn, sql, args...)
		return err
	})
	if err != nil {
		return nil, runtime.Classify(name, sql, err)
	}
	result := &types.QueryResult{Records: records, Duration: time.Since(start)}
	if len(records) > 0 {
		result.Columns = records[0].Columns()
	}
	return result, nil
}

var _ StatementExecutor = (*Executor)(nil)
