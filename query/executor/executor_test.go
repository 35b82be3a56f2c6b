package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/driver/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(major int) (*Executor, *mock.Conn) {
	m := mock.New()
	return NewExecutor(m, sqlgen.NewInformixRewriter(sqlgen.NewServerCapabilities(major))), m
}

func TestSelectAllKeepsFetchOrder(t *testing.T) {
	e, m := newExecutor(11)
	m.OnQuery("SELECT id, name FROM orders WHERE note IS NULL",
		mock.Row("id", 3, "name", "c"),
		mock.Row("id", 1, "name", "a"),
		mock.Row("id", 2, "name", "b"),
	)

	result, err := e.SelectAll(context.Background(), "SELECT id, name FROM orders WHERE note = NULL")
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())
	assert.Equal(t, []string{"id", "name"}, result.Columns)

	var ids []interface{}
	for _, rec := range result.Records {
		v, _ := rec.Get("id")
		ids = append(ids, v)
	}
	assert.Equal(t, []interface{}{3, 1, 2}, ids)

	assert.Equal(t, []string{"SELECT id, name FROM orders WHERE note IS NULL"}, m.Queries())
	assert.Equal(t, 1, m.CursorsOpened)
	assert.Equal(t, 1, m.CursorsClosed)
}

func TestSelectOne(t *testing.T) {
	t.Run("returns the first row", func(t *testing.T) {
		e, m := newExecutor(11)
		m.OnQuery("SELECT FIRST 1 * FROM orders", mock.Row("id", 7))

		rec, ok, err := e.SelectOne(context.Background(), "SELECT * FROM orders")
		require.NoError(t, err)
		require.True(t, ok)
		v, _ := rec.Get("id")
		assert.Equal(t, 7, v)
		assert.Equal(t, []string{"SELECT FIRST 1 * FROM orders"}, m.Queries())
	})

	t.Run("empty result is absent, not an error", func(t *testing.T) {
		e, m := newExecutor(11)
		m.OnQuery("SELECT FIRST 1 * FROM orders")

		rec, ok, err := e.SelectOne(context.Background(), "SELECT * FROM orders")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, rec)
		assert.Equal(t, 1, m.CursorsClosed)
	})
}

func TestSelectPage(t *testing.T) {
	e, m := newExecutor(9)
	_, err := e.SelectPage(context.Background(), "SELECT * FROM t", sqlgen.LimitOffset(5, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT FIRST 5 * FROM t"}, m.Queries())
}

func TestCursorReleasedOnFetchFailure(t *testing.T) {
	fetchErr := errors.New("-243: Could not position within a table")

	t.Run("fetch fails", func(t *testing.T) {
		e, m := newExecutor(11)
		m.OnQuery("SELECT * FROM t").FailFetch(fetchErr)

		_, err := e.SelectAll(context.Background(), "SELECT * FROM t")
		require.Error(t, err)
		assert.ErrorIs(t, err, fetchErr)
		assert.ErrorIs(t, err, runtime.ErrStatement)
		assert.Equal(t, 1, m.Count(mock.OpClose))
	})

	t.Run("fetch and close fail", func(t *testing.T) {
		e, m := newExecutor(11)
		closeErr := errors.New("close failed")
		m.OnQuery("SELECT * FROM t").FailFetch(fetchErr)
		m.FailClose(closeErr)

		_, err := e.SelectAll(context.Background(), "SELECT * FROM t")
		require.Error(t, err)
		assert.ErrorIs(t, err, fetchErr)
		assert.ErrorIs(t, err, closeErr)
		assert.Less(t, strings.Index(err.Error(), fetchErr.Error()), strings.Index(err.Error(), closeErr.Error()))
		assert.Equal(t, 1, m.Count(mock.OpClose))
	})

	t.Run("open fails", func(t *testing.T) {
		e, m := newExecutor(11)
		m.OnQuery("SELECT * FROM t").FailOpen(errors.New("open failed"))

		_, err := e.SelectAll(context.Background(), "SELECT * FROM t")
		require.Error(t, err)
		assert.Equal(t, 1, m.Count(mock.OpClose))
		assert.Equal(t, 0, m.Count(mock.OpFetch))
	})
}

func TestExecute(t *testing.T) {
	e, m := newExecutor(11)
	m.OnExec("UPDATE t SET a = 1").ReturnAffected(4)
	m.OnExec("INSERT INTO t VALUES (1)").ReturnError(errors.New("-268: Unique constraint (informix.u1) violated."))

	require.NoError(t, e.Execute(context.Background(), "DROP TABLE x"))

	n, err := e.Update(context.Background(), "UPDATE t SET a = 1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	err = e.Execute(context.Background(), "INSERT INTO t VALUES (1)")
	assert.True(t, runtime.IsConstraintViolation(err))

	// execute never rewrites null predicates
	require.NoError(t, e.Execute(context.Background(), "UPDATE t SET a = NULL"))
	assert.Equal(t, "UPDATE t SET a = NULL", m.Statements()[3])
}

func TestExecuteAllStopsAtFirstFailure(t *testing.T) {
	e, m := newExecutor(11)
	m.OnExec("B").ReturnError(errors.New("boom"))

	err := e.ExecuteAll(context.Background(), []string{"A", "B", "C"})
	require.Error(t, err)
	assert.Equal(t, []string{"A", "B"}, m.Statements())
}

func TestInsertUsesPrefetchedSequenceValue(t *testing.T) {
	e, m := newExecutor(11)
	m.OnQuery("SELECT FIRST 1 orders_seq.nextval id from systables where tabid=1", mock.Row("id", "42"))

	ctx := context.Background()
	id, err := e.NextSequenceValue(ctx, "orders_seq")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	got, err := e.Insert(ctx, "INSERT INTO orders (id, name) VALUES (?, ?)", id, id, "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	require.Len(t, m.Calls, 5)
	assert.Equal(t, mock.OpCursor, m.Calls[0].Op)
	assert.Equal(t, mock.OpImmediate, m.Calls[4].Op)
	assert.Equal(t, []interface{}{int64(42), "widget"}, m.Calls[4].Args)
}

func TestNextSequenceValueNoRows(t *testing.T) {
	e, _ := newExecutor(11)
	_, err := e.NextSequenceValue(context.Background(), "missing_seq")
	assert.ErrorIs(t, err, runtime.ErrNoRows)
}

func TestExecutePreparedDropsStatement(t *testing.T) {
	e, m := newExecutor(11)
	sql := "UPDATE docs SET body = ? WHERE id = 1"

	n, err := e.ExecutePrepared(context.Background(), sql, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, []string{"hello"}, m.Streams[sql])
	assert.Equal(t, 1, m.StmtsDropped)
}

func TestExecutePreparedFailsToPrepare(t *testing.T) {
	e, m := newExecutor(11)
	m.FailPrepare("BAD", errors.New("-201: A syntax error has occurred."))

	_, err := e.ExecutePrepared(context.Background(), "BAD")
	assert.ErrorIs(t, err, runtime.ErrStatement)
	assert.Equal(t, 0, m.StmtsDropped)
}

func TestMiddlewareChain(t *testing.T) {
	e, _ := newExecutor(11)

	var order []string
	e.Use(func(ctx context.Context, ev *QueryEvent, next func() error) error {
		order = append(order, "first:"+ev.Name)
		return next()
	})
	e.Use(func(ctx context.Context, ev *QueryEvent, next func() error) error {
		order = append(order, "second:"+ev.Name)
		return next()
	})

	var timed []string
	e.Use(TimingMiddleware(func(query string, d time.Duration) {
		timed = append(timed, query)
	}))

	require.NoError(t, e.Execute(context.Background(), "DROP TABLE t"))
	assert.Equal(t, []string{"first:execute", "second:execute"}, order)
	assert.Equal(t, []string{"DROP TABLE t"}, timed)
}

func TestErrorMiddleware(t *testing.T) {
	e, m := newExecutor(11)
	m.OnExec("DROP TABLE t").ReturnError(errors.New("-206: table not found"))

	var failed []string
	e.Use(ErrorMiddleware(func(query string, err error) {
		failed = append(failed, query)
	}))

	require.Error(t, e.Execute(context.Background(), "DROP TABLE t"))
	assert.Equal(t, []string{"DROP TABLE t"}, failed)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e, m := newExecutor(11)
	e.Use(LoggingMiddleware(logger.With("conn", "c1")))
	m.OnExec("DROP TABLE t").ReturnError(errors.New("-206: table not found"))

	require.NoError(t, e.Execute(context.Background(), "CREATE TABLE t (a int)"))
	require.Error(t, e.Execute(context.Background(), "DROP TABLE t"))

	out := buf.String()
	assert.Contains(t, out, `msg=statement`)
	assert.Contains(t, out, `sql="CREATE TABLE t (a int)"`)
	assert.Contains(t, out, `msg="statement failed"`)
	assert.Contains(t, out, "conn=c1")
	assert.Contains(t, out, "-206")
}
