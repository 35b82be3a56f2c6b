package driver_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cast"

	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *driver.SQLConn {
	t.Helper()
	conn, err := driver.Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Immediate(context.Background(), "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT, data BLOB)")
	require.NoError(t, err)
	return conn
}

func TestSQLConnImmediateAndCursor(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	n, err := conn.Immediate(ctx, "INSERT INTO items (id, name) VALUES (?, ?), (?, ?)", 1, "bolt", 2, "nut")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	recs, err := driver.FetchAll(ctx, conn, "SELECT id, name FROM items ORDER BY id DESC")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"id", "name"}, recs[0].Columns())

	id, _ := recs[0].Get("id")
	name, _ := recs[0].Get("name")
	assert.Equal(t, int64(2), cast.ToInt64(id))
	assert.Equal(t, "nut", cast.ToString(name))
}

func TestSQLConnPreparedStream(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	_, err := conn.Immediate(ctx, "INSERT INTO items (id) VALUES (1)")
	require.NoError(t, err)

	stmt, err := conn.Prepare(ctx, "UPDATE items SET data = ? WHERE id = 1")
	require.NoError(t, err)
	n, err := stmt.Execute(ctx, strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, stmt.Drop())

	recs, err := driver.FetchAll(ctx, conn, "SELECT data FROM items WHERE id = ?", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	data, _ := recs[0].Get("data")
	assert.Equal(t, "payload", cast.ToString(data))
}

func TestSQLConnStreamReadError(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)
	broken := errors.New("disk gone")

	_, err := conn.Immediate(ctx, "INSERT INTO items (id, data) VALUES (?, ?)", 1, iotest.ErrReader(broken))
	assert.ErrorIs(t, err, broken)

	stmt, err := conn.Prepare(ctx, "INSERT INTO items (id, data) VALUES (?, ?)")
	require.NoError(t, err)
	defer stmt.Drop()
	_, err = stmt.Execute(ctx, 2, iotest.ErrReader(broken))
	assert.ErrorIs(t, err, broken)

	recs, err := driver.FetchAll(ctx, conn, "SELECT id FROM items")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLConnTransactions(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	require.NoError(t, conn.Begin(ctx))
	assert.ErrorIs(t, conn.Begin(ctx), driver.ErrTxInProgress)
	_, err := conn.Immediate(ctx, "INSERT INTO items (id) VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, conn.Rollback(ctx))

	recs, err := driver.FetchAll(ctx, conn, "SELECT id FROM items")
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, conn.Begin(ctx))
	_, err = conn.Immediate(ctx, "INSERT INTO items (id) VALUES (2)")
	require.NoError(t, err)
	require.NoError(t, conn.Commit(ctx))

	recs, err = driver.FetchAll(ctx, conn, "SELECT id FROM items")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	assert.ErrorIs(t, conn.Commit(ctx), driver.ErrNoTx)
	assert.ErrorIs(t, conn.Rollback(ctx), driver.ErrNoTx)
}

func TestSQLConnCursorNotOpen(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)

	cur, err := conn.Cursor(ctx, "SELECT id FROM items")
	require.NoError(t, err)
	_, err = cur.FetchAll(ctx)
	assert.Error(t, err)
	assert.NoError(t, cur.Close())
}

func TestSQLConnStatementError(t *testing.T) {
	conn := openSQLite(t)
	_, err := driver.FetchAll(context.Background(), conn, "SELECT * FROM missing")
	assert.Error(t, err)
}

func TestNewSQLConnKeepsCallerDB(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	conn, err := driver.NewSQLConn(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// the pool is still usable after the adapter connection is closed
	assert.NoError(t, db.Ping())
}

func TestSQLConnServerVersionNeedsCatalog(t *testing.T) {
	conn := openSQLite(t)
	_, err := conn.ServerVersion(context.Background())
	assert.Error(t, err)
}

func TestSQLConnColumnsNeedsCatalog(t *testing.T) {
	conn := openSQLite(t)
	_, err := conn.Columns(context.Background(), "items")
	assert.Error(t, err)
}
