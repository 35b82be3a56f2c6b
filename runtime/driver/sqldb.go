package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/ifxgo/adapter/runtime/types"
)

const (
	queryServerVersion = `SELECT dbinfo('version', 'full') FROM systables WHERE tabid = 1`

	queryColumns = `
		SELECT c.colname, c.coltype, c.collength, c.extended_id, d.type, d.default
		FROM systables t
		JOIN syscolumns c ON c.tabid = t.tabid
		LEFT OUTER JOIN sysdefaults d ON d.tabid = c.tabid AND d.colno = c.colno
		WHERE t.tabname = ?
		ORDER BY c.colno
	`
)

var (
	// ErrTxInProgress is returned by Begin when a transaction is already open.
	ErrTxInProgress = errors.New("transaction already in progress")

	// ErrNoTx is returned by Commit and Rollback without an open transaction.
	ErrNoTx = errors.New("no transaction in progress")
)

// querier is the part of *sql.Conn and *sql.Tx the connection uses.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// SQLConn implements Conn on top of a database/sql driver. It pins a single
// *sql.Conn from the pool so that transactions and session state stay on one
// server session.
type SQLConn struct {
	db     *sql.DB
	conn   *sql.Conn
	tx     *sql.Tx
	ownsDB bool
}

// Open opens a database/sql handle with the registered driverName and pins
// one connection from it.
func Open(ctx context.Context, driverName, dsn string) (*SQLConn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	c, err := NewSQLConn(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	c.ownsDB = true
	return c, nil
}

// NewSQLConn pins one connection from db. The caller keeps ownership of db.
func NewSQLConn(ctx context.Context, db *sql.DB) (*SQLConn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &SQLConn{db: db, conn: conn}, nil
}

func (c *SQLConn) q() querier {
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

// Prepare prepares query on the pinned connection.
func (c *SQLConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	stmt, err := c.q().PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{stmt: stmt}, nil
}

// Immediate executes query without keeping a prepared statement around.
func (c *SQLConn) Immediate(ctx context.Context, query string, args ...interface{}) (int64, error) {
	bound, err := streamArgs(args)
	if err != nil {
		return 0, err
	}
	res, err := c.q().ExecContext(ctx, query, bound...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		// DDL does not report a row count
		return 0, nil
	}
	return n, nil
}

// Cursor declares a cursor; the query runs on Open.
func (c *SQLConn) Cursor(ctx context.Context, query string, args ...interface{}) (Cursor, error) {
	return &sqlCursor{q: c.q(), query: query, args: args}, nil
}

// Columns reads syscolumns and sysdefaults for table.
func (c *SQLConn) Columns(ctx context.Context, table string) (_ []RawCatalogRow, err error) {
	rows, err := c.q().QueryContext(ctx, queryColumns, table)
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var out []RawCatalogRow
	for rows.Next() {
		var (
			name                string
			coltype, collength  int
			extendedID          sql.NullInt64
			defKind, defLiteral sql.NullString
		)
		if err := rows.Scan(&name, &coltype, &collength, &extendedID, &defKind, &defLiteral); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}

		ct := DecodeColumnType(coltype, collength, int(extendedID.Int64))
		row := RawCatalogRow{
			Name:      name,
			Type:      ct.Token,
			Nullable:  ct.Nullable,
			Length:    ct.Length,
			Precision: ct.Precision,
			Scale:     ct.Scale,
		}
		if defKind.Valid {
			row.Default = decodeDefault(defKind.String, defLiteral.String)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ServerVersion asks the server for its full version string.
func (c *SQLConn) ServerVersion(ctx context.Context) (string, error) {
	var v string
	if err := c.q().QueryRowContext(ctx, queryServerVersion).Scan(&v); err != nil {
		return "", fmt.Errorf("query server version: %w", err)
	}
	return v, nil
}

// Begin starts a transaction on the pinned connection.
func (c *SQLConn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return ErrTxInProgress
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction.
func (c *SQLConn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return ErrNoTx
	}
	tx := c.tx
	c.tx = nil
	return tx.Commit()
}

// Rollback rolls back the open transaction.
func (c *SQLConn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return ErrNoTx
	}
	tx := c.tx
	c.tx = nil
	return tx.Rollback()
}

// Close rolls back any open transaction and releases the connection.
func (c *SQLConn) Close() error {
	var errs []error
	if c.tx != nil {
		if err := c.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
		c.tx = nil
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, err)
	}
	if c.ownsDB {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type sqlStmt struct {
	stmt *sql.Stmt
}

func (s *sqlStmt) Execute(ctx context.Context, params ...interface{}) (int64, error) {
	bound, err := streamArgs(params)
	if err != nil {
		return 0, err
	}
	res, err := s.stmt.ExecContext(ctx, bound...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *sqlStmt) Drop() error {
	return s.stmt.Close()
}

type sqlCursor struct {
	q     querier
	query string
	args  []interface{}
	rows  *sql.Rows
}

func (c *sqlCursor) Open(ctx context.Context) error {
	if c.rows != nil {
		return errors.New("cursor already open")
	}
	rows, err := c.q.QueryContext(ctx, c.query, c.args...)
	if err != nil {
		return err
	}
	c.rows = rows
	return nil
}

func (c *sqlCursor) FetchAll(ctx context.Context) ([]*types.Record, error) {
	if c.rows == nil {
		return nil, errors.New("cursor is not open")
	}
	columns, err := c.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []*types.Record
	for c.rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := c.rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := types.NewRecord(len(columns))
		for i, col := range columns {
			rec.Set(col, values[i])
		}
		records = append(records, rec)
	}
	if err := c.rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *sqlCursor) Close() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}

// streamArgs drains io.Reader params, which database/sql cannot bind.
func streamArgs(args []interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if r, ok := a.(io.Reader); ok {
			b, err := io.ReadAll(r)
			if err != nil {
				return nil, fmt.Errorf("read stream param %d: %w", i+1, err)
			}
			out[i] = b
			continue
		}
		out[i] = a
	}
	return out, nil
}

var _ Conn = (*SQLConn)(nil)
