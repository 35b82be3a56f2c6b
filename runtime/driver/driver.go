// Package driver defines the client surface the adapter needs from an
// Informix connection, plus a database/sql backed implementation of it.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/types"
)

// Conn is one logical connection to an Informix server.
// It is not safe for concurrent use; statements are issued one at a time.
type Conn interface {
	// Prepare prepares a statement for repeated execution.
	Prepare(ctx context.Context, query string) (Stmt, error)

	// Immediate executes a statement without preparing it and returns the
	// number of affected rows when the server reports one.
	Immediate(ctx context.Context, query string, args ...interface{}) (int64, error)

	// Cursor declares a cursor for query. Nothing is sent until Open.
	Cursor(ctx context.Context, query string, args ...interface{}) (Cursor, error)

	// Columns returns the system catalog rows describing the columns of table.
	Columns(ctx context.Context, table string) ([]RawCatalogRow, error)

	// ServerVersion returns the server version string, e.g. "12.10.FC14".
	ServerVersion(ctx context.Context) (string, error)

	// Begin starts a transaction on the connection.
	Begin(ctx context.Context) error

	// Commit commits the open transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the open transaction.
	Rollback(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// Stmt is a prepared statement.
type Stmt interface {
	// Execute runs the statement with params bound to its placeholders.
	// An io.Reader param is sent as a stream (TEXT/BYTE columns).
	Execute(ctx context.Context, params ...interface{}) (int64, error)

	// Drop frees the statement on the server.
	Drop() error
}

// Cursor is a declared cursor. Callers must Close it on every path.
type Cursor interface {
	// Open executes the cursor's query.
	Open(ctx context.Context) error

	// FetchAll reads every remaining row as a keyed record.
	FetchAll(ctx context.Context) ([]*types.Record, error)

	// Close releases the cursor. It is safe to call on a cursor that was never opened.
	Close() error
}

// RawCatalogRow is one column as described by the system catalog.
type RawCatalogRow struct {
	Name      string
	Default   *string
	Type      string // catalog type token, e.g. "VARCHAR", "DATETIME"
	Nullable  bool
	Length    int
	Precision int
	Scale     int
}

// Validate fails fast on rows that cannot describe a column.
func (r RawCatalogRow) Validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: missing column name", runtime.ErrInvalidCatalogRow)
	case r.Type == "":
		return fmt.Errorf("%w: column %s has no type", runtime.ErrInvalidCatalogRow, r.Name)
	case r.Length < 0 || r.Precision < 0 || r.Scale < 0:
		return fmt.Errorf("%w: column %s has a negative length, precision or scale", runtime.ErrInvalidCatalogRow, r.Name)
	}
	return nil
}

// FetchAll declares a cursor for query, opens it, reads every row and
// closes it. The cursor is closed on every path; when both fetching and
// closing fail, the fetch error comes first.
func FetchAll(ctx context.Context, conn Conn, query string, args ...interface{}) (records []*types.Record, err error) {
	cur, err := conn.Cursor(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cur.Close(); cerr != nil {
			records = nil
			if err != nil {
				err = errors.Join(err, fmt.Errorf("close cursor: %w", cerr))
			} else {
				err = fmt.Errorf("close cursor: %w", cerr)
			}
		}
	}()

	if err := cur.Open(ctx); err != nil {
		return nil, err
	}
	return cur.FetchAll(ctx)
}
