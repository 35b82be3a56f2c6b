/*
Package mock provides a scripted in-memory implementation of driver.Conn.

It records every call so tests can assert which statements were sent, lets
tests script query results and catalog rows, and injects failures per
statement or per cursor step.

# Basic Usage

	m := mock.New()
	m.OnQuery("SELECT tabname FROM systables", mock.Row("tabname", "orders"))
	recs, err := driver.FetchAll(ctx, m, "SELECT tabname FROM systables")

# Failures

	m.OnExec("DROP TABLE t").ReturnError(errors.New("-206: table not found"))
	m.OnQuery("SELECT * FROM t").FailFetch(errors.New("fetch failed"))
	m.FailClose(errors.New("close failed"))

# Inspecting Calls

	for _, c := range m.Calls {
		// c.Op, c.SQL, c.Args
	}
*/
package mock

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
)

// Operation names recorded in Calls.
const (
	OpPrepare   = "PREPARE"
	OpExecute   = "EXECUTE"
	OpDrop      = "DROP"
	OpImmediate = "IMMEDIATE"
	OpCursor    = "CURSOR"
	OpOpen      = "OPEN"
	OpFetch     = "FETCH"
	OpClose     = "CLOSE"
	OpColumns   = "COLUMNS"
	OpVersion   = "VERSION"
	OpBegin     = "BEGIN"
	OpCommit    = "COMMIT"
	OpRollback  = "ROLLBACK"
)

// Call is one recorded interaction.
type Call struct {
	Op   string
	SQL  string
	Args []interface{}
}

// Response describes the scripted outcome of a statement.
type Response struct {
	Records  []*types.Record
	Affected int64
	Err      error
	OpenErr  error
	FetchErr error
}

// ResponseBuilder configures a Response fluently.
type ResponseBuilder struct {
	r *Response
}

// ReturnRecords sets the rows a cursor fetches.
func (b *ResponseBuilder) ReturnRecords(recs ...*types.Record) *ResponseBuilder {
	b.r.Records = recs
	return b
}

// ReturnAffected sets the affected row count of an execution.
func (b *ResponseBuilder) ReturnAffected(n int64) *ResponseBuilder {
	b.r.Affected = n
	return b
}

// ReturnError fails the execution or the cursor declaration.
func (b *ResponseBuilder) ReturnError(err error) *ResponseBuilder {
	b.r.Err = err
	return b
}

// FailOpen fails Cursor.Open.
func (b *ResponseBuilder) FailOpen(err error) *ResponseBuilder {
	b.r.OpenErr = err
	return b
}

// FailFetch fails Cursor.FetchAll.
func (b *ResponseBuilder) FailFetch(err error) *ResponseBuilder {
	b.r.FetchErr = err
	return b
}

// Conn is the mock connection.
type Conn struct {
	mu sync.Mutex

	// Calls records every operation in order.
	Calls []Call

	// Version is returned by ServerVersion.
	Version string

	// VersionErr fails ServerVersion.
	VersionErr error

	// CursorsOpened and CursorsClosed count cursor lifecycle steps.
	CursorsOpened int
	CursorsClosed int

	// StmtsDropped counts prepared statements that were dropped.
	StmtsDropped int

	// Streams holds the contents of io.Reader params, keyed by statement.
	Streams map[string][]string

	// InTx reports whether a transaction is open.
	InTx bool

	// CommitErr fails Commit. The transaction is closed either way, as a
	// server does when COMMIT is rejected.
	CommitErr error

	responses   map[string]*Response
	prepareErrs map[string]error
	catalog     map[string][]driver.RawCatalogRow
	closeErr    error
	closed      bool
}

// New creates a mock connection reporting server version 11.70.FC8.
func New() *Conn {
	return &Conn{
		Version:     "11.70.FC8",
		Streams:     make(map[string][]string),
		responses:   make(map[string]*Response),
		prepareErrs: make(map[string]error),
		catalog:     make(map[string][]driver.RawCatalogRow),
	}
}

// Row builds a record from alternating column names and values.
func Row(kv ...interface{}) *types.Record {
	rec := types.NewRecord(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Set(kv[i].(string), kv[i+1])
	}
	return rec
}

// OnQuery scripts the rows returned for query.
func (m *Conn) OnQuery(query string, recs ...*types.Record) *ResponseBuilder {
	b := m.on(query)
	b.r.Records = recs
	return b
}

// OnExec scripts the outcome of an immediate or prepared execution.
func (m *Conn) OnExec(query string) *ResponseBuilder {
	return m.on(query)
}

func (m *Conn) on(query string) *ResponseBuilder {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &Response{}
	m.responses[normalize(query)] = r
	return &ResponseBuilder{r: r}
}

// OnColumns scripts the catalog rows of table.
func (m *Conn) OnColumns(table string, rows ...driver.RawCatalogRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog[table] = rows
}

// FailPrepare makes Prepare of query return err.
func (m *Conn) FailPrepare(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepareErrs[normalize(query)] = err
}

// FailClose makes every cursor Close return err.
func (m *Conn) FailClose(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
}

// Statements returns the SQL of every immediate execution, in order.
func (m *Conn) Statements() []string {
	return m.sqlFor(OpImmediate)
}

// Queries returns the SQL of every declared cursor, in order.
func (m *Conn) Queries() []string {
	return m.sqlFor(OpCursor)
}

// Count returns how many calls of op were recorded.
func (m *Conn) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Closed reports whether Close was called.
func (m *Conn) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Conn) sqlFor(op string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c.SQL)
		}
	}
	return out
}

func (m *Conn) record(op, query string, args []interface{}) *Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: op, SQL: query, Args: args})
	return m.responses[normalize(query)]
}

// Prepare implements driver.Conn.
func (m *Conn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	m.record(OpPrepare, query, nil)
	m.mu.Lock()
	err := m.prepareErrs[normalize(query)]
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &Stmt{m: m, query: query}, nil
}

// Immediate implements driver.Conn.
func (m *Conn) Immediate(ctx context.Context, query string, args ...interface{}) (int64, error) {
	r := m.record(OpImmediate, query, args)
	if r == nil {
		return 0, nil
	}
	return r.Affected, r.Err
}

// Cursor implements driver.Conn.
func (m *Conn) Cursor(ctx context.Context, query string, args ...interface{}) (driver.Cursor, error) {
	r := m.record(OpCursor, query, args)
	if r != nil && r.Err != nil {
		return nil, r.Err
	}
	return &Cursor{m: m, query: query, r: r}, nil
}

// Columns implements driver.Conn.
func (m *Conn) Columns(ctx context.Context, table string) ([]driver.RawCatalogRow, error) {
	m.record(OpColumns, table, nil)
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.catalog[table]
	out := make([]driver.RawCatalogRow, len(rows))
	copy(out, rows)
	return out, nil
}

// ServerVersion implements driver.Conn.
func (m *Conn) ServerVersion(ctx context.Context) (string, error) {
	m.record(OpVersion, "", nil)
	return m.Version, m.VersionErr
}

// Begin implements driver.Conn.
func (m *Conn) Begin(ctx context.Context) error {
	m.record(OpBegin, "", nil)
	if m.InTx {
		return driver.ErrTxInProgress
	}
	m.InTx = true
	return nil
}

// Commit implements driver.Conn.
func (m *Conn) Commit(ctx context.Context) error {
	m.record(OpCommit, "", nil)
	if !m.InTx {
		return driver.ErrNoTx
	}
	m.InTx = false
	return m.CommitErr
}

// Rollback implements driver.Conn.
func (m *Conn) Rollback(ctx context.Context) error {
	m.record(OpRollback, "", nil)
	if !m.InTx {
		return driver.ErrNoTx
	}
	m.InTx = false
	return nil
}

// Close implements driver.Conn.
func (m *Conn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Stmt is a mock prepared statement.
type Stmt struct {
	m     *Conn
	query string
}

// Execute implements driver.Stmt. io.Reader params are drained into Streams.
func (s *Stmt) Execute(ctx context.Context, params ...interface{}) (int64, error) {
	for _, p := range params {
		if rd, ok := p.(io.Reader); ok {
			b, err := io.ReadAll(rd)
			if err != nil {
				return 0, err
			}
			s.m.mu.Lock()
			s.m.Streams[s.query] = append(s.m.Streams[s.query], string(b))
			s.m.mu.Unlock()
		}
	}
	r := s.m.record(OpExecute, s.query, params)
	if r == nil {
		return 0, nil
	}
	return r.Affected, r.Err
}

// Drop implements driver.Stmt.
func (s *Stmt) Drop() error {
	s.m.record(OpDrop, s.query, nil)
	s.m.mu.Lock()
	s.m.StmtsDropped++
	s.m.mu.Unlock()
	return nil
}

// Cursor is a mock cursor.
type Cursor struct {
	m      *Conn
	query  string
	r      *Response
	opened bool
}

// Open implements driver.Cursor.
func (c *Cursor) Open(ctx context.Context) error {
	c.m.record(OpOpen, c.query, nil)
	if c.r != nil && c.r.OpenErr != nil {
		return c.r.OpenErr
	}
	c.opened = true
	c.m.mu.Lock()
	c.m.CursorsOpened++
	c.m.mu.Unlock()
	return nil
}

// FetchAll implements driver.Cursor.
func (c *Cursor) FetchAll(ctx context.Context) ([]*types.Record, error) {
	c.m.record(OpFetch, c.query, nil)
	if c.r == nil {
		return nil, nil
	}
	if c.r.FetchErr != nil {
		return nil, c.r.FetchErr
	}
	return c.r.Records, nil
}

// Close implements driver.Cursor.
func (c *Cursor) Close() error {
	c.m.record(OpClose, c.query, nil)
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.m.CursorsClosed++
	return c.m.closeErr
}

// normalize collapses whitespace so scripted queries match regardless of layout.
func normalize(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

var _ driver.Conn = (*Conn)(nil)
