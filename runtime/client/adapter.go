package client

import (
	"context"
	"fmt"

	migrateexec "github.com/ifxgo/adapter/migrate/executor"
	"github.com/ifxgo/adapter/migrate/introspect"
	migratesql "github.com/ifxgo/adapter/migrate/sqlgen"
	"github.com/ifxgo/adapter/query/executor"
	"github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
)

// DialectTranslator is the dialect surface offered to the ORM.
type DialectTranslator interface {
	AdapterName() string
	NativeDatabaseTypes() map[migratesql.ColumnType]migratesql.NativeType
	TypeToSQL(t migratesql.ColumnType, limit, precision, scale int) (string, error)
	AddLimitOffset(sql string, p sqlgen.Pagination) string
	QuoteString(s string) string
	Quote(value interface{}, column *introspect.ColumnDescriptor) string
	DefaultSequenceName(table, column string) string
	SupportsMigrations() bool
	PrefetchPrimaryKey(table string) bool
}

// Adapter is an Informix connection seen through the ORM's capability
// interfaces. Statements come from the embedded Executor and schema
// reflection from the embedded InformixIntrospector.
type Adapter struct {
	*executor.Executor
	*introspect.InformixIntrospector

	id       string
	conn     driver.Conn
	caps     sqlgen.ServerCapabilities
	ddl      *migratesql.InformixMigrationGenerator
	migrator *migrateexec.MigrationExecutor
}

var (
	_ DialectTranslator             = (*Adapter)(nil)
	_ introspect.SchemaIntrospector = (*Adapter)(nil)
	_ executor.StatementExecutor    = (*Adapter)(nil)
)

// ID identifies the connection in log lines
func (a *Adapter) ID() string {
	return a.id
}

// Capabilities returns the capabilities negotiated at connect time
func (a *Adapter) Capabilities() sqlgen.ServerCapabilities {
	return a.caps
}

// Conn returns the underlying driver connection
func (a *Adapter) Conn() driver.Conn {
	return a.conn
}

// Close releases the connection
func (a *Adapter) Close() error {
	return a.conn.Close()
}

// AdapterName returns "Informix"
func (a *Adapter) AdapterName() string {
	return "Informix"
}

// NativeDatabaseTypes returns the logical to native type table
func (a *Adapter) NativeDatabaseTypes() map[migratesql.ColumnType]migratesql.NativeType {
	return migratesql.NativeDatabaseTypes()
}

// TypeToSQL renders the native type clause of a logical type
func (a *Adapter) TypeToSQL(t migratesql.ColumnType, limit, precision, scale int) (string, error) {
	return migratesql.TypeToSQL(t, limit, precision, scale)
}

// AddLimitOffset splices pagination into a SELECT
func (a *Adapter) AddLimitOffset(sql string, p sqlgen.Pagination) string {
	return a.Rewriter().AddLimitOffset(sql, p)
}

// QuoteString escapes single quotes
func (a *Adapter) QuoteString(s string) string {
	return sqlgen.QuoteString(s)
}

// Quote renders value as a literal for column, which may be nil.
func (a *Adapter) Quote(value interface{}, column *introspect.ColumnDescriptor) string {
	kind := types.KindOther
	if column != nil {
		kind = column.Kind
	}
	return sqlgen.Quote(value, kind)
}

// DefaultSequenceName returns {table}_seq
func (a *Adapter) DefaultSequenceName(table, column string) string {
	return a.ddl.DefaultSequenceName(table, column)
}

// SupportsMigrations reports true
func (a *Adapter) SupportsMigrations() bool {
	return true
}

// PrefetchPrimaryKey reports true: keys come from the table's sequence
// before the INSERT.
func (a *Adapter) PrefetchPrimaryKey(table string) bool {
	return true
}

// Transaction runs fn inside a transaction on this adapter
func (a *Adapter) Transaction(ctx context.Context, fn func(a *Adapter) error) error {
	return a.Executor.Transaction(ctx, func(*executor.Executor) error {
		return fn(a)
	})
}

// CreateTable creates a table and its sequence
func (a *Adapter) CreateTable(ctx context.Context, def *migratesql.TableDefinition) error {
	stmts, err := a.ddl.CreateTable(def)
	return a.apply(ctx, "create_table", stmts, err)
}

// DropTable drops a table and its sequence
func (a *Adapter) DropTable(ctx context.Context, table string) error {
	stmts, err := a.ddl.DropTable(table)
	return a.apply(ctx, "drop_table", stmts, err)
}

// RenameTable renames a table and its sequence
func (a *Adapter) RenameTable(ctx context.Context, table, newName string) error {
	stmts, err := a.ddl.RenameTable(table, newName)
	return a.apply(ctx, "rename_table", stmts, err)
}

// RenameColumn renames a column
func (a *Adapter) RenameColumn(ctx context.Context, table, column, newName string) error {
	stmts, err := a.ddl.RenameColumn(table, column, newName)
	return a.apply(ctx, "rename_column", stmts, err)
}

// ChangeColumn changes a column's type and options
func (a *Adapter) ChangeColumn(ctx context.Context, table, column string, typ migratesql.ColumnType, opts migratesql.ColumnOptions) error {
	stmts, err := a.ddl.ChangeColumn(table, column, typ, opts)
	return a.apply(ctx, "change_column", stmts, err)
}

// AddColumn adds a column
func (a *Adapter) AddColumn(ctx context.Context, table, column string, typ migratesql.ColumnType, opts migratesql.ColumnOptions) error {
	stmts, err := a.ddl.AddColumn(table, column, typ, opts)
	return a.apply(ctx, "add_column", stmts, err)
}

// RemoveColumn drops a column
func (a *Adapter) RemoveColumn(ctx context.Context, table, column string) error {
	stmts, err := a.ddl.RemoveColumn(table, column)
	return a.apply(ctx, "remove_column", stmts, err)
}

// AddIndex creates an index
func (a *Adapter) AddIndex(ctx context.Context, table string, columns []string, opts migratesql.IndexOptions) error {
	stmts, err := a.ddl.AddIndex(table, columns, opts)
	return a.apply(ctx, "add_index", stmts, err)
}

// RemoveIndex drops an index
func (a *Adapter) RemoveIndex(ctx context.Context, table string, columns []string, opts migratesql.IndexOptions) error {
	stmts, err := a.ddl.RemoveIndex(table, columns, opts)
	return a.apply(ctx, "remove_index", stmts, err)
}

// CreateDatabase creates a database
func (a *Adapter) CreateDatabase(ctx context.Context, name string) error {
	stmts, err := a.ddl.CreateDatabase(name)
	return a.apply(ctx, "create_database", stmts, err)
}

// DropDatabase drops a database
func (a *Adapter) DropDatabase(ctx context.Context, name string) error {
	stmts, err := a.ddl.DropDatabase(name)
	return a.apply(ctx, "drop_database", stmts, err)
}

// RecreateDatabase drops and creates a database
func (a *Adapter) RecreateDatabase(ctx context.Context, name string) error {
	stmts, err := a.ddl.RecreateDatabase(name)
	return a.apply(ctx, "recreate_database", stmts, err)
}

func (a *Adapter) apply(ctx context.Context, op string, stmts []string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := a.migrator.ExecuteMigrationStatements(ctx, stmts, op); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
