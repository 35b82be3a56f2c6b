package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	querysql "github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime/types"
)

// SequenceSuffix is appended to a table name to name its sequence.
const SequenceSuffix = "_seq"

var errEmptyName = errors.New("name must not be empty")

// ColumnOptions are the optional parts of a column definition.
type ColumnOptions struct {
	Limit     int
	Precision int
	Scale     int
	Default   interface{}
	NotNull   bool
}

// ColumnDefinition is one column of a CREATE TABLE.
type ColumnDefinition struct {
	Name    string
	Type    ColumnType
	Options ColumnOptions
}

// TableDefinition describes a table to create. PrimaryKey names the serial
// primary key column; leave it empty for a table without one.
type TableDefinition struct {
	Name       string
	PrimaryKey string
	Columns    []ColumnDefinition
}

// NewTable starts a table definition with an "id" serial primary key.
func NewTable(name string) *TableDefinition {
	return &TableDefinition{Name: name, PrimaryKey: "id"}
}

// Column appends a column and returns the definition for chaining.
func (t *TableDefinition) Column(name string, typ ColumnType, opts ColumnOptions) *TableDefinition {
	t.Columns = append(t.Columns, ColumnDefinition{Name: name, Type: typ, Options: opts})
	return t
}

// IndexOptions control index creation and naming.
type IndexOptions struct {
	Name   string
	Unique bool
}

// InformixMigrationGenerator synthesizes Informix DDL. Every method returns
// the statements in the order they must run; none wraps them in a transaction.
type InformixMigrationGenerator struct{}

// NewInformixMigrationGenerator creates a new Informix DDL generator
func NewInformixMigrationGenerator() *InformixMigrationGenerator {
	return &InformixMigrationGenerator{}
}

// DefaultSequenceName returns the sequence paired with table. The column is
// ignored: there is one sequence per table.
func (g *InformixMigrationGenerator) DefaultSequenceName(table, column string) string {
	return table + SequenceSuffix
}

// CreateTable creates the table and its paired sequence.
func (g *InformixMigrationGenerator) CreateTable(def *TableDefinition) ([]string, error) {
	if def == nil || def.Name == "" {
		return nil, fmt.Errorf("create table: %w", errEmptyName)
	}

	var cols []string
	if def.PrimaryKey != "" {
		pk, err := TypeToSQL(TypePrimaryKey, 0, 0, 0)
		if err != nil {
			return nil, err
		}
		cols = append(cols, def.PrimaryKey+" "+pk)
	}
	for _, c := range def.Columns {
		col, err := g.columnSQL(c.Name, c.Type, c.Options)
		if err != nil {
			return nil, fmt.Errorf("create table %s: %w", def.Name, err)
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("create table %s: no columns", def.Name)
	}

	return []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", def.Name, strings.Join(cols, ", ")),
		fmt.Sprintf("CREATE SEQUENCE %s", g.DefaultSequenceName(def.Name, def.PrimaryKey)),
	}, nil
}

// DropTable drops the table and its paired sequence.
func (g *InformixMigrationGenerator) DropTable(table string) ([]string, error) {
	if table == "" {
		return nil, fmt.Errorf("drop table: %w", errEmptyName)
	}
	return []string{
		fmt.Sprintf("DROP TABLE %s", table),
		fmt.Sprintf("DROP SEQUENCE %s", g.DefaultSequenceName(table, "")),
	}, nil
}

// RenameTable renames the table and its paired sequence.
func (g *InformixMigrationGenerator) RenameTable(table, newName string) ([]string, error) {
	if table == "" || newName == "" {
		return nil, fmt.Errorf("rename table: %w", errEmptyName)
	}
	return []string{
		fmt.Sprintf("RENAME TABLE %s TO %s", table, newName),
		fmt.Sprintf("RENAME SEQUENCE %s TO %s", g.DefaultSequenceName(table, ""), g.DefaultSequenceName(newName, "")),
	}, nil
}

// RenameColumn renames one column.
func (g *InformixMigrationGenerator) RenameColumn(table, column, newName string) ([]string, error) {
	if table == "" || column == "" || newName == "" {
		return nil, fmt.Errorf("rename column: %w", errEmptyName)
	}
	return []string{fmt.Sprintf("RENAME COLUMN %s.%s TO %s", table, column, newName)}, nil
}

// ChangeColumn changes the type, default and nullability of a column.
func (g *InformixMigrationGenerator) ChangeColumn(table, column string, typ ColumnType, opts ColumnOptions) ([]string, error) {
	if table == "" || column == "" {
		return nil, fmt.Errorf("change column: %w", errEmptyName)
	}
	col, err := g.columnSQL(column, typ, opts)
	if err != nil {
		return nil, fmt.Errorf("change column %s.%s: %w", table, column, err)
	}
	return []string{fmt.Sprintf("ALTER TABLE %s MODIFY %s", table, col)}, nil
}

// AddColumn adds a column to an existing table.
func (g *InformixMigrationGenerator) AddColumn(table, column string, typ ColumnType, opts ColumnOptions) ([]string, error) {
	if table == "" || column == "" {
		return nil, fmt.Errorf("add column: %w", errEmptyName)
	}
	col, err := g.columnSQL(column, typ, opts)
	if err != nil {
		return nil, fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return []string{fmt.Sprintf("ALTER TABLE %s ADD %s", table, col)}, nil
}

// RemoveColumn drops a column.
func (g *InformixMigrationGenerator) RemoveColumn(table, column string) ([]string, error) {
	if table == "" || column == "" {
		return nil, fmt.Errorf("remove column: %w", errEmptyName)
	}
	return []string{fmt.Sprintf("ALTER TABLE %s DROP %s", table, column)}, nil
}

// IndexName returns the explicit name if set, else {table}_{firstColumn}_index.
func (g *InformixMigrationGenerator) IndexName(table string, columns []string, opts IndexOptions) string {
	if opts.Name != "" {
		return opts.Name
	}
	first := ""
	if len(columns) > 0 {
		first = columns[0]
	}
	return fmt.Sprintf("%s_%s_index", table, first)
}

// AddIndex creates an index over columns.
func (g *InformixMigrationGenerator) AddIndex(table string, columns []string, opts IndexOptions) ([]string, error) {
	if table == "" {
		return nil, fmt.Errorf("add index: %w", errEmptyName)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("add index on %s: no columns", table)
	}
	unique := ""
	if opts.Unique {
		unique = "UNIQUE "
	}
	return []string{fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique, g.IndexName(table, columns, opts), table, strings.Join(columns, ", "))}, nil
}

// RemoveIndex drops the index that AddIndex would have named.
func (g *InformixMigrationGenerator) RemoveIndex(table string, columns []string, opts IndexOptions) ([]string, error) {
	if table == "" {
		return nil, fmt.Errorf("remove index: %w", errEmptyName)
	}
	if opts.Name == "" && len(columns) == 0 {
		return nil, fmt.Errorf("remove index on %s: no name or columns", table)
	}
	return []string{fmt.Sprintf("DROP INDEX %s", g.IndexName(table, columns, opts))}, nil
}

// CreateDatabase creates a database.
func (g *InformixMigrationGenerator) CreateDatabase(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("create database: %w", errEmptyName)
	}
	return []string{fmt.Sprintf("CREATE DATABASE %s", name)}, nil
}

// DropDatabase drops a database.
func (g *InformixMigrationGenerator) DropDatabase(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("drop database: %w", errEmptyName)
	}
	return []string{fmt.Sprintf("DROP DATABASE %s", name)}, nil
}

// RecreateDatabase drops and creates a database.
func (g *InformixMigrationGenerator) RecreateDatabase(name string) ([]string, error) {
	drop, err := g.DropDatabase(name)
	if err != nil {
		return nil, err
	}
	create, err := g.CreateDatabase(name)
	if err != nil {
		return nil, err
	}
	return append(drop, create...), nil
}

func (g *InformixMigrationGenerator) columnSQL(name string, typ ColumnType, opts ColumnOptions) (string, error) {
	if name == "" {
		return "", errEmptyName
	}
	native, err := TypeToSQL(typ, opts.Limit, opts.Precision, opts.Scale)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(native)
	if opts.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(querysql.Quote(opts.Default, defaultKind(typ)))
	}
	if opts.NotNull {
		b.WriteString(" NOT NULL")
	}
	return b.String(), nil
}

// defaultKind picks the quoting rule for a column default. LOB columns keep
// their literal since defaults are part of the DDL, not bound as streams.
func defaultKind(typ ColumnType) types.ColumnKind {
	switch typ {
	case TypeDate:
		return types.KindDate
	case TypeDateTime, TypeTimestamp:
		return types.KindDateTime
	default:
		return types.KindOther
	}
}

var _ MigrationGenerator = (*InformixMigrationGenerator)(nil)
