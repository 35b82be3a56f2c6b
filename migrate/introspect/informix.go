package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/ifxgo/adapter/internal/debug"
	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
)

// queryTables lists user tables; tabid 1..99 are the system catalog and
// tabtype Q marks sequences.
const queryTables = `SELECT tabname FROM systables WHERE tabid > 99 AND tabtype != 'Q'`

// InformixIntrospector implements introspection for Informix
type InformixIntrospector struct {
	conn driver.Conn
}

// NewInformixIntrospector creates an introspector over conn
func NewInformixIntrospector(conn driver.Conn) *InformixIntrospector {
	return &InformixIntrospector{conn: conn}
}

// Tables lists the user tables
func (i *InformixIntrospector) Tables(ctx context.Context) ([]string, error) {
	records, err := driver.FetchAll(ctx, i.conn, queryTables)
	if err != nil {
		return nil, runtime.Classify("tables", queryTables, err)
	}

	tables := make([]string, 0, len(records))
	for _, rec := range records {
		v, ok := rec.GetFold("tabname")
		if !ok {
			return nil, fmt.Errorf("%w: systables row without tabname", runtime.ErrInvalidCatalogRow)
		}
		name, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: tabname: %v", runtime.ErrInvalidCatalogRow, err)
		}
		// CHAR columns come back blank padded
		tables = append(tables, strings.TrimSpace(name))
	}
	return tables, nil
}

// Columns describes every column of table, in catalog order
func (i *InformixIntrospector) Columns(ctx context.Context, table string) ([]ColumnDescriptor, error) {
	rows, err := i.conn.Columns(ctx, table)
	if err != nil {
		return nil, runtime.Classify("columns of "+table, "", err)
	}

	columns := make([]ColumnDescriptor, 0, len(rows))
	for _, row := range rows {
		col, err := NewColumnDescriptor(row)
		if err != nil {
			return nil, fmt.Errorf("columns of %s: %w", table, err)
		}
		columns = append(columns, col)
	}
	debug.Debug("Introspected columns", "table", table, "count", len(columns))
	return columns, nil
}

// Indexes is not implemented for Informix. It always returns an error
// matching runtime.ErrUnsupported, never an empty list.
func (i *InformixIntrospector) Indexes(ctx context.Context, table string) ([]Index, error) {
	return nil, runtime.Unsupported("indexes")
}

// Introspect reads every user table and its columns. Indexes are skipped
// since they cannot be introspected.
func (i *InformixIntrospector) Introspect(ctx context.Context) (*DatabaseSchema, error) {
	names, err := i.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIntrospectionFailed, err)
	}

	schema := &DatabaseSchema{Tables: make([]Table, 0, len(names))}
	for _, name := range names {
		columns, err := i.Columns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIntrospectionFailed, err)
		}

		table := Table{Name: name, Columns: columns}
		for _, c := range columns {
			if c.Kind == types.KindPrimaryKey {
				if table.PrimaryKey == nil {
					table.PrimaryKey = &PrimaryKey{}
				}
				table.PrimaryKey.Columns = append(table.PrimaryKey.Columns, c.Name)
			}
		}
		schema.Tables = append(schema.Tables, table)
	}
	return schema, nil
}

var (
	_ Introspector       = (*InformixIntrospector)(nil)
	_ SchemaIntrospector = (*InformixIntrospector)(nil)
)
