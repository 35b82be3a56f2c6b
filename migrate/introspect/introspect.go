// Package introspect reads the Informix system catalog into portable column
// descriptors.
package introspect

import (
	"context"
	"strings"

	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
)

// Introspector reads the whole database schema
type Introspector interface {
	Introspect(ctx context.Context) (*DatabaseSchema, error)
}

// SchemaIntrospector is the schema reflection surface offered to the ORM.
// Every call queries the catalog again; nothing is cached.
type SchemaIntrospector interface {
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]ColumnDescriptor, error)
	Indexes(ctx context.Context, table string) ([]Index, error)
}

// DatabaseSchema represents the introspected database schema
type DatabaseSchema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []ColumnDescriptor
	PrimaryKey *PrimaryKey
}

// ColumnDescriptor is one column as seen by the ORM.
type ColumnDescriptor struct {
	Name       string
	Default    *string
	NativeType string
	Nullable   bool
	Kind       types.ColumnKind
}

// PrimaryKey represents a primary key constraint
type PrimaryKey struct {
	Columns []string
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// NewIntrospector creates a new introspector for the given connection
func NewIntrospector(conn driver.Conn, provider string) (*InformixIntrospector, error) {
	switch strings.ToLower(provider) {
	case "informix", "ifx", "ids":
		return NewInformixIntrospector(conn), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
