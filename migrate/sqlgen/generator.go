// Package sqlgen synthesizes migration DDL for Informix.
package sqlgen

import (
	"fmt"
	"strings"
)

// MigrationGenerator is the interface for generating migration SQL
type MigrationGenerator interface {
	DefaultSequenceName(table, column string) string
	IndexName(table string, columns []string, opts IndexOptions) string

	CreateTable(def *TableDefinition) ([]string, error)
	DropTable(table string) ([]string, error)
	RenameTable(table, newName string) ([]string, error)
	RenameColumn(table, column, newName string) ([]string, error)
	ChangeColumn(table, column string, typ ColumnType, opts ColumnOptions) ([]string, error)
	AddColumn(table, column string, typ ColumnType, opts ColumnOptions) ([]string, error)
	RemoveColumn(table, column string) ([]string, error)
	AddIndex(table string, columns []string, opts IndexOptions) ([]string, error)
	RemoveIndex(table string, columns []string, opts IndexOptions) ([]string, error)
	CreateDatabase(name string) ([]string, error)
	DropDatabase(name string) ([]string, error)
	RecreateDatabase(name string) ([]string, error)
}

// NewMigrationGenerator creates a new migration generator for the given provider
func NewMigrationGenerator(provider string) (MigrationGenerator, error) {
	switch strings.ToLower(provider) {
	case "informix", "ifx", "ids":
		return NewInformixMigrationGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
