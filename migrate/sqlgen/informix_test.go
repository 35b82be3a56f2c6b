package sqlgen

import (
	"errors"
	"testing"

	"github.com/ifxgo/adapter/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeToSQL(t *testing.T) {
	tests := []struct {
		typ       ColumnType
		limit     int
		precision int
		scale     int
		want      string
	}{
		{typ: TypePrimaryKey, want: "serial primary key"},
		{typ: TypePrimaryKey, limit: 10, want: "serial primary key"},
		{typ: TypeString, want: "varchar(255)"},
		{typ: TypeString, limit: 40, want: "varchar(40)"},
		{typ: TypeText, want: "text"},
		{typ: TypeInteger, want: "integer"},
		{typ: TypeInteger, limit: 8, want: "integer"},
		{typ: TypeFloat, want: "float"},
		{typ: TypeDecimal, want: "decimal"},
		{typ: TypeDecimal, precision: 8, scale: 2, want: "decimal(8,2)"},
		{typ: TypeDecimal, precision: 8, want: "decimal(8)"},
		{typ: TypeDateTime, want: "datetime year to second"},
		{typ: TypeTimestamp, want: "datetime year to second"},
		{typ: TypeTime, want: "datetime hour to second"},
		{typ: TypeDate, want: "date"},
		{typ: TypeBinary, want: "byte"},
		{typ: TypeBoolean, want: "boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := TypeToSQL(tt.typ, tt.limit, tt.precision, tt.scale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeToSQLUnknown(t *testing.T) {
	_, err := TypeToSQL("geometry", 0, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, runtime.ErrTypeMapping))
}

func TestNativeDatabaseTypesCoversEveryType(t *testing.T) {
	table := NativeDatabaseTypes()
	require.Len(t, table, len(ColumnTypes))
	for _, typ := range ColumnTypes {
		native, ok := table[typ]
		require.True(t, ok, typ)
		assert.NotEmpty(t, native.Name, typ)
	}
	assert.Equal(t, "serial primary key", table[TypePrimaryKey].Name)
	assert.Equal(t, 255, table[TypeString].Limit)

	// callers get a copy
	table[TypeString] = NativeType{Name: "char"}
	assert.Equal(t, "varchar", NativeDatabaseTypes()[TypeString].Name)
}

func TestParseColumnType(t *testing.T) {
	typ, err := ParseColumnType(" DateTime ")
	require.NoError(t, err)
	assert.Equal(t, TypeDateTime, typ)

	_, err = ParseColumnType("uuid")
	assert.True(t, errors.Is(err, runtime.ErrTypeMapping))
}

func TestCreateAndDropTablePairSequence(t *testing.T) {
	g := NewInformixMigrationGenerator()

	create, err := g.CreateTable(NewTable("orders").
		Column("name", TypeString, ColumnOptions{NotNull: true}).
		Column("total", TypeDecimal, ColumnOptions{Precision: 8, Scale: 2, Default: 0}).
		Column("note", TypeText, ColumnOptions{}))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE orders (id serial primary key, name varchar(255) NOT NULL, total decimal(8,2) DEFAULT 0, note text)",
		"CREATE SEQUENCE orders_seq",
	}, create)

	drop, err := g.DropTable("orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"DROP TABLE orders", "DROP SEQUENCE orders_seq"}, drop)
}

func TestCreateTableWithoutPrimaryKey(t *testing.T) {
	g := NewInformixMigrationGenerator()
	def := &TableDefinition{Name: "tags"}
	def.Column("label", TypeString, ColumnOptions{Limit: 20, Default: "new"})

	stmts, err := g.CreateTable(def)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE tags (label varchar(20) DEFAULT 'new')", stmts[0])
	assert.Equal(t, "CREATE SEQUENCE tags_seq", stmts[1])
}

func TestCreateTableErrors(t *testing.T) {
	g := NewInformixMigrationGenerator()

	_, err := g.CreateTable(nil)
	assert.Error(t, err)

	_, err = g.CreateTable(&TableDefinition{Name: "empty"})
	assert.Error(t, err)

	_, err = g.CreateTable(NewTable("bad").Column("shape", "geometry", ColumnOptions{}))
	assert.True(t, errors.Is(err, runtime.ErrTypeMapping))
}

func TestDDLStatements(t *testing.T) {
	g := NewInformixMigrationGenerator()

	tests := []struct {
		name string
		gen  func() ([]string, error)
		want []string
	}{
		{
			name: "rename table",
			gen:  func() ([]string, error) { return g.RenameTable("orders", "purchases") },
			want: []string{"RENAME TABLE orders TO purchases", "RENAME SEQUENCE orders_seq TO purchases_seq"},
		},
		{
			name: "rename column",
			gen:  func() ([]string, error) { return g.RenameColumn("orders", "name", "title") },
			want: []string{"RENAME COLUMN orders.name TO title"},
		},
		{
			name: "change column",
			gen: func() ([]string, error) {
				return g.ChangeColumn("orders", "name", TypeString, ColumnOptions{Limit: 80, Default: "x", NotNull: true})
			},
			want: []string{"ALTER TABLE orders MODIFY name varchar(80) DEFAULT 'x' NOT NULL"},
		},
		{
			name: "add column",
			gen: func() ([]string, error) {
				return g.AddColumn("orders", "paid", TypeBoolean, ColumnOptions{Default: false})
			},
			want: []string{"ALTER TABLE orders ADD paid boolean DEFAULT 'f'"},
		},
		{
			name: "remove column",
			gen:  func() ([]string, error) { return g.RemoveColumn("orders", "paid") },
			want: []string{"ALTER TABLE orders DROP paid"},
		},
		{
			name: "add index with default name",
			gen: func() ([]string, error) {
				return g.AddIndex("orders", []string{"customer_id", "created_at"}, IndexOptions{})
			},
			want: []string{"CREATE INDEX orders_customer_id_index ON orders (customer_id, created_at)"},
		},
		{
			name: "add unique named index",
			gen: func() ([]string, error) {
				return g.AddIndex("orders", []string{"code"}, IndexOptions{Name: "ux_code", Unique: true})
			},
			want: []string{"CREATE UNIQUE INDEX ux_code ON orders (code)"},
		},
		{
			name: "remove index by column",
			gen:  func() ([]string, error) { return g.RemoveIndex("orders", []string{"customer_id"}, IndexOptions{}) },
			want: []string{"DROP INDEX orders_customer_id_index"},
		},
		{
			name: "remove index by name",
			gen:  func() ([]string, error) { return g.RemoveIndex("orders", nil, IndexOptions{Name: "ux_code"}) },
			want: []string{"DROP INDEX ux_code"},
		},
		{
			name: "create database",
			gen:  func() ([]string, error) { return g.CreateDatabase("stores") },
			want: []string{"CREATE DATABASE stores"},
		},
		{
			name: "drop database",
			gen:  func() ([]string, error) { return g.DropDatabase("stores") },
			want: []string{"DROP DATABASE stores"},
		},
		{
			name: "recreate database",
			gen:  func() ([]string, error) { return g.RecreateDatabase("stores") },
			want: []string{"DROP DATABASE stores", "CREATE DATABASE stores"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.gen()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDDLRejectsEmptyNames(t *testing.T) {
	g := NewInformixMigrationGenerator()

	calls := map[string]func() ([]string, error){
		"drop table":      func() ([]string, error) { return g.DropTable("") },
		"rename table":    func() ([]string, error) { return g.RenameTable("a", "") },
		"rename column":   func() ([]string, error) { return g.RenameColumn("a", "", "c") },
		"change column":   func() ([]string, error) { return g.ChangeColumn("", "b", TypeString, ColumnOptions{}) },
		"add column":      func() ([]string, error) { return g.AddColumn("a", "", TypeString, ColumnOptions{}) },
		"remove column":   func() ([]string, error) { return g.RemoveColumn("", "b") },
		"add index":       func() ([]string, error) { return g.AddIndex("a", nil, IndexOptions{}) },
		"remove index":    func() ([]string, error) { return g.RemoveIndex("a", nil, IndexOptions{}) },
		"create database": func() ([]string, error) { return g.CreateDatabase("") },
		"recreate":        func() ([]string, error) { return g.RecreateDatabase("") },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			_, err := call()
			assert.Error(t, err)
		})
	}
}

func TestDefaultSequenceName(t *testing.T) {
	g := NewInformixMigrationGenerator()
	assert.Equal(t, "orders_seq", g.DefaultSequenceName("orders", "id"))
	assert.Equal(t, "orders_seq", g.DefaultSequenceName("orders", "other"))
}

func TestNewMigrationGenerator(t *testing.T) {
	g, err := NewMigrationGenerator("informix")
	require.NoError(t, err)
	assert.IsType(t, &InformixMigrationGenerator{}, g)

	_, err = NewMigrationGenerator("sqlite")
	assert.Error(t, err)
}
