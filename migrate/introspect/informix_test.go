package introspect

import (
	"context"
	"errors"
	"testing"

	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/driver/mock"
	"github.com/ifxgo/adapter/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersCatalog(m *mock.Conn) {
	m.OnColumns("orders",
		driver.RawCatalogRow{Name: "id", Type: "SERIAL", Length: 4},
		driver.RawCatalogRow{Name: "name", Type: "VARCHAR", Nullable: true, Length: 30},
		driver.RawCatalogRow{Name: "placed", Type: "DATETIME", Nullable: true, Precision: 6},
	)
}

func TestTables(t *testing.T) {
	m := mock.New()
	m.OnQuery(queryTables,
		mock.Row("tabname", "orders            "),
		mock.Row("tabname", []byte("customers")),
	)
	i := NewInformixIntrospector(m)

	tables, err := i.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "customers"}, tables)
	assert.Equal(t, 1, m.CursorsClosed)
}

func TestTablesStatementError(t *testing.T) {
	m := mock.New()
	m.OnQuery(queryTables).FailOpen(errors.New("-272: No SELECT permission."))

	_, err := NewInformixIntrospector(m).Tables(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, runtime.ErrStatement))
	assert.Equal(t, 1, m.CursorsClosed)
}

func TestColumns(t *testing.T) {
	m := mock.New()
	ordersCatalog(m)
	i := NewInformixIntrospector(m)

	cols, err := i.Columns(context.Background(), "orders")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "serial(4)", cols[0].NativeType)
	assert.Equal(t, types.KindPrimaryKey, cols[0].Kind)
	assert.False(t, cols[0].Nullable)

	assert.Equal(t, "varchar(30)", cols[1].NativeType)
	assert.Equal(t, types.KindString, cols[1].Kind)

	assert.Equal(t, "time", cols[2].NativeType)
	assert.Equal(t, types.KindTime, cols[2].Kind)

	// no caching: a second call asks the catalog again
	_, err = i.Columns(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count(mock.OpColumns))
}

func TestColumnsInvalidRow(t *testing.T) {
	m := mock.New()
	m.OnColumns("broken", driver.RawCatalogRow{Name: "x"})

	_, err := NewInformixIntrospector(m).Columns(context.Background(), "broken")
	assert.True(t, errors.Is(err, runtime.ErrInvalidCatalogRow))
}

func TestIndexesUnsupported(t *testing.T) {
	idx, err := NewInformixIntrospector(mock.New()).Indexes(context.Background(), "orders")
	assert.Nil(t, idx)
	assert.True(t, runtime.IsUnsupported(err))
}

func TestIntrospect(t *testing.T) {
	m := mock.New()
	m.OnQuery(queryTables, mock.Row("tabname", "orders"))
	ordersCatalog(m)

	schema, err := NewInformixIntrospector(m).Introspect(context.Background())
	require.NoError(t, err)
	require.Len(t, schema.Tables, 1)

	orders := schema.Tables[0]
	assert.Equal(t, "orders", orders.Name)
	assert.Len(t, orders.Columns, 3)
	require.NotNil(t, orders.PrimaryKey)
	assert.Equal(t, []string{"id"}, orders.PrimaryKey.Columns)
}

func TestNewIntrospector(t *testing.T) {
	i, err := NewIntrospector(mock.New(), "Informix")
	require.NoError(t, err)
	assert.NotNil(t, i)

	_, err = NewIntrospector(mock.New(), "mysql")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}
