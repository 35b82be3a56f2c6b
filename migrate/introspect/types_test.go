package introspect

import (
	"errors"
	"testing"

	"github.com/ifxgo/adapter/runtime"
	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNativeType(t *testing.T) {
	tests := []struct {
		token     string
		limit     int
		precision int
		scale     int
		want      string
	}{
		{token: "MONEY", precision: 8, scale: 2, want: "decimal(8,2)"},
		{token: "DECIMAL", precision: 8, scale: 2, want: "decimal(8,2)"},
		{token: "money", limit: 16, want: "decimal(16)"},
		{token: "VARCHAR", limit: 30, want: "varchar(30)"},
		{token: "CHARACTER VARYING", limit: 12, want: "character varying(12)"},
		{token: "nchar", limit: 4, want: "nchar(4)"},
		{token: "SERIAL", limit: 4, want: "serial(4)"},
		{token: "DATETIME", precision: 6, want: "time"},
		{token: "DATETIME", precision: 4, want: "datetime"},
		{token: "DATETIME", want: "datetime"},
		{token: "BYTE", want: "binary"},
		{token: "INTEGER", limit: 4, want: "integer"},
		{token: "TEXT", want: "text"},
		{token: "SOMETHING ODD", limit: 3, precision: 2, want: "something odd"},
		{token: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNativeType(tt.token, tt.limit, tt.precision, tt.scale))
		})
	}
}

func TestMoneyMatchesDecimal(t *testing.T) {
	assert.Equal(t,
		NormalizeNativeType("DECIMAL", 0, 8, 2),
		NormalizeNativeType("MONEY", 0, 8, 2))
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		native string
		want   types.ColumnKind
	}{
		{native: "serial(4)", want: types.KindPrimaryKey},
		{native: "bigserial", want: types.KindPrimaryKey},
		{native: "interval", want: types.KindOther},
		{native: "integer", want: types.KindInteger},
		{native: "smallint", want: types.KindInteger},
		{native: "int8", want: types.KindInteger},
		{native: "float(8)", want: types.KindFloat},
		{native: "smallfloat", want: types.KindFloat},
		{native: "decimal(8,2)", want: types.KindDecimal},
		{native: "numeric(5,0)", want: types.KindDecimal},
		{native: "datetime", want: types.KindDateTime},
		{native: "time", want: types.KindTime},
		{native: "date", want: types.KindDate},
		{native: "text", want: types.KindText},
		{native: "clob", want: types.KindText},
		{native: "binary", want: types.KindBinary},
		{native: "blob", want: types.KindBinary},
		{native: "varchar(30)", want: types.KindString},
		{native: "lvarchar(2048)", want: types.KindString},
		{native: "boolean", want: types.KindBoolean},
		{native: "opaque", want: types.KindOther},
		{native: "unknown", want: types.KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.native, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyKind(tt.native))
		})
	}
}

func TestNewColumnDescriptor(t *testing.T) {
	def := "0.00"
	col, err := NewColumnDescriptor(driver.RawCatalogRow{
		Name:      "total",
		Default:   &def,
		Type:      "MONEY",
		Nullable:  true,
		Length:    2050,
		Precision: 8,
		Scale:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, ColumnDescriptor{
		Name:       "total",
		Default:    &def,
		NativeType: "decimal(8,2)",
		Nullable:   true,
		Kind:       types.KindDecimal,
	}, col)
}

func TestNewColumnDescriptorRejectsInvalidRows(t *testing.T) {
	rows := []driver.RawCatalogRow{
		{Type: "INTEGER"},
		{Name: "a"},
		{Name: "a", Type: "CHAR", Length: -1},
	}
	for _, row := range rows {
		_, err := NewColumnDescriptor(row)
		assert.True(t, errors.Is(err, runtime.ErrInvalidCatalogRow), "%+v", row)
	}
}
