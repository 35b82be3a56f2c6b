package sqlgen

import (
	"fmt"
	"strings"

	"github.com/ifxgo/adapter/runtime"
)

// ColumnType is a portable logical column type.
type ColumnType string

const (
	TypePrimaryKey ColumnType = "primary_key"
	TypeString     ColumnType = "string"
	TypeText       ColumnType = "text"
	TypeInteger    ColumnType = "integer"
	TypeFloat      ColumnType = "float"
	TypeDecimal    ColumnType = "decimal"
	TypeDateTime   ColumnType = "datetime"
	TypeTimestamp  ColumnType = "timestamp"
	TypeTime       ColumnType = "time"
	TypeDate       ColumnType = "date"
	TypeBinary     ColumnType = "binary"
	TypeBoolean    ColumnType = "boolean"
)

// ColumnTypes lists every logical type in a stable order.
var ColumnTypes = []ColumnType{
	TypePrimaryKey, TypeString, TypeText, TypeInteger, TypeFloat, TypeDecimal,
	TypeDateTime, TypeTimestamp, TypeTime, TypeDate, TypeBinary, TypeBoolean,
}

// NativeType is the Informix rendering of a logical type.
// Limit is zero when the type takes no default length.
type NativeType struct {
	Name  string
	Limit int
}

var nativeTypes = map[ColumnType]NativeType{
	TypePrimaryKey: {Name: "serial primary key"},
	TypeString:     {Name: "varchar", Limit: 255},
	TypeText:       {Name: "text"},
	TypeInteger:    {Name: "integer"},
	TypeFloat:      {Name: "float"},
	TypeDecimal:    {Name: "decimal"},
	TypeDateTime:   {Name: "datetime year to second"},
	TypeTimestamp:  {Name: "datetime year to second"},
	TypeTime:       {Name: "datetime hour to second"},
	TypeDate:       {Name: "date"},
	TypeBinary:     {Name: "byte"},
	TypeBoolean:    {Name: "boolean"},
}

// NativeDatabaseTypes returns a copy of the logical to native type table.
func NativeDatabaseTypes() map[ColumnType]NativeType {
	out := make(map[ColumnType]NativeType, len(nativeTypes))
	for k, v := range nativeTypes {
		out[k] = v
	}
	return out
}

// ParseColumnType accepts the logical type names, case-insensitively.
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := nativeTypes[t]; !ok {
		return "", runtime.NewError(runtime.ErrTypeMapping, "parse column type", "", fmt.Errorf("unknown column type %q", s))
	}
	return t, nil
}

// TypeToSQL renders the native type clause for t.
//
// A zero limit falls back to the type's default length. Only string and float
// columns take a length; decimal columns use precision and scale instead.
func TypeToSQL(t ColumnType, limit, precision, scale int) (string, error) {
	native, ok := nativeTypes[t]
	if !ok {
		return "", runtime.NewError(runtime.ErrTypeMapping, "type to sql", "", fmt.Errorf("unknown column type %q", t))
	}

	if t == TypeDecimal && precision > 0 {
		if scale > 0 {
			return fmt.Sprintf("%s(%d,%d)", native.Name, precision, scale), nil
		}
		return fmt.Sprintf("%s(%d)", native.Name, precision), nil
	}

	if limit == 0 {
		limit = native.Limit
	}
	if limit > 0 && (t == TypeString || t == TypeFloat) {
		return fmt.Sprintf("%s(%d)", native.Name, limit), nil
	}
	return native.Name, nil
}
