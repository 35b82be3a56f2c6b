package driver

import (
	"strings"
)

// syscolumns.coltype codes. The 0x100 bit marks NOT NULL columns.
const (
	notNullBit = 0x100

	typeChar       = 0
	typeSmallInt   = 1
	typeInteger    = 2
	typeFloat      = 3
	typeSmallFloat = 4
	typeDecimal    = 5
	typeSerial     = 6
	typeDate       = 7
	typeMoney      = 8
	typeNull       = 9
	typeDateTime   = 10
	typeByte       = 11
	typeText       = 12
	typeVarchar    = 13
	typeInterval   = 14
	typeNChar      = 15
	typeNVarchar   = 16
	typeInt8       = 17
	typeSerial8    = 18
	typeSet        = 19
	typeMultiset   = 20
	typeList       = 21
	typeRow        = 22
	typeCollection = 23
	typeVarOpaque  = 40
	typeFixOpaque  = 41
	typeLVarchar   = 43
	typeBoolean    = 45
	typeBigInt     = 52
	typeBigSerial  = 53
)

var typeTokens = map[int]string{
	typeChar:       "CHAR",
	typeSmallInt:   "SMALLINT",
	typeInteger:    "INTEGER",
	typeFloat:      "FLOAT",
	typeSmallFloat: "SMALLFLOAT",
	typeDecimal:    "DECIMAL",
	typeSerial:     "SERIAL",
	typeDate:       "DATE",
	typeMoney:      "MONEY",
	typeNull:       "NULL",
	typeDateTime:   "DATETIME",
	typeByte:       "BYTE",
	typeText:       "TEXT",
	typeVarchar:    "VARCHAR",
	typeInterval:   "INTERVAL",
	typeNChar:      "NCHAR",
	typeNVarchar:   "NVARCHAR",
	typeInt8:       "INT8",
	typeSerial8:    "SERIAL8",
	typeSet:        "SET",
	typeMultiset:   "MULTISET",
	typeList:       "LIST",
	typeRow:        "ROW",
	typeCollection: "COLLECTION",
	typeVarOpaque:  "OPAQUE",
	typeFixOpaque:  "OPAQUE",
	typeLVarchar:   "LVARCHAR",
	typeBoolean:    "BOOLEAN",
	typeBigInt:     "BIGINT",
	typeBigSerial:  "BIGSERIAL",
}

// Built-in opaque types share coltype 40/41 and differ by their
// sysxtdtypes extended_id.
var opaqueTokens = map[int]string{
	1:  "LVARCHAR",
	5:  "BOOLEAN",
	10: "BLOB",
	11: "CLOB",
}

// ColumnType is a decoded syscolumns (coltype, collength) pair.
type ColumnType struct {
	Token     string
	Nullable  bool
	Length    int
	Precision int
	Scale     int
}

// DecodeColumnType turns the encoded coltype/collength of a syscolumns row
// into a type token with its length, precision and scale.
//
// DECIMAL and MONEY pack precision in the high byte and scale in the low
// byte; a scale of 0xFF is a floating decimal. DATETIME and INTERVAL pack
// the digit count in the high byte and the start/end qualifiers in the low
// nibbles; the start qualifier is reported as Precision, so 6 (HOUR) marks a
// time-only value. VARCHAR and NVARCHAR keep the maximum size in the low byte.
// Opaque columns are named through extendedID; user defined opaque types
// come back as OPAQUE.
func DecodeColumnType(coltype, collength, extendedID int) ColumnType {
	base := coltype & 0xFF
	ct := ColumnType{
		Nullable: coltype&notNullBit == 0,
		Length:   collength,
	}

	token, ok := typeTokens[base]
	if !ok {
		token = "UNKNOWN"
	}
	ct.Token = token

	switch base {
	case typeDecimal, typeMoney:
		ct.Precision = collength >> 8
		ct.Scale = collength & 0xFF
		if ct.Scale == 0xFF {
			ct.Length = ct.Precision
			ct.Precision = 0
			ct.Scale = 0
		} else {
			ct.Length = ct.Precision
		}
	case typeDateTime, typeInterval:
		ct.Length = collength >> 8
		ct.Precision = (collength >> 4) & 0xF
		ct.Scale = collength & 0xF
	case typeVarchar, typeNVarchar:
		ct.Length = collength & 0xFF
	case typeVarOpaque, typeFixOpaque:
		if t, ok := opaqueTokens[extendedID]; ok {
			ct.Token = t
		}
	}
	return ct
}

// decodeDefault renders a sysdefaults row. kind is the one letter type
// column; literal defaults keep their stored text.
func decodeDefault(kind, value string) *string {
	var s string
	switch strings.TrimSpace(kind) {
	case "L":
		s = strings.TrimSpace(value)
	case "U":
		s = "user"
	case "C":
		s = "current"
	case "T":
		s = "today"
	case "S":
		s = "dbservername"
	default:
		return nil
	}
	return &s
}
