package types

// ColumnKind is the portable classification of a native column type.
type ColumnKind int

const (
	KindOther ColumnKind = iota
	KindPrimaryKey
	KindString
	KindText
	KindInteger
	KindFloat
	KindDecimal
	KindDateTime
	KindTime
	KindDate
	KindBinary
	KindBoolean
)

var kindNames = map[ColumnKind]string{
	KindOther:      "other",
	KindPrimaryKey: "primary_key",
	KindString:     "string",
	KindText:       "text",
	KindInteger:    "integer",
	KindFloat:      "float",
	KindDecimal:    "decimal",
	KindDateTime:   "datetime",
	KindTime:       "time",
	KindDate:       "date",
	KindBinary:     "binary",
	KindBoolean:    "boolean",
}

// String returns the lower-case name of the kind
func (k ColumnKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// IsLOB reports whether values of this kind are written as streams.
func (k ColumnKind) IsLOB() bool {
	return k == KindText || k == KindBinary
}
