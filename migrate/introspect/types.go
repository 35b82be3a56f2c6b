package introspect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ifxgo/adapter/runtime/driver"
	"github.com/ifxgo/adapter/runtime/types"
)

// parameterizedTypes take a length or a precision and scale.
var parameterizedTypes = map[string]bool{
	"CHAR":              true,
	"CHARACTER":         true,
	"CHARACTER VARYING": true,
	"DECIMAL":           true,
	"FLOAT":             true,
	"LIST":              true,
	"LVARCHAR":          true,
	"MONEY":             true,
	"MULTISET":          true,
	"NCHAR":             true,
	"NUMERIC":           true,
	"NVARCHAR":          true,
	"SERIAL":            true,
	"SERIAL8":           true,
	"VARCHAR":           true,
}

// timeOnlyPrecision is the DATETIME start qualifier of HOUR.
const timeOnlyPrecision = 6

var (
	moneyPattern    = regexp.MustCompile(`(?i)money`)
	datetimePattern = regexp.MustCompile(`(?i)datetime`)
	bytePattern     = regexp.MustCompile(`(?i)byte`)
)

// NormalizeNativeType renders a catalog type token as the native type string
// of a column descriptor. It never fails: unknown tokens pass through.
func NormalizeNativeType(token string, limit, precision, scale int) string {
	token = moneyPattern.ReplaceAllString(strings.TrimSpace(token), "decimal")

	switch {
	case parameterizedTypes[strings.ToUpper(token)]:
		if precision == 0 {
			return fmt.Sprintf("%s(%d)", strings.ToLower(token), limit)
		}
		return fmt.Sprintf("%s(%d,%d)", strings.ToLower(token), precision, scale)
	case datetimePattern.MatchString(token):
		if precision == timeOnlyPrecision {
			return "time"
		}
		return strings.ToLower(token)
	case bytePattern.MatchString(token):
		return "binary"
	default:
		return strings.ToLower(token)
	}
}

// kindRules are checked in order; the first match wins. interval sits before
// int so INTERVAL columns are not taken for integers.
var kindRules = []struct {
	pattern *regexp.Regexp
	kind    types.ColumnKind
}{
	{regexp.MustCompile(`(?i)serial`), types.KindPrimaryKey},
	{regexp.MustCompile(`(?i)interval`), types.KindOther},
	{regexp.MustCompile(`(?i)int`), types.KindInteger},
	{regexp.MustCompile(`(?i)float|double|real`), types.KindFloat},
	{regexp.MustCompile(`(?i)decimal|numeric`), types.KindDecimal},
	{regexp.MustCompile(`(?i)datetime`), types.KindDateTime},
	{regexp.MustCompile(`(?i)timestamp`), types.KindDateTime},
	{regexp.MustCompile(`(?i)time`), types.KindTime},
	{regexp.MustCompile(`(?i)date`), types.KindDate},
	{regexp.MustCompile(`(?i)clob|text`), types.KindText},
	{regexp.MustCompile(`(?i)blob|binary`), types.KindBinary},
	{regexp.MustCompile(`(?i)char|string`), types.KindString},
	{regexp.MustCompile(`(?i)bool`), types.KindBoolean},
}

// ClassifyKind maps a normalized native type to its portable kind.
func ClassifyKind(nativeType string) types.ColumnKind {
	for _, r := range kindRules {
		if r.pattern.MatchString(nativeType) {
			return r.kind
		}
	}
	return types.KindOther
}

// NewColumnDescriptor validates a catalog row and converts it.
func NewColumnDescriptor(row driver.RawCatalogRow) (ColumnDescriptor, error) {
	if err := row.Validate(); err != nil {
		return ColumnDescriptor{}, err
	}
	native := NormalizeNativeType(row.Type, row.Length, row.Precision, row.Scale)
	return ColumnDescriptor{
		Name:       row.Name,
		Default:    row.Default,
		NativeType: native,
		Nullable:   row.Nullable,
		Kind:       ClassifyKind(native),
	}, nil
}
