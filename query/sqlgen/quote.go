package sqlgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ifxgo/adapter/runtime/types"
)

// QuoteString escapes single quotes by doubling them.
func QuoteString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Quote renders value as an Informix literal for a column of the given kind.
// Pass types.KindOther when the column is unknown.
//
// Text and binary values are bound as stream parameters after the row is
// written, so they always quote to NULL here. Dates use the server's default
// M/D/Y literal form.
func Quote(value interface{}, kind types.ColumnKind) string {
	if kind.IsLOB() {
		return "NULL"
	}

	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + QuoteString(v) + "'"
	case []byte:
		return "'" + QuoteString(string(v)) + "'"
	case bool:
		if v {
			return "'t'"
		}
		return "'f'"
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		if kind == types.KindDate {
			return fmt.Sprintf("'%d/%d/%d'", int(v.Month()), v.Day(), v.Year())
		}
		return "'" + v.Format("2006-01-02 15:04:05") + "'"
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return Quote(*v, kind)
	case fmt.Stringer:
		return "'" + QuoteString(v.String()) + "'"
	default:
		return "'" + QuoteString(fmt.Sprint(v)) + "'"
	}
}

// QuoteColumnName returns name unchanged; Informix folds undelimited
// identifiers and the adapter never enables DELIMIDENT.
func QuoteColumnName(name string) string {
	return name
}
