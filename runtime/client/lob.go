package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ifxgo/adapter/migrate/introspect"
	"github.com/ifxgo/adapter/query/sqlgen"
	"github.com/ifxgo/adapter/runtime/types"
)

// WriteLOBs writes the text and binary columns of a saved row.
//
// Quote renders LOB values as NULL, so the INSERT or UPDATE that saved the row
// left them empty. Each non-empty LOB value is then sent as a stream through
// its own prepared UPDATE, which is dropped afterwards.
func (a *Adapter) WriteLOBs(ctx context.Context, table, primaryKey string, id interface{}, columns []introspect.ColumnDescriptor, row *types.Record) error {
	where := fmt.Sprintf("%s = %s", primaryKey, sqlgen.Quote(id, types.KindOther))

	for _, col := range columns {
		if !col.Kind.IsLOB() {
			continue
		}
		v, ok := row.GetFold(col.Name)
		if !ok {
			continue
		}
		stream := lobReader(v)
		if stream == nil {
			continue
		}

		sql := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s", table, col.Name, where)
		if _, err := a.ExecutePrepared(ctx, sql, stream); err != nil {
			return fmt.Errorf("write %s.%s: %w", table, col.Name, err)
		}
	}
	return nil
}

// lobReader returns nil for values that need no write.
func lobReader(v interface{}) io.Reader {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return strings.NewReader(val)
	case []byte:
		if len(val) == 0 {
			return nil
		}
		return bytes.NewReader(val)
	case io.Reader:
		return val
	default:
		s := fmt.Sprint(val)
		if s == "" {
			return nil
		}
		return strings.NewReader(s)
	}
}
