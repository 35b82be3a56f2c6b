package client

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ifxgo/adapter/runtime/types"
)

// ScanRecords maps records into a slice of structs. Columns match fields by
// db tag first, then by case-insensitive field name; unmatched columns are
// ignored.
func ScanRecords[T any](records []*types.Record) ([]T, error) {
	results := make([]T, 0, len(records))
	for i, rec := range records {
		v, err := ScanRecord[T](rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		results = append(results, v)
	}
	return results, nil
}

// ScanRecord maps one record into a struct.
func ScanRecord[T any](rec *types.Record) (T, error) {
	var result T
	val := reflect.ValueOf(&result).Elem()
	if val.Kind() != reflect.Struct {
		return result, fmt.Errorf("scan target %s is not a struct", val.Type())
	}
	typ := val.Type()

	for _, col := range rec.Columns() {
		field, ok := findFieldByName(typ, col)
		if !ok {
			continue
		}
		raw, _ := rec.Get(col)
		if err := assign(val.FieldByIndex(field.Index), raw); err != nil {
			return result, fmt.Errorf("column %s: %w", col, err)
		}
	}
	return result, nil
}

// findFieldByName finds a struct field by database column name (db tag or field name)
func findFieldByName(typ reflect.Type, colName string) (reflect.StructField, bool) {
	var byName reflect.StructField
	found := false
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := field.Tag.Get("db"); tag != "" {
			name := strings.Split(tag, ",")[0]
			if name == "-" {
				continue
			}
			if strings.EqualFold(name, colName) {
				return field, true
			}
			continue
		}
		if !found && strings.EqualFold(field.Name, colName) {
			byName = field
			found = true
		}
	}
	return byName, found
}

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

// assign converts raw into the field's type
func assign(field reflect.Value, raw interface{}) error {
	if field.CanAddr() && field.Addr().Type().Implements(scannerType) {
		return field.Addr().Interface().(sql.Scanner).Scan(raw)
	}

	if raw == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), raw); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	switch {
	case field.Type() == timeType:
		t, err := cast.ToTimeE(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	case field.Type() == bytesType:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return err
		}
		field.SetBytes([]byte(s))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return err
		}
		// CHAR columns come back blank padded
		field.SetString(strings.TrimRight(s, " "))
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(raw)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("cannot assign %T to %s", raw, field.Type())
	}
	return nil
}
