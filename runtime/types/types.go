// Package types provides runtime types shared by the adapter packages.
package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DateTime represents a timestamp
type DateTime = time.Time

// Record is a single result row keyed by column name.
// Columns keep the order in which the driver reported them.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord creates an empty record with room for n columns
func NewRecord(n int) *Record {
	return &Record{
		keys:   make([]string, 0, n),
		values: make(map[string]interface{}, n),
	}
}

// Set stores a value. A new column is appended; an existing one keeps its position.
func (r *Record) Set(column string, value interface{}) {
	if _, ok := r.values[column]; !ok {
		r.keys = append(r.keys, column)
	}
	r.values[column] = value
}

// Get returns the value stored for column.
func (r *Record) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

// GetFold looks a column up ignoring case. Informix reports column names in
// lower case regardless of how the query spelled them.
func (r *Record) GetFold(column string) (interface{}, bool) {
	if v, ok := r.values[column]; ok {
		return v, true
	}
	for _, k := range r.keys {
		if strings.EqualFold(k, column) {
			return r.values[k], true
		}
	}
	return nil, false
}

// Columns returns the column names in order
func (r *Record) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Values returns the values in column order
func (r *Record) Values() []interface{} {
	out := make([]interface{}, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// Len returns the number of columns
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the record as a JSON object preserving column order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		v := r.values[k]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueryResult holds the records of one statement in fetch order.
type QueryResult struct {
	Columns  []string
	Records  []*Record
	Duration time.Duration
}

// Len returns the number of records
func (q *QueryResult) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Records)
}

// First returns the first record. ok is false when the result is empty.
func (q *QueryResult) First() (rec *Record, ok bool) {
	if q.Len() == 0 {
		return nil, false
	}
	return q.Records[0], true
}

// Rows renders every record as strings, for tabular output.
func (q *QueryResult) Rows(format func(interface{}) string) [][]string {
	rows := make([][]string, 0, q.Len())
	for _, rec := range q.Records {
		row := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			v, _ := rec.Get(c)
			row[i] = format(v)
		}
		rows = append(rows, row)
	}
	return rows
}
