package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "bytes", in: []byte("bolt"), want: "bolt"},
		{name: "int", in: int64(42), want: "42"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "bool", in: true, want: "true"},
		{name: "time", in: time.Date(2024, 3, 9, 8, 5, 1, 0, time.UTC), want: "2024-03-09 08:05:01"},
		{name: "string", in: "x", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}

	assert.Contains(t, FormatValue(nil), "NULL")
}

func TestMarkdownTable(t *testing.T) {
	got := MarkdownTable([]string{"Column", "Type"}, [][]string{
		{"id", "serial"},
		{"name", "varchar(255)"},
		{"a|b", "char(1)"},
	})
	want := "| Column | Type |\n" +
		"|---|---|\n" +
		"| id | serial |\n" +
		"| name | varchar(255) |\n" +
		"| a\\|b | char(1) |\n"
	assert.Equal(t, want, got)
}

func TestPrintSQL(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })

	PrintSQL([]string{"CREATE SEQUENCE t_seq", "COMMIT"})
	assert.Equal(t, "CREATE SEQUENCE t_seq;\nCOMMIT;\n", buf.String())
}
