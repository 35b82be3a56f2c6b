package runtime

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "leading code", err: errors.New("-268: Unique constraint (informix.u104_1) violated."), want: -268},
		{name: "embedded code", err: errors.New("SQLCODE -691 missing key in referenced table"), want: -691},
		{name: "isam code", err: errors.New("[Informix][ODBC] -239 (ISAM -100)"), want: -239},
		{name: "no code", err: errors.New("connection reset"), want: 0},
		{name: "hyphenated word", err: errors.New("read-only 12"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLCode(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
	}{
		{name: "unique", err: errors.New("-268: Unique constraint violated."), wantKind: ErrConstraintViolation},
		{name: "not null", err: errors.New("-391: Cannot insert a null into column."), wantKind: ErrConstraintViolation},
		{name: "referential", err: errors.New("-692: Key value is still being referenced."), wantKind: ErrConstraintViolation},
		{name: "syntax", err: errors.New("-201: A syntax error has occurred."), wantKind: ErrStatement},
		{name: "plain", err: errors.New("boom"), wantKind: ErrStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("insert", "INSERT INTO t VALUES (1)", tt.err)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.ErrorIs(t, err, tt.err)

			var ae *Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, "insert", ae.Op)
			assert.Equal(t, "INSERT INTO t VALUES (1)", ae.SQL)
		})
	}

	assert.NoError(t, Classify("op", "", nil))
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	inner := NewError(ErrTypeMapping, "type to sql", "", errors.New("unknown"))
	wrapped := fmt.Errorf("create table: %w", inner)

	err := Classify("execute", "CREATE TABLE t", wrapped)
	assert.Same(t, wrapped, err)
	assert.ErrorIs(t, err, ErrTypeMapping)
	assert.NotErrorIs(t, err, ErrStatement)
}

func TestErrorMessage(t *testing.T) {
	err := NewError(ErrStatement, "select_all", "SELECT 1", errors.New("-201: syntax"))
	assert.Equal(t, "select_all: informix statement failed: -201: syntax", err.Error())

	assert.Equal(t, "indexes: operation not supported by the informix adapter", Unsupported("indexes").Error())
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsUnsupported(Unsupported("indexes")))
	assert.False(t, IsUnsupported(errors.New("x")))

	assert.True(t, IsConstraintViolation(Classify("insert", "", errors.New("-239: duplicate"))))

	err := ConnectionError("stores", errors.New("-908: connect failed"))
	assert.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "connect stores")
}
