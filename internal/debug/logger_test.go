package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevels(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	Configure(Options{Writer: &buf})
	assert.False(t, Enabled())

	Debug("hidden", "sql", "SELECT 1")
	Error("shown", "sql", "SELECT 2")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	Configure(Options{Enable: true, Writer: &buf})
	assert.True(t, Enabled())
	With("conn", "abc").Debug("statement", "sql", "SELECT 3")
	assert.Contains(t, buf.String(), "conn=abc")
	assert.Contains(t, buf.String(), `sql="SELECT 3"`)
}

func TestConfigureJSON(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	var buf bytes.Buffer
	Configure(Options{Enable: true, Writer: &buf, JSON: true})
	Info("connected", "version", "12.10.FC14")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connected", entry["msg"])
	assert.Equal(t, "12.10.FC14", entry["version"])
}
