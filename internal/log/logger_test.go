// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { _ = Close() })
}

func TestConfigure_JSONWithComponent(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "debug", Output: &buf, Service: "svc", Version: "v1"}))

	l := WithComponent("mlio")
	l.Info().Str(FieldPath, "/tmp/x").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "svc", entry["service"])
	assert.Equal(t, "v1", entry["version"])
	assert.Equal(t, "mlio", entry[FieldComponent])
	assert.Equal(t, "/tmp/x", entry[FieldPath])
	assert.Equal(t, "hello", entry["message"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Level: "warn", Output: &buf}))

	l := WithComponent("test")
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestConfigure_InvalidLevel(t *testing.T) {
	resetLogger(t)
	err := Configure(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	require.NoError(t, Configure(Config{Format: "console", Output: &buf}))

	l := WithComponent("test")
	l.Info().Msg("console line")

	out := buf.String()
	assert.Contains(t, out, "console line")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output must not be JSON")
}

func TestConfigure_FileAndClose(t *testing.T) {
	resetLogger(t)
	path := filepath.Join(t.TempDir(), "mlkit.log")
	require.NoError(t, Configure(Config{File: path}))

	l := WithComponent("test")
	l.Info().Msg("to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestConfigure_FileUnwritable(t *testing.T) {
	resetLogger(t)
	err := Configure(Config{File: filepath.Join(t.TempDir(), "missing", "mlkit.log")})
	require.Error(t, err)
}
