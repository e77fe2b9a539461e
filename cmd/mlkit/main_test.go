// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/mlkit/internal/config"
	"github.com/ManuGH/mlkit/internal/testutil"
	"github.com/ManuGH/mlkit/mlio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// cleanEnv blanks every variable the CLI reads and points the artifacts
// root at a temp dir.
func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		config.EnvConfigPath, config.EnvLogLevel, config.EnvLogFormat, config.EnvLogFile, config.EnvMetricsFile,
		config.EnvDirectories, config.EnvArtifactCompression,
	} {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	t.Setenv(config.EnvArtifactsRoot, root)
	return root
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func quietIO(opts ...mlio.Option) *mlio.IO {
	return mlio.New(append([]mlio.Option{mlio.WithLogger(zerolog.Nop())}, opts...)...)
}

func TestRun_Usage(t *testing.T) {
	cleanEnv(t)

	code, _, stderr := runCLI(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage:")

	code, _, stderr = runCLI(t, "bogus")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Unknown command: bogus")

	code, _, _ = runCLI(t, "help")
	assert.Equal(t, exitOK, code)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "mlkit "), stdout)
}

func TestConfigValidate(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()

	good := writeFile(t, dir, "good.yaml", "logLevel: debug\n")
	code, stdout, _ := runCLI(t, "config", "validate", "-f", good)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, good+" is valid")

	bad := writeFile(t, dir, "bad.yaml", "logLevel: shout\n")
	code, _, stderr := runCLI(t, "config", "validate", "--file", bad)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "LogLevel")

	code, _, stderr = runCLI(t, "config", "validate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "--file is required")

	t.Setenv(config.EnvConfigPath, good)
	t.Setenv(config.EnvLogFormat, "console")
	code, stdout, _ = runCLI(t, "config", "validate")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "overridden by $"+config.EnvLogFormat)
	assert.NotContains(t, stdout, "$"+config.EnvLogLevel)

	code, _, _ = runCLI(t, "config", "nope")
	assert.Equal(t, exitUsage, code)
}

func TestConfigDump(t *testing.T) {
	root := cleanEnv(t)
	path := writeFile(t, t.TempDir(), "mlkit.yaml", "logFormat: console\nartifacts:\n  compression: zstd\n")

	code, stdout, _ := runCLI(t, "config", "dump", "-f", path, "--format", "json")
	require.Equal(t, exitOK, code)

	var got config.AppConfig
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "console", got.LogFormat)
	assert.Equal(t, "zstd", got.ArtifactCompression)
	assert.Equal(t, root, got.ArtifactsRoot)

	code, stdout, _ = runCLI(t, "config", "dump", "-f", path)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "artifactCompression: zstd")

	code, _, _ = runCLI(t, "config", "dump", "-f", path, "--format", "toml")
	assert.Equal(t, exitUsage, code)
}

func TestInit(t *testing.T) {
	root := cleanEnv(t)
	t.Setenv(config.EnvDirectories, "data/raw,models")

	code, stdout, stderr := runCLI(t, "init")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "3 directories ready")
	assert.DirExists(t, filepath.Join(root, "data", "raw"))
	assert.DirExists(t, filepath.Join(root, "models"))
	assert.Contains(t, stderr, "directory created")

	code, _, stderr = runCLI(t, "init", "-q")
	require.Equal(t, exitOK, code)
	assert.NotContains(t, stderr, "directory created")
}

func TestInit_FileInTheWay(t *testing.T) {
	root := cleanEnv(t)
	writeFile(t, root, "models", "not a dir")
	t.Setenv(config.EnvDirectories, "models")

	code, _, stderr := runCLI(t, "init", "-q")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "Error:")
}

func TestYAML(t *testing.T) {
	cleanEnv(t)
	path := writeFile(t, t.TempDir(), "params.yaml", "model:\n  name: linear\n  alpha: 0.5\nseed: 42\n")

	code, stdout, _ := runCLI(t, "yaml", "-key", "model.name", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "linear\n", stdout)

	code, stdout, _ = runCLI(t, "yaml", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "model:\n  alpha: 0.5\n  name: linear\nseed: 42\n", stdout)

	code, _, stderr := runCLI(t, "yaml", "-key", "model.depth", path)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "missing key")

	code, _, _ = runCLI(t, "yaml", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, exitFail, code)

	code, _, _ = runCLI(t, "yaml")
	assert.Equal(t, exitUsage, code)
}

func TestJSON(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, quietIO().SaveJSON(path, map[string]any{"accuracy": 0.9, "label": "a<b & c", "n": 3}))
	want, err := os.ReadFile(path)
	require.NoError(t, err)

	code, stdout, _ := runCLI(t, "json", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, string(want), stdout)

	bad := writeFile(t, t.TempDir(), "bad.json", "[1, 2]")
	code, _, _ = runCLI(t, "json", bad)
	assert.Equal(t, exitFail, code)
}

func TestSize(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "a.bin", strings.Repeat("x", 10))
	writeFile(t, dir, "b.bin", strings.Repeat("y", 20))

	code, stdout, _ := runCLI(t, "size", dir)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "30\t"+dir+"\n", stdout)

	code, stdout, _ = runCLI(t, "size", "-h", filepath.Join(dir, "a.bin"))
	require.Equal(t, exitOK, code)
	assert.Equal(t, "10 B\t"+filepath.Join(dir, "a.bin")+"\n", stdout)

	missing := filepath.Join(dir, "missing")
	code, stdout, stderr := runCLI(t, "size", missing, dir)
	assert.Equal(t, exitFail, code)
	assert.Equal(t, "30\t"+dir+"\n", stdout)
	assert.Contains(t, stderr, "1 of 2 paths failed")

	code, _, _ = runCLI(t, "size")
	assert.Equal(t, exitUsage, code)
}

type point struct {
	X, Y float64
}

func TestArtifactInspect(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "model.mlka")
	require.NoError(t, quietIO(mlio.WithCodec(mlio.CodecZstd)).SaveArtifact(path, point{X: 1, Y: 2}))

	code, stdout, stderr := runCLI(t, "artifact", "inspect", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "codec:          zstd")
	assert.Contains(t, stdout, "format_version: 1")
	assert.Contains(t, stdout, "point")

	garbage := writeFile(t, t.TempDir(), "junk.mlka", "definitely not an artifact")
	code, _, stderr = runCLI(t, "artifact", "inspect", garbage)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "Error:")

	code, _, _ = runCLI(t, "artifact")
	assert.Equal(t, exitUsage, code)
}

func TestLogFileIsWrittenAndClosed(t *testing.T) {
	cleanEnv(t)
	logPath := filepath.Join(t.TempDir(), "mlkit.log")
	t.Setenv(config.EnvLogFile, logPath)

	dir := t.TempDir()
	writeFile(t, dir, "a.bin", "abc")

	code, _, stderr := runCLI(t, "size", dir)
	require.Equal(t, exitOK, code)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"get_size"`)
}

func TestConfigValidate_Example(t *testing.T) {
	cleanEnv(t)
	code, _, stderr := runCLI(t, "config", "validate", "-f", testutil.RepoFile(t, "configs", "mlkit.example.yaml"))
	assert.Equal(t, exitOK, code, stderr)
}

func TestMetricsFile(t *testing.T) {
	cleanEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "mlkit.prom")
	t.Setenv(config.EnvMetricsFile, metricsPath)

	dir := t.TempDir()
	writeFile(t, dir, "a.bin", "abc")

	code, _, stderr := runCLI(t, "size", dir)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mlkit_io_operations_total{op="get_size",outcome="success"}`)
}

func TestMetricsFile_WrittenOnFailure(t *testing.T) {
	cleanEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "mlkit.prom")
	t.Setenv(config.EnvMetricsFile, metricsPath)

	code, _, _ := runCLI(t, "json", filepath.Join(t.TempDir(), "absent.json"))
	assert.Equal(t, exitFail, code)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mlkit_io_errors_total{kind="not_found",op="load_json"}`)
}

func TestMetricsFile_Unwritable(t *testing.T) {
	cleanEnv(t)
	t.Setenv(config.EnvMetricsFile, filepath.Join(t.TempDir(), "missing", "mlkit.prom"))

	code, _, stderr := runCLI(t, "size", t.TempDir())
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "write metrics textfile")
}

func TestInvalidConfigFailsBeforeRunning(t *testing.T) {
	cleanEnv(t)
	t.Setenv(config.EnvArtifactCompression, "lz4")

	code, _, stderr := runCLI(t, "size", t.TempDir())
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "ArtifactCompression")
}
