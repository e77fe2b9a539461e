// SPDX-License-Identifier: MIT

// Package mlio provides the configuration and artifact I/O helpers used by
// ML project code: reading YAML configuration, creating directories,
// saving and loading JSON records and binary model artifacts, and sizing
// files and directories.
//
// Every operation is synchronous and independent. Each one logs a single
// info event on success (CreateDirectories only in verbose mode, once per
// path) or a single error event on failure. Failures are returned as
// *OpError values classified by the package sentinels.
package mlio

import (
	"fmt"
	"strings"
	"time"

	mlog "github.com/ManuGH/mlkit/internal/log"
	"github.com/ManuGH/mlkit/internal/metrics"
	"github.com/rs/zerolog"
)

// Operation names used in errors, log events and metrics.
const (
	OpReadConfig        = "read_config"
	OpSaveYAML          = "save_yaml"
	OpCreateDirectories = "create_directories"
	OpSaveJSON          = "save_json"
	OpLoadJSON          = "load_json"
	OpSaveArtifact      = "save_artifact"
	OpLoadArtifact      = "load_artifact"
	OpInspectArtifact   = "inspect_artifact"
	OpGetSize           = "get_size"
)

// IO runs the helpers with an explicit logger and artifact codec.
// It holds no mutable state and may be shared.
type IO struct {
	logger zerolog.Logger
	codec  Codec
	now    func() time.Time
}

// Option configures an IO.
type Option func(*IO)

// WithLogger injects the logger used for operation events.
func WithLogger(l zerolog.Logger) Option {
	return func(x *IO) { x.logger = l }
}

// WithCodec selects the compression applied by SaveArtifact.
func WithCodec(c Codec) Option {
	return func(x *IO) { x.codec = c }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(x *IO) { x.now = now }
}

// New builds an IO. Without options it logs through the process logger
// and writes uncompressed artifacts.
func New(opts ...Option) *IO {
	x := &IO{
		logger: mlog.WithComponent("mlio"),
		codec:  CodecNone,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// done records a successful op and returns its info event for the caller
// to finish with Msg.
func (x *IO) done(op, path string) *zerolog.Event {
	metrics.RecordOperation(op)
	return x.logger.Info().Str(mlog.FieldOp, op).Str(mlog.FieldPath, path)
}

// fail classifies, logs and counts a failure.
func (x *IO) fail(op, path string, kind, err error) error {
	oe := &OpError{Op: op, Kind: kind, Path: path, Err: err}
	name := KindName(oe)
	metrics.RecordFailure(op, name)
	x.logger.Error().
		Err(err).
		Str(mlog.FieldOp, op).
		Str(mlog.FieldPath, path).
		Str("kind", name).
		Msgf("%s failed: %s", op, path)
	return oe
}

func (x *IO) checkPath(op, path string) error {
	if strings.TrimSpace(path) == "" {
		return x.fail(op, path, ErrInvalidPath, fmt.Errorf("path is empty"))
	}
	if strings.ContainsRune(path, 0) {
		return x.fail(op, path, ErrInvalidPath, fmt.Errorf("path contains NUL byte"))
	}
	return nil
}

// ReadConfig reads a YAML configuration file using the process logger.
func ReadConfig(path string) (*ConfigBox, error) { return New().ReadConfig(path) }

// SaveYAML writes data as YAML using the process logger.
func SaveYAML(path string, data any) error { return New().SaveYAML(path, data) }

// CreateDirectories creates every path using the process logger.
func CreateDirectories(paths []string, verbose bool) error {
	return New().CreateDirectories(paths, verbose)
}

// SaveJSON writes data as indented JSON using the process logger.
func SaveJSON(path string, data any) error { return New().SaveJSON(path, data) }

// LoadJSON reads a JSON object using the process logger.
func LoadJSON(path string) (map[string]any, error) { return New().LoadJSON(path) }

// SaveArtifact writes an uncompressed artifact using the process logger.
func SaveArtifact(path string, v any) error { return New().SaveArtifact(path, v) }

// LoadArtifact decodes an artifact into target using the process logger.
func LoadArtifact(path string, target any) error { return New().LoadArtifact(path, target) }

// GetSize sizes a file or directory using the process logger.
func GetSize(path string) (int64, error) { return New().GetSize(path) }
