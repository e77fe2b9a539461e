// SPDX-License-Identifier: MIT

package mlio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ManuGH/mlkit/internal/fsutil"
	mlog "github.com/ManuGH/mlkit/internal/log"
	"github.com/ManuGH/mlkit/internal/metrics"
	"gopkg.in/yaml.v3"
)

// FilePerm is the mode of files written by the helpers.
const FilePerm fs.FileMode = 0o644

// ReadConfig reads the YAML document at path and wraps its top-level
// mapping in a ConfigBox.
//
// A missing file yields ErrNotFound. Invalid YAML, an empty document,
// several documents, or a top-level value that is not a mapping yield
// ErrMalformedConfig.
func (x *IO) ReadConfig(path string) (*ConfigBox, error) {
	if err := x.checkPath(OpReadConfig, path); err != nil {
		return nil, err
	}

	// #nosec G304 -- config paths are provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, x.fail(OpReadConfig, path, readErrorKind(err), err)
	}
	metrics.AddBytesRead(OpReadConfig, int64(len(data)))

	doc, err := parseYAMLMapping(data)
	if err != nil {
		return nil, x.fail(OpReadConfig, path, ErrMalformedConfig, err)
	}

	box := &ConfigBox{data: doc}
	x.done(OpReadConfig, path).Int(mlog.FieldKeys, box.Len()).Msg("yaml file read")
	return box, nil
}

// SaveYAML writes data as a YAML document at path, replacing any existing
// file atomically. The parent directory must exist.
func (x *IO) SaveYAML(path string, data any) error {
	if err := x.checkPath(OpSaveYAML, path); err != nil {
		return err
	}
	if data == nil {
		return x.fail(OpSaveYAML, path, ErrInvalidArgument, errors.New("data is nil"))
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		return x.fail(OpSaveYAML, path, ErrInvalidArgument, fmt.Errorf("encode yaml: %w", err))
	}

	n, err := fsutil.WriteFileAtomic(path, FilePerm, func(w io.Writer) error {
		_, err := w.Write(raw)
		return err
	})
	if err != nil {
		return x.fail(OpSaveYAML, path, ErrIO, err)
	}
	metrics.AddBytesWritten(OpSaveYAML, n)

	x.done(OpSaveYAML, path).Int64(mlog.FieldBytes, n).Msg("yaml file saved")
	return nil
}

// parseYAMLMapping decodes exactly one YAML document whose root is a mapping.
func parseYAMLMapping(data []byte) (map[string]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("yaml document is empty")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("yaml file contains multiple documents or trailing content")
	}

	switch root := doc.(type) {
	case nil:
		return nil, errors.New("yaml document is empty")
	case map[string]any:
		return normalizeMap(root), nil
	case map[any]any:
		return normalizeValue(root).(map[string]any), nil
	default:
		return nil, fmt.Errorf("yaml root is %T, want mapping", doc)
	}
}

// readErrorKind maps a read failure to ErrNotFound or ErrIO.
func readErrorKind(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return ErrIO
}
