// SPDX-License-Identifier: MIT

package mlio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/ManuGH/mlkit/internal/fsutil"
	mlog "github.com/ManuGH/mlkit/internal/log"
	"github.com/ManuGH/mlkit/internal/metrics"
)

// JSONIndent is the indentation used by SaveJSON.
const JSONIndent = "    "

// SaveJSON writes data as JSON indented by four spaces, replacing any
// existing file atomically. The parent directory must exist. A nil map is
// written as an empty object; HTML characters are not escaped.
func (x *IO) SaveJSON(path string, data any) error {
	if err := x.checkPath(OpSaveJSON, path); err != nil {
		return err
	}
	data, err := jsonValue(data)
	if err != nil {
		return x.fail(OpSaveJSON, path, ErrInvalidArgument, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", JSONIndent)
	if err := enc.Encode(data); err != nil {
		return x.fail(OpSaveJSON, path, ErrInvalidArgument, fmt.Errorf("encode json: %w", err))
	}

	n, err := fsutil.WriteFileAtomic(path, FilePerm, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return x.fail(OpSaveJSON, path, ErrIO, err)
	}
	metrics.AddBytesWritten(OpSaveJSON, n)

	x.done(OpSaveJSON, path).Int64(mlog.FieldBytes, n).Msg("json file saved")
	return nil
}

// jsonValue rejects nil values that would encode as null and replaces a
// nil map with an empty one of the same type.
func jsonValue(data any) (any, error) {
	if data == nil {
		return nil, errors.New("data is nil")
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, fmt.Errorf("data is a nil %T", data)
		}
	case reflect.Map:
		if rv.IsNil() {
			return reflect.MakeMap(rv.Type()).Interface(), nil
		}
	}
	return data, nil
}

// LoadJSON reads the JSON object at path. Numbers decode as float64.
func (x *IO) LoadJSON(path string) (map[string]any, error) {
	var doc any
	if err := x.loadJSON(path, &doc); err != nil {
		return nil, err
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, x.fail(OpLoadJSON, path, ErrMalformedConfig, fmt.Errorf("json root is %T, want object", doc))
	}
	x.done(OpLoadJSON, path).Int(mlog.FieldKeys, len(m)).Msg("json file loaded")
	return m, nil
}

// LoadJSONInto decodes the JSON file at path into target, which must be a
// non-nil pointer.
func (x *IO) LoadJSONInto(path string, target any) error {
	if target == nil {
		return x.fail(OpLoadJSON, path, ErrInvalidArgument, errors.New("target is nil"))
	}
	if err := x.loadJSON(path, target); err != nil {
		return err
	}
	x.done(OpLoadJSON, path).Str(mlog.FieldType, fmt.Sprintf("%T", target)).Msg("json file loaded")
	return nil
}

func (x *IO) loadJSON(path string, target any) error {
	if err := x.checkPath(OpLoadJSON, path); err != nil {
		return err
	}

	// #nosec G304 -- record paths are provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return x.fail(OpLoadJSON, path, readErrorKind(err), err)
	}
	metrics.AddBytesRead(OpLoadJSON, int64(len(data)))

	if err := json.Unmarshal(data, target); err != nil {
		var invalid *json.InvalidUnmarshalError
		if errors.As(err, &invalid) {
			return x.fail(OpLoadJSON, path, ErrInvalidArgument, err)
		}
		return x.fail(OpLoadJSON, path, ErrMalformedConfig, fmt.Errorf("parse json: %w", err))
	}
	return nil
}
