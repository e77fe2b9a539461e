// SPDX-License-Identifier: MIT

package mlio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/ManuGH/mlkit/internal/fsutil"
	mlog "github.com/ManuGH/mlkit/internal/log"
	"github.com/ManuGH/mlkit/internal/metrics"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Artifact file layout:
//
//	magic "MLKA" | format version (1 byte) | codec (1 byte) | payload
//
// The payload is the msgpack encoding of envelope, compressed by codec.
const (
	artifactMagic         = "MLKA"
	ArtifactFormatVersion = 1
	artifactHeaderLen     = len(artifactMagic) + 2
)

// Codec is the compression applied to an artifact payload.
type Codec uint8

const (
	CodecNone Codec = 0
	CodecZstd Codec = 1
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ParseCodec parses "none" (or "") and "zstd".
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	default:
		return CodecNone, fmt.Errorf("unknown artifact codec %q (want none or zstd)", s)
	}
}

// Coders run with concurrency 1 so no helper spawns background work.
func (c Codec) compress(b []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return b, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(b, make([]byte, 0, len(b)/2)), nil
	default:
		return nil, fmt.Errorf("unknown codec %d", uint8(c))
	}
}

func (c Codec) decompress(b []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return b, nil
	case CodecZstd:
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(b, nil)
	default:
		return nil, fmt.Errorf("unknown codec %d", uint8(c))
	}
}

type envelope struct {
	ID        string             `msgpack:"id"`
	Type      string             `msgpack:"type"`
	CreatedAt time.Time          `msgpack:"created_at"`
	Value     msgpack.RawMessage `msgpack:"value"`
}

// ArtifactInfo describes a stored artifact without decoding its value.
type ArtifactInfo struct {
	ID            string
	Type          string
	CreatedAt     time.Time
	Codec         Codec
	FormatVersion int
	Size          int64
}

// SaveArtifact serializes v (for example a trained model) to path,
// replacing any existing file atomically. Only exported struct fields are
// stored. The parent directory must exist.
func (x *IO) SaveArtifact(path string, v any) error {
	if err := x.checkPath(OpSaveArtifact, path); err != nil {
		return err
	}
	if v == nil {
		return x.fail(OpSaveArtifact, path, ErrInvalidArgument, errors.New("value is nil"))
	}

	value, err := encodeMsgpack(v)
	if err != nil {
		return x.fail(OpSaveArtifact, path, ErrInvalidArgument, fmt.Errorf("encode value: %w", err))
	}
	env := envelope{
		ID:        uuid.NewString(),
		Type:      typeName(reflect.TypeOf(v)),
		CreatedAt: x.now().UTC(),
		Value:     value,
	}
	body, err := encodeMsgpack(&env)
	if err != nil {
		return x.fail(OpSaveArtifact, path, ErrInvalidArgument, fmt.Errorf("encode envelope: %w", err))
	}
	payload, err := x.codec.compress(body)
	if err != nil {
		return x.fail(OpSaveArtifact, path, ErrInvalidArgument, fmt.Errorf("compress: %w", err))
	}

	header := append([]byte(artifactMagic), ArtifactFormatVersion, byte(x.codec))
	n, err := fsutil.WriteFileAtomic(path, FilePerm, func(w io.Writer) error {
		if _, err := w.Write(header); err != nil {
			return err
		}
		_, err := w.Write(payload)
		return err
	})
	if err != nil {
		return x.fail(OpSaveArtifact, path, ErrIO, err)
	}
	metrics.AddBytesWritten(OpSaveArtifact, n)

	x.done(OpSaveArtifact, path).
		Str(mlog.FieldID, env.ID).
		Str(mlog.FieldType, env.Type).
		Str(mlog.FieldCodec, x.codec.String()).
		Int64(mlog.FieldBytes, n).
		Msg("artifact saved")
	return nil
}

// LoadArtifact decodes the artifact at path into target, a non-nil
// pointer. The stored type must match the pointed-to type, except that a
// *any target accepts anything. Integers and floats decoded into
// interface values come back as int64/uint64 and float64.
func (x *IO) LoadArtifact(path string, target any) error {
	if err := x.checkPath(OpLoadArtifact, path); err != nil {
		return err
	}
	rv := reflect.ValueOf(target)
	if target == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return x.fail(OpLoadArtifact, path, ErrInvalidArgument, fmt.Errorf("target must be a non-nil pointer, got %T", target))
	}

	env, _, err := x.readArtifact(OpLoadArtifact, path)
	if err != nil {
		return err
	}

	elem := rv.Type().Elem()
	if elem.Kind() != reflect.Interface {
		if want := typeName(elem); want != env.Type {
			return x.fail(OpLoadArtifact, path, ErrDeserialization,
				fmt.Errorf("artifact holds %s, target is %s", env.Type, want))
		}
	}
	if err := decodeMsgpack(env.Value, target); err != nil {
		return x.fail(OpLoadArtifact, path, ErrDeserialization, fmt.Errorf("decode value: %w", err))
	}

	x.done(OpLoadArtifact, path).
		Str(mlog.FieldID, env.ID).
		Str(mlog.FieldType, env.Type).
		Msg("artifact loaded")
	return nil
}

// LoadArtifactValue decodes the artifact at path into a generic value:
// structs come back as map[string]any.
func (x *IO) LoadArtifactValue(path string) (any, error) {
	var v any
	if err := x.LoadArtifact(path, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// InspectArtifact reads the header and metadata of the artifact at path.
func (x *IO) InspectArtifact(path string) (ArtifactInfo, error) {
	if err := x.checkPath(OpInspectArtifact, path); err != nil {
		return ArtifactInfo{}, err
	}
	env, info, err := x.readArtifact(OpInspectArtifact, path)
	if err != nil {
		return ArtifactInfo{}, err
	}
	x.done(OpInspectArtifact, path).
		Str(mlog.FieldID, env.ID).
		Str(mlog.FieldType, env.Type).
		Msg("artifact inspected")
	return info, nil
}

func (x *IO) readArtifact(op, path string) (envelope, ArtifactInfo, error) {
	// #nosec G304 -- artifact paths are provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return envelope{}, ArtifactInfo{}, x.fail(op, path, readErrorKind(err), err)
	}
	metrics.AddBytesRead(op, int64(len(data)))

	if len(data) < artifactHeaderLen || string(data[:len(artifactMagic)]) != artifactMagic {
		return envelope{}, ArtifactInfo{}, x.fail(op, path, ErrDeserialization, errors.New("not an artifact file (bad magic)"))
	}
	version := int(data[len(artifactMagic)])
	if version != ArtifactFormatVersion {
		return envelope{}, ArtifactInfo{}, x.fail(op, path, ErrDeserialization,
			fmt.Errorf("unsupported artifact format version %d", version))
	}
	codec := Codec(data[len(artifactMagic)+1])

	body, err := codec.decompress(data[artifactHeaderLen:])
	if err != nil {
		return envelope{}, ArtifactInfo{}, x.fail(op, path, ErrDeserialization, fmt.Errorf("decompress: %w", err))
	}

	var env envelope
	if err := msgpack.Unmarshal(body, &env); err != nil {
		return envelope{}, ArtifactInfo{}, x.fail(op, path, ErrDeserialization, fmt.Errorf("decode envelope: %w", err))
	}
	if env.Type == "" || len(env.Value) == 0 {
		return envelope{}, ArtifactInfo{}, x.fail(op, path, ErrDeserialization, errors.New("artifact envelope is incomplete"))
	}

	info := ArtifactInfo{
		ID:            env.ID,
		Type:          env.Type,
		CreatedAt:     env.CreatedAt.UTC(),
		Codec:         codec,
		FormatVersion: version,
		Size:          int64(len(data)),
	}
	return env, info, nil
}

func encodeMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeMsgpack(b []byte, target any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	return dec.Decode(target)
}

// typeName names t with its pointers stripped; named types carry their
// full package path.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
