// SPDX-License-Identifier: MIT

package mlio

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Accessor errors returned by ConfigBox.
var (
	ErrMissingKey = errors.New("missing key")
	ErrWrongType  = errors.New("wrong type")
)

// ConfigBox is a read-only view over a parsed configuration document.
//
// Values are reached with Get for a single key, with Lookup or the typed
// accessors for dotted paths ("data_ingestion.root_dir"), or all at once by
// decoding into a struct with Decode.
type ConfigBox struct {
	data map[string]any
}

// NewConfigBox wraps a copy of m. Nested maps with non-string keys are
// converted to string-keyed maps.
func NewConfigBox(m map[string]any) *ConfigBox {
	if m == nil {
		m = map[string]any{}
	}
	return &ConfigBox{data: normalizeMap(m)}
}

// Len returns the number of top-level keys.
func (b *ConfigBox) Len() int { return len(b.data) }

// Keys returns the top-level keys in sorted order.
func (b *ConfigBox) Keys() []string {
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether path resolves to a value.
func (b *ConfigBox) Has(path string) bool {
	_, ok := b.Lookup(path)
	return ok
}

// Get returns the value stored under the top-level key.
func (b *ConfigBox) Get(key string) (any, bool) {
	v, ok := b.data[key]
	return v, ok
}

// Lookup resolves a dotted path. An exact top-level key match wins over
// path splitting, so keys that contain dots stay reachable.
func (b *ConfigBox) Lookup(path string) (any, bool) {
	if v, ok := b.data[path]; ok {
		return v, true
	}
	if !strings.Contains(path, ".") {
		return nil, false
	}

	var cur any = b.data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func (b *ConfigBox) lookup(path string) (any, error) {
	v, ok := b.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, path)
	}
	return v, nil
}

func wrongType(path, want string, got any) error {
	return fmt.Errorf("%w: %s is %T, want %s", ErrWrongType, path, got, want)
}

// String returns the string at path.
func (b *ConfigBox) String(path string) (string, error) {
	v, err := b.lookup(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(path, "string", v)
	}
	return s, nil
}

// Int returns the integer at path. Floats without a fractional part are
// accepted.
func (b *ConfigBox) Int(path string) (int, error) {
	v, err := b.lookup(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%w: %s overflows int", ErrWrongType, path)
		}
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%w: %s overflows int", ErrWrongType, path)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n > math.MaxInt {
			return 0, wrongType(path, "int", v)
		}
		return int(n), nil
	default:
		return 0, wrongType(path, "int", v)
	}
}

// Float returns the number at path as float64.
func (b *ConfigBox) Float(path string) (float64, error) {
	v, err := b.lookup(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, wrongType(path, "float", v)
	}
}

// Bool returns the boolean at path.
func (b *ConfigBox) Bool(path string) (bool, error) {
	v, err := b.lookup(path)
	if err != nil {
		return false, err
	}
	t, ok := v.(bool)
	if !ok {
		return false, wrongType(path, "bool", v)
	}
	return t, nil
}

// Slice returns the sequence at path.
func (b *ConfigBox) Slice(path string) ([]any, error) {
	v, err := b.lookup(path)
	if err != nil {
		return nil, err
	}
	s, ok := v.([]any)
	if !ok {
		return nil, wrongType(path, "sequence", v)
	}
	return cloneSlice(s), nil
}

// StringSlice returns the sequence at path; every element must be a string.
func (b *ConfigBox) StringSlice(path string) ([]string, error) {
	s, err := b.Slice(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(s))
	for i, item := range s {
		str, ok := item.(string)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", path, i), "string", item)
		}
		out = append(out, str)
	}
	return out, nil
}

// Box returns the nested mapping at path as its own ConfigBox.
func (b *ConfigBox) Box(path string) (*ConfigBox, error) {
	v, err := b.lookup(path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, wrongType(path, "mapping", v)
	}
	return NewConfigBox(m), nil
}

// Map returns a deep copy of the document.
func (b *ConfigBox) Map() map[string]any {
	return normalizeMap(b.data)
}

// Decode fills target (a pointer, typically to a struct with yaml tags)
// from the document.
func (b *ConfigBox) Decode(target any) error {
	raw, err := yaml.Marshal(b.data)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		return cloneSlice(t)
	default:
		return v
	}
}

func cloneSlice(s []any) []any {
	out := make([]any, len(s))
	for i, item := range s {
		out[i] = normalizeValue(item)
	}
	return out
}
