// Package document models the generic semi-structured documents that schema
// and profile files decode into. Tables preserve the key order of the source
// document so downstream consumers iterate deterministically.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a supported document markup.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned when a file extension maps to no supported markup.
var ErrUnknownFormat = errors.New("unsupported document format")

// FormatForPath derives the document format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Decode parses raw document bytes in the given format into a Table.
func Decode(data []byte, format Format) (*Table, error) {
	switch format {
	case FormatTOML:
		return DecodeTOML(data)
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Table is an ordered mapping from keys to document values. Values are one of
// string, bool, int64, float64, []any, or *Table.
type Table struct {
	keys  []string
	items map[string]any
}

// NewTable constructs an empty table.
func NewTable() *Table {
	return &Table{items: map[string]any{}}
}

// Set stores a value, appending the key on first insertion. Re-setting an
// existing key keeps its original position.
func (t *Table) Set(key string, value any) {
	if _, ok := t.items[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.items[key] = value
}

// Get returns the value stored for key.
func (t *Table) Get(key string) (any, bool) {
	v, ok := t.items[key]
	return v, ok
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.items[key]
	return ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.keys)
}

// GetString returns the string stored for key, if any.
func (t *Table) GetString(key string) (string, bool) {
	v, ok := t.items[key]
	if !ok {
		return "", false
	}
	return AsString(v)
}

// GetTable returns the nested table stored for key, if any.
func (t *Table) GetTable(key string) (*Table, bool) {
	v, ok := t.items[key]
	if !ok {
		return nil, false
	}
	return AsTable(v)
}

// GetArray returns the array stored for key, if any.
func (t *Table) GetArray(key string) ([]any, bool) {
	v, ok := t.items[key]
	if !ok {
		return nil, false
	}
	return AsArray(v)
}

// AsString interprets a document value as a string scalar.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool interprets a document value as a boolean scalar.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// AsInteger interprets a document value as a 64-bit signed integer.
func AsInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// AsTable interprets a document value as a nested table.
func AsTable(v any) (*Table, bool) {
	t, ok := v.(*Table)
	return t, ok
}

// AsArray interprets a document value as an array.
func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// StringArray interprets a document value as an array of strings.
func StringArray(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}
