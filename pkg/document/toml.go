package document

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// DecodeTOML parses TOML bytes into a Table. Key order is recovered from the
// decoder metadata so tables iterate in document order.
func DecodeTOML(data []byte) (*Table, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	root := NewTable()
	for _, key := range md.Keys() {
		insertPath(root, raw, key)
	}
	fillMissing(root, raw)
	return root, nil
}

// insertPath materializes one metadata key path into the ordered table,
// creating intermediate tables as they first appear in the document.
func insertPath(root *Table, raw map[string]any, path toml.Key) {
	cur := root
	src := raw
	for i, seg := range path {
		v, ok := src[seg]
		if !ok {
			return
		}
		child, isMap := v.(map[string]any)
		if isMap {
			existing, ok := cur.Get(seg)
			if !ok {
				next := NewTable()
				cur.Set(seg, next)
				existing = next
			}
			table, ok := existing.(*Table)
			if !ok {
				return
			}
			cur = table
			src = child
			continue
		}
		if i == len(path)-1 {
			cur.Set(seg, normalize(v))
		}
		return
	}
}

// fillMissing adds any raw keys the metadata walk did not cover, in sorted
// order, so no document content is dropped.
func fillMissing(t *Table, raw map[string]any) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := raw[k]
		if child, ok := v.(map[string]any); ok {
			existing, ok := t.Get(k)
			if !ok {
				next := NewTable()
				t.Set(k, next)
				existing = next
			}
			if table, ok := existing.(*Table); ok {
				fillMissing(table, child)
			}
			continue
		}
		if !t.Has(k) {
			t.Set(k, normalize(v))
		}
	}
}

// normalize converts decoded TOML values into the document scalar set.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Set(k, normalize(val[k]))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case int:
		return int64(val)
	default:
		return val
	}
}
