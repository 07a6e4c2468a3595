package document

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errYAMLRoot = errors.New("yaml document root must be a mapping")

// DecodeYAML parses YAML bytes into a Table. The node API is used instead of
// plain unmarshalling because mapping nodes retain document key order.
func DecodeYAML(data []byte) (*Table, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewTable(), nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errYAMLRoot
	}
	return yamlTable(doc)
}

func yamlTable(n *yaml.Node) (*Table, error) {
	t := NewTable()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		value, err := yamlValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		t.Set(key, value)
	}
	return t, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return yamlTable(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		var out any
		if err := n.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode yaml scalar at line %d: %w", n.Line, err)
		}
		return normalize(out), nil
	default:
		return nil, fmt.Errorf("unsupported yaml node kind at line %d", n.Line)
	}
}
