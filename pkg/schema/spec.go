// Package schema implements the typed schema model for build-configuration
// profiles: the type catalog, field catalog, property definitions, and
// dependency declarations, parsed from a generic document with exhaustive
// structural validation.
package schema

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/bbqsrc/cargo-pbuild/pkg/document"
)

// TypeKey is the external name of a category, used in profile [config]
// sections, dependency expressions, and projected flag keys.
type TypeKey string

// TypeIndex is the internal section name of a category, used as the document
// key under [spec.types] and as the top-level section header. The two
// namespaces are intentionally distinct.
type TypeIndex string

// FieldKey identifies one selectable field within a category.
type FieldKey string

// TypeSpec describes one declared category.
type TypeSpec struct {
	Key TypeKey
	// Single marks a category holding at most one selected field,
	// projected as `category = "field"` rather than `category_field = true`.
	Single bool
}

// PropSpec describes one named property attached to a field. Default, when
// present, is already coerced to Type.
type PropSpec struct {
	Type    Type
	Default *Value
}

// Properties is an ordered mapping from property name to its definition.
type Properties = orderedmap.OrderedMap[string, PropSpec]

// FieldSpec describes one selectable field.
type FieldSpec struct {
	Description  string
	Dependencies Dependencies
	Properties   *Properties
}

// Fields is an ordered mapping from field key to its definition.
type Fields = orderedmap.OrderedMap[FieldKey, FieldSpec]

// Spec is the loaded schema. It is built once by Parse, immutable after, and
// safe for concurrent read-only sharing across profile parses.
type Spec struct {
	Name   string
	Types  *orderedmap.OrderedMap[TypeIndex, TypeSpec]
	Fields *orderedmap.OrderedMap[TypeIndex, *Fields]

	byKey map[TypeKey]TypeIndex
}

// IndexForKey resolves a category's internal index from its external key.
func (s *Spec) IndexForKey(key TypeKey) (TypeIndex, bool) {
	index, ok := s.byKey[key]
	return index, ok
}

// TypeByKey resolves a category's index and declaration from its external key.
func (s *Spec) TypeByKey(key TypeKey) (TypeIndex, TypeSpec, bool) {
	index, ok := s.byKey[key]
	if !ok {
		return "", TypeSpec{}, false
	}
	spec, _ := s.Types.Get(index)
	return index, spec, true
}

// FieldsFor returns the field catalog of a category.
func (s *Spec) FieldsFor(index TypeIndex) (*Fields, bool) {
	return s.Fields.Get(index)
}

// Parse builds a Spec from a decoded document. Every failure is fatal; no
// partial Spec is ever returned.
func Parse(doc *document.Table) (*Spec, error) {
	name, types, err := parseHeader(doc)
	if err != nil {
		return nil, err
	}

	byKey := make(map[TypeKey]TypeIndex, types.Len())
	for el := types.Front(); el != nil; el = el.Next() {
		if existing, ok := byKey[el.Value.Key]; ok {
			return nil, fmt.Errorf("%w: %q declared by both %q and %q", ErrDuplicateTypeKey, el.Value.Key, existing, el.Key)
		}
		byKey[el.Value.Key] = el.Key
	}

	fields, err := parseFields(doc, types, byKey)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Name:   name,
		Types:  types,
		Fields: fields,
		byKey:  byKey,
	}, nil
}

// parseHeader extracts the name and type catalog from the [spec] section.
func parseHeader(doc *document.Table) (string, *orderedmap.OrderedMap[TypeIndex, TypeSpec], error) {
	spec, ok := doc.GetTable("spec")
	if !ok {
		return "", nil, ErrSpecMissing
	}

	rawName, ok := spec.Get("name")
	if !ok {
		return "", nil, fmt.Errorf("%w: spec.name", ErrMissingField)
	}
	name, ok := document.AsString(rawName)
	if !ok {
		return "", nil, fmt.Errorf("%w: spec.name must be a string", ErrInvalidField)
	}

	rawTypes, ok := spec.Get("types")
	if !ok {
		return "", nil, fmt.Errorf("%w: spec.types", ErrMissingField)
	}
	typesTable, ok := document.AsTable(rawTypes)
	if !ok {
		return "", nil, fmt.Errorf("%w: spec.types must be a table", ErrInvalidField)
	}

	types := orderedmap.NewOrderedMap[TypeIndex, TypeSpec]()
	for _, index := range typesTable.Keys() {
		raw, _ := typesTable.Get(index)
		switch v := raw.(type) {
		case string:
			types.Set(TypeIndex(index), TypeSpec{Key: TypeKey(v)})
		case *document.Table:
			key, ok := v.GetString("key")
			if !ok {
				return "", nil, fmt.Errorf("%w: spec.types.%s requires a string `key`", ErrInvalidTypeEntry, index)
			}
			types.Set(TypeIndex(index), TypeSpec{
				Key:    TypeKey(key),
				Single: v.Has("single"),
			})
		default:
			return "", nil, fmt.Errorf("%w: %s", ErrInvalidTypeEntry, index)
		}
	}

	return name, types, nil
}

// parseFields cross-checks the document's sections against the declared type
// catalog and parses each category's field table. The symmetric section check
// collects every violation before failing.
func parseFields(doc *document.Table, types *orderedmap.OrderedMap[TypeIndex, TypeSpec], byKey map[TypeKey]TypeIndex) (*orderedmap.OrderedMap[TypeIndex, *Fields], error) {
	var excess []string
	for _, key := range doc.Keys() {
		if key == "spec" {
			continue
		}
		if _, ok := types.Get(TypeIndex(key)); !ok {
			excess = append(excess, key)
		}
	}

	var missing []string
	for el := types.Front(); el != nil; el = el.Next() {
		if el.Key == "spec" {
			continue
		}
		if !doc.Has(string(el.Key)) {
			missing = append(missing, string(el.Key))
		}
	}

	if len(excess) > 0 || len(missing) > 0 {
		return nil, &SectionMismatchError{Excess: excess, Missing: missing}
	}

	out := orderedmap.NewOrderedMap[TypeIndex, *Fields]()
	for el := types.Front(); el != nil; el = el.Next() {
		index := el.Key
		section, ok := doc.GetTable(string(index))
		if !ok {
			return nil, fmt.Errorf("%w: [%s]", ErrSectionMissing, index)
		}

		fields := orderedmap.NewOrderedMap[FieldKey, FieldSpec]()
		for _, name := range section.Keys() {
			path := fmt.Sprintf("%s.%s", index, name)
			block, ok := section.GetTable(name)
			if !ok {
				return nil, fmt.Errorf("%w: [%s]", ErrSectionMissing, path)
			}
			spec, err := parseFieldSpec(path, block, byKey)
			if err != nil {
				return nil, err
			}
			fields.Set(FieldKey(name), spec)
		}
		out.Set(index, fields)
	}

	return out, nil
}

// parseFieldSpec parses one field's configuration block.
func parseFieldSpec(section string, block *document.Table, byKey map[TypeKey]TypeIndex) (FieldSpec, error) {
	rawDescription, ok := block.Get("description")
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: [%s] description", ErrMissingField, section)
	}
	description, ok := document.AsString(rawDescription)
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %s.description must be a string", ErrInvalidField, section)
	}

	dependencies := Dependencies{}
	if raw, present := block.Get("dependencies"); present {
		lines, ok := document.StringArray(raw)
		if !ok {
			return FieldSpec{}, fmt.Errorf("%w: %s.dependencies must be an array of strings", ErrInvalidField, section)
		}
		parsed, err := parseDependencies(section, lines, byKey)
		if err != nil {
			return FieldSpec{}, err
		}
		dependencies = parsed
	}

	properties := orderedmap.NewOrderedMap[string, PropSpec]()
	if raw, present := block.Get("properties"); present {
		table, ok := document.AsTable(raw)
		if !ok {
			return FieldSpec{}, fmt.Errorf("%w: %s.properties must be a table", ErrInvalidField, section)
		}
		for _, name := range table.Keys() {
			path := fmt.Sprintf("%s.properties.%s", section, name)
			spec, err := parsePropSpec(path, table, name)
			if err != nil {
				return FieldSpec{}, err
			}
			properties.Set(name, spec)
		}
	}

	return FieldSpec{
		Description:  description,
		Dependencies: dependencies,
		Properties:   properties,
	}, nil
}

// parsePropSpec parses one property definition. A default that fails to
// coerce to the declared type is a fatal schema error.
func parsePropSpec(path string, properties *document.Table, name string) (PropSpec, error) {
	block, ok := properties.GetTable(name)
	if !ok {
		return PropSpec{}, fmt.Errorf("%w: %s must be a table", ErrInvalidField, path)
	}

	rawType, ok := block.GetString("type")
	if !ok {
		return PropSpec{}, fmt.Errorf("%w: %s.type", ErrMissingField, path)
	}
	ty, ok := ParseType(rawType)
	if !ok {
		return PropSpec{}, fmt.Errorf("%w: %s.type names unknown type %q", ErrInvalidField, path, rawType)
	}

	spec := PropSpec{Type: ty}
	if raw, present := block.Get("default"); present {
		value, ok := Coerce(ty, raw)
		if !ok {
			return PropSpec{}, fmt.Errorf("%w: %s (declared %s)", ErrInvalidDefault, path, ty)
		}
		spec.Default = &value
	}

	return spec, nil
}
