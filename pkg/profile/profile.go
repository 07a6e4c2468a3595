// Package profile parses raw configuration documents against a loaded schema,
// producing a validated, default-filled configuration and its projections
// into build-tool flags.
package profile

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/bbqsrc/cargo-pbuild/pkg/document"
	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
)

var (
	// ErrNoBinsOrLibs indicates neither profile.bins nor profile.libs is set.
	ErrNoBinsOrLibs = errors.New("either profile.bins or profile.libs must be provided")
	// ErrMissingSection indicates a required top-level section is absent.
	ErrMissingSection = errors.New("missing required section")
	// ErrMissingField indicates a required scalar field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidSection indicates a section or field has the wrong shape.
	ErrInvalidSection = errors.New("section has wrong shape")
	// ErrUnknownCategory indicates a reference to a category the schema does not declare.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownField indicates a reference to a field the category does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownProperty indicates a property name the field's schema does not declare.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrUnsupportedShape indicates a value shape the profile format does not allow.
	ErrUnsupportedShape = errors.New("unsupported value shape")
)

// Violation records one enabled field whose dependencies are not met.
type Violation struct {
	Type        schema.TypeKey
	Field       schema.FieldKey
	Requirement string
}

// DependencyError reports every enabled field with unmet dependencies.
type DependencyError struct {
	Violations []Violation
}

func (e *DependencyError) Error() string {
	out := "unmet dependencies:"
	for _, v := range e.Violations {
		out += fmt.Sprintf(" %s:%s requires %s;", v.Type, v.Field, v.Requirement)
	}
	return out[:len(out)-1]
}

// PropertyValues is an ordered mapping from property name to its typed value.
type PropertyValues = orderedmap.OrderedMap[string, schema.Value]

// FieldConfig is an ordered mapping from enabled field to its property values.
type FieldConfig = orderedmap.OrderedMap[schema.FieldKey, *PropertyValues]

// Config is the normalized configuration, keyed by external type key.
type Config = orderedmap.OrderedMap[schema.TypeKey, *FieldConfig]

// Profile is a validated, schema-conformant configuration instance. It is
// built once by Parse and immutable after.
type Profile struct {
	Spec        *schema.Spec
	Description string
	Bins        []string
	Libs        []string
	Features    []string
	Config      *Config
}

// Parse validates a raw profile document against the schema. Every referenced
// category, field, and property must exist; unset properties are back-filled
// from schema defaults; enabled fields must have their declared dependencies
// enabled in the same profile.
func Parse(spec *schema.Spec, doc *document.Table) (*Profile, error) {
	header, ok := doc.GetTable("profile")
	if !ok {
		return nil, fmt.Errorf("%w: [profile]", ErrMissingSection)
	}

	description, ok := header.GetString("description")
	if !ok {
		return nil, fmt.Errorf("%w: profile.description", ErrMissingField)
	}

	bins, err := optionalStrings(header, "bins")
	if err != nil {
		return nil, err
	}
	libs, err := optionalStrings(header, "libs")
	if err != nil {
		return nil, err
	}
	features, err := optionalStrings(header, "features")
	if err != nil {
		return nil, err
	}

	if len(bins) == 0 && len(libs) == 0 {
		return nil, ErrNoBinsOrLibs
	}

	config := orderedmap.NewOrderedMap[schema.TypeKey, *FieldConfig]()

	selections, ok := doc.GetTable("config")
	if !ok {
		return nil, fmt.Errorf("%w: [config]", ErrMissingSection)
	}
	for _, name := range selections.Keys() {
		raw, _ := selections.Get(name)
		if err := parseSelection(spec, config, schema.TypeKey(name), raw); err != nil {
			return nil, err
		}
	}

	for _, name := range doc.Keys() {
		if name == "profile" || name == "config" {
			continue
		}
		raw, _ := doc.Get(name)
		if err := parseCategorySection(spec, config, schema.TypeIndex(name), raw); err != nil {
			return nil, err
		}
	}

	if err := checkDependencies(spec, config); err != nil {
		return nil, err
	}

	return &Profile{
		Spec:        spec,
		Description: description,
		Bins:        bins,
		Libs:        libs,
		Features:    features,
		Config:      config,
	}, nil
}

func optionalStrings(header *document.Table, key string) ([]string, error) {
	raw, present := header.Get(key)
	if !present {
		return nil, nil
	}
	values, ok := document.StringArray(raw)
	if !ok {
		return nil, fmt.Errorf("%w: profile.%s must be an array of strings", ErrInvalidSection, key)
	}
	return values, nil
}

// parseSelection handles one [config] entry, keyed by external type key. A
// bare string selects that field with no properties. The nested table form is
// reserved and not yet supported.
func parseSelection(spec *schema.Spec, config *Config, key schema.TypeKey, raw any) error {
	index, _, ok := spec.TypeByKey(key)
	if !ok {
		return fmt.Errorf("%w: config.%s", ErrUnknownCategory, key)
	}

	switch v := raw.(type) {
	case string:
		fields, _ := spec.FieldsFor(index)
		field := schema.FieldKey(v)
		if _, ok := fields.Get(field); !ok {
			return fmt.Errorf("%w: config.%s selects %q", ErrUnknownField, key, v)
		}
		ensureField(config, key, field)
		return nil
	case *document.Table:
		return fmt.Errorf("%w: config.%s uses the reserved table form", ErrUnsupportedShape, key)
	default:
		return fmt.Errorf("%w: config.%s", ErrUnsupportedShape, key)
	}
}

// parseCategorySection handles one per-category block, keyed by internal type
// index. Field entries are booleans (enable with no properties) or tables of
// property values. Results merge into the config keyed by the external key.
func parseCategorySection(spec *schema.Spec, config *Config, index schema.TypeIndex, raw any) error {
	typeSpec, ok := spec.Types.Get(index)
	if !ok {
		return fmt.Errorf("%w: [%s]", ErrUnknownCategory, index)
	}
	section, ok := document.AsTable(raw)
	if !ok {
		return fmt.Errorf("%w: [%s] must be a table", ErrInvalidSection, index)
	}

	fields, _ := spec.FieldsFor(index)
	for _, name := range section.Keys() {
		field := schema.FieldKey(name)
		fieldSpec, ok := fields.Get(field)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, index, name)
		}

		entry, _ := section.Get(name)
		switch v := entry.(type) {
		case bool:
			if v {
				ensureField(config, typeSpec.Key, field)
			}
		case *document.Table:
			props, err := parseProperties(index, field, fieldSpec, v)
			if err != nil {
				return err
			}
			setField(config, typeSpec.Key, field, props)
		default:
			return fmt.Errorf("%w: %s.%s", ErrUnsupportedShape, index, name)
		}
	}
	return nil
}

// parseProperties coerces explicit property values and back-fills schema
// defaults. A malformed explicit value silently falls back to the type's zero
// value; explicit values always win over defaults.
func parseProperties(index schema.TypeIndex, field schema.FieldKey, fieldSpec schema.FieldSpec, table *document.Table) (*PropertyValues, error) {
	props := orderedmap.NewOrderedMap[string, schema.Value]()
	for _, name := range table.Keys() {
		propSpec, ok := fieldSpec.Properties.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s.%s", ErrUnknownProperty, index, field, name)
		}
		raw, _ := table.Get(name)
		value, _ := schema.CoerceWith(propSpec.Type, raw, schema.CoerceZero)
		props.Set(name, value)
	}

	for el := fieldSpec.Properties.Front(); el != nil; el = el.Next() {
		if el.Value.Default == nil {
			continue
		}
		if _, ok := props.Get(el.Key); !ok {
			props.Set(el.Key, *el.Value.Default)
		}
	}

	return props, nil
}

// ensureField marks a field enabled without touching properties it may
// already carry.
func ensureField(config *Config, key schema.TypeKey, field schema.FieldKey) *PropertyValues {
	fields, ok := config.Get(key)
	if !ok {
		fields = orderedmap.NewOrderedMap[schema.FieldKey, *PropertyValues]()
		config.Set(key, fields)
	}
	props, ok := fields.Get(field)
	if !ok {
		props = orderedmap.NewOrderedMap[string, schema.Value]()
		fields.Set(field, props)
	}
	return props
}

// setField enables a field and replaces any existing property values.
func setField(config *Config, key schema.TypeKey, field schema.FieldKey, props *PropertyValues) {
	fields, ok := config.Get(key)
	if !ok {
		fields = orderedmap.NewOrderedMap[schema.FieldKey, *PropertyValues]()
		config.Set(key, fields)
	}
	fields.Set(field, props)
}

// checkDependencies evaluates each enabled field's dependency lines against
// the set of enabled (category, field) pairs. Each unmet line yields its own
// violation so the error names only the requirements that failed.
func checkDependencies(spec *schema.Spec, config *Config) error {
	enabled := func(key schema.TypeKey, field schema.FieldKey) bool {
		fields, ok := config.Get(key)
		if !ok {
			return false
		}
		_, ok = fields.Get(field)
		return ok
	}

	var violations []Violation
	for el := config.Front(); el != nil; el = el.Next() {
		index, ok := spec.IndexForKey(el.Key)
		if !ok {
			continue
		}
		fields, _ := spec.FieldsFor(index)
		for fel := el.Value.Front(); fel != nil; fel = fel.Next() {
			fieldSpec, ok := fields.Get(fel.Key)
			if !ok {
				continue
			}
			for _, op := range fieldSpec.Dependencies.All {
				if op.Satisfied(enabled) {
					continue
				}
				violations = append(violations, Violation{
					Type:        el.Key,
					Field:       fel.Key,
					Requirement: op.String(),
				})
			}
		}
	}

	if len(violations) > 0 {
		return &DependencyError{Violations: violations}
	}
	return nil
}
