package schema

import (
	"fmt"
	"strings"
)

// Dep references a single field of another category by its external type key.
type Dep struct {
	Type  TypeKey
	Field FieldKey
}

func (d Dep) String() string {
	return fmt.Sprintf("%s:%s", d.Type, d.Field)
}

// Satisfied reports whether the referenced field is enabled.
func (d Dep) Satisfied(enabled func(TypeKey, FieldKey) bool) bool {
	return enabled(d.Type, d.Field)
}

// Or is a disjunction of leaf dependencies, one per "A OR B" source line.
type Or []Dep

func (o Or) String() string {
	parts := make([]string, len(o))
	for i, d := range o {
		parts[i] = d.String()
	}
	return strings.Join(parts, " OR ")
}

// Satisfied reports whether any alternative is enabled.
func (o Or) Satisfied(enabled func(TypeKey, FieldKey) bool) bool {
	for _, d := range o {
		if d.Satisfied(enabled) {
			return true
		}
	}
	return false
}

// DependencyOp is one parsed dependency expression.
type DependencyOp interface {
	fmt.Stringer
	Satisfied(enabled func(TypeKey, FieldKey) bool) bool
}

// Dependencies is the conjunction of a field's dependency lines. The zero
// value has no requirements and is always satisfied.
type Dependencies struct {
	All []DependencyOp
}

func (d Dependencies) String() string {
	parts := make([]string, len(d.All))
	for i, op := range d.All {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

// Satisfied reports whether every dependency line holds.
func (d Dependencies) Satisfied(enabled func(TypeKey, FieldKey) bool) bool {
	for _, op := range d.All {
		if !op.Satisfied(enabled) {
			return false
		}
	}
	return true
}

// parseDep splits "type:field" and resolves the type against the key index.
func parseDep(section, input string, byKey map[TypeKey]TypeIndex) (Dep, error) {
	parts := strings.Split(input, ":")
	if len(parts) != 2 {
		return Dep{}, fmt.Errorf("%w: %q in [%s] must have the form type:field", ErrInvalidDependency, input, section)
	}
	key := TypeKey(parts[0])
	if _, ok := byKey[key]; !ok {
		return Dep{}, fmt.Errorf("%w: %q in [%s] references unknown type key %q", ErrInvalidDependency, input, section, key)
	}
	return Dep{Type: key, Field: FieldKey(parts[1])}, nil
}

// parseDependencies builds the per-field conjunction from raw source lines.
// A line containing the OR token becomes a disjunction of its trimmed segments.
func parseDependencies(section string, raw []string, byKey map[TypeKey]TypeIndex) (Dependencies, error) {
	ops := make([]DependencyOp, 0, len(raw))
	for _, line := range raw {
		if strings.Contains(line, "OR") {
			segments := strings.Split(line, "OR")
			alternatives := make(Or, 0, len(segments))
			for _, segment := range segments {
				dep, err := parseDep(section, strings.TrimSpace(segment), byKey)
				if err != nil {
					return Dependencies{}, err
				}
				alternatives = append(alternatives, dep)
			}
			ops = append(ops, alternatives)
			continue
		}
		dep, err := parseDep(section, line, byKey)
		if err != nil {
			return Dependencies{}, err
		}
		ops = append(ops, dep)
	}
	return Dependencies{All: ops}, nil
}
