package schema

import (
	"errors"
	"strings"
)

var (
	// ErrSpecMissing indicates the document has no [spec] section.
	ErrSpecMissing = errors.New("[spec] section not found")
	// ErrMissingField indicates a required scalar field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField indicates a field is present with the wrong type.
	ErrInvalidField = errors.New("field has wrong type")
	// ErrInvalidTypeEntry indicates a malformed entry under [spec.types].
	ErrInvalidTypeEntry = errors.New("invalid [spec.types] entry")
	// ErrDuplicateTypeKey indicates two type indices declare the same key.
	ErrDuplicateTypeKey = errors.New("duplicate type key")
	// ErrSectionMissing indicates a category or field section is absent or not a table.
	ErrSectionMissing = errors.New("section not found or wrong shape")
	// ErrInvalidDependency indicates a malformed dependency expression.
	ErrInvalidDependency = errors.New("invalid dependency")
	// ErrInvalidDefault indicates a property default that does not coerce to its declared type.
	ErrInvalidDefault = errors.New("default value not coercible to declared type")
)

// SectionMismatchError reports every divergence between the declared type
// catalog and the document's top-level sections in a single failure.
type SectionMismatchError struct {
	Excess  []string
	Missing []string
}

func (e *SectionMismatchError) Error() string {
	var parts []string
	if len(e.Excess) > 0 {
		parts = append(parts, "undeclared sections were found: "+strings.Join(e.Excess, ", "))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "declared types are missing sections: "+strings.Join(e.Missing, ", "))
	}
	return strings.Join(parts, "; ")
}
