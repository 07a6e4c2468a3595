package profile_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bbqsrc/cargo-pbuild/pkg/document"
	"github.com/bbqsrc/cargo-pbuild/pkg/profile"
	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
)

const exampleSchema = `
[spec]
name = "example"

[spec.types]
target = { key = "target", single = true }
feature = "feature"

[target.linux]
description = "Linux targets"

[target.windows]
description = "Windows targets"

[feature.logging]
description = "Structured logging"

[feature.logging.properties.level]
type = "u8"
default = 1

[feature.logging.properties.output]
type = "string"

[feature.ipc]
description = "IPC support"
dependencies = ["feature:logging"]
`

func loadSchema(t *testing.T, source string) *schema.Spec {
	t.Helper()
	doc, err := document.DecodeTOML([]byte(source))
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	spec, err := schema.Parse(doc)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return spec
}

func parseProfile(t *testing.T, spec *schema.Spec, source string) (*profile.Profile, error) {
	t.Helper()
	doc, err := document.DecodeTOML([]byte(source))
	if err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	return profile.Parse(spec, doc)
}

func mustParseProfile(t *testing.T, spec *schema.Spec, source string) *profile.Profile {
	t.Helper()
	p, err := parseProfile(t, spec, source)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return p
}

func TestParseProfileHeader(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	p := mustParseProfile(t, spec, `
[profile]
description = "Development build"
bins = ["app", "tools/helper"]
libs = ["core"]
features = ["dev"]

[config]
target = "linux"
`)

	if p.Description != "Development build" {
		t.Fatalf("unexpected description %q", p.Description)
	}
	if len(p.Bins) != 2 || p.Bins[1] != "tools/helper" {
		t.Fatalf("unexpected bins %v", p.Bins)
	}
	if len(p.Libs) != 1 || p.Libs[0] != "core" {
		t.Fatalf("unexpected libs %v", p.Libs)
	}
	if len(p.Features) != 1 || p.Features[0] != "dev" {
		t.Fatalf("unexpected features %v", p.Features)
	}
	if p.Spec != spec {
		t.Fatal("profile must reference the schema it was parsed against")
	}

	fields, ok := p.Config.Get("target")
	if !ok {
		t.Fatal("missing target entry in config")
	}
	props, ok := fields.Get("linux")
	if !ok {
		t.Fatal("missing linux field in config")
	}
	if props.Len() != 0 {
		t.Fatalf("bare selection must carry no properties, got %d", props.Len())
	}
}

func TestParseProfileRequiresBinsOrLibs(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	_, err := parseProfile(t, spec, `
[profile]
description = "Empty"

[config]
target = "linux"
`)
	if !errors.Is(err, profile.ErrNoBinsOrLibs) {
		t.Fatalf("expected ErrNoBinsOrLibs, got %v", err)
	}
}

func TestParseProfileMissingSections(t *testing.T) {
	spec := loadSchema(t, exampleSchema)

	_, err := parseProfile(t, spec, `
[config]
target = "linux"
`)
	if !errors.Is(err, profile.ErrMissingSection) {
		t.Fatalf("expected ErrMissingSection for profile, got %v", err)
	}

	_, err = parseProfile(t, spec, `
[profile]
description = "No config"
bins = ["app"]
`)
	if !errors.Is(err, profile.ErrMissingSection) {
		t.Fatalf("expected ErrMissingSection for config, got %v", err)
	}
}

func TestParseProfileMissingDescription(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	_, err := parseProfile(t, spec, `
[profile]
bins = ["app"]

[config]
target = "linux"
`)
	if !errors.Is(err, profile.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestParseProfileUnknownReferences(t *testing.T) {
	spec := loadSchema(t, exampleSchema)

	_, err := parseProfile(t, spec, `
[profile]
description = "Bad category"
bins = ["app"]

[config]
platform = "linux"
`)
	if !errors.Is(err, profile.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}

	_, err = parseProfile(t, spec, `
[profile]
description = "Bad field"
bins = ["app"]

[config]
target = "darwin"
`)
	if !errors.Is(err, profile.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	_, err = parseProfile(t, spec, `
[profile]
description = "Bad section"
bins = ["app"]

[config]
target = "linux"

[cpu]
arm = true
`)
	if !errors.Is(err, profile.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory for section, got %v", err)
	}

	_, err = parseProfile(t, spec, `
[profile]
description = "Bad field section"
bins = ["app"]

[config]
target = "linux"

[feature]
telemetry = true
`)
	if !errors.Is(err, profile.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for section entry, got %v", err)
	}
}

func TestParseProfileReservedTableForm(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	_, err := parseProfile(t, spec, `
[profile]
description = "Reserved"
bins = ["app"]

[config.target]
name = "linux"
`)
	if !errors.Is(err, profile.ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
	if !strings.Contains(err.Error(), "reserved") {
		t.Fatalf("expected reserved-form message, got %q", err.Error())
	}
}

func TestParseProfileBooleanFields(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	p := mustParseProfile(t, spec, `
[profile]
description = "Booleans"
bins = ["app"]

[config]
target = "linux"

[feature]
logging = true
`)

	features, ok := p.Config.Get("feature")
	if !ok {
		t.Fatal("missing feature entry")
	}
	props, ok := features.Get("logging")
	if !ok {
		t.Fatal("missing logging field")
	}
	// The boolean form enables the field without properties; defaults are
	// only back-filled by the table form.
	if props.Len() != 0 {
		t.Fatalf("expected no properties, got %d", props.Len())
	}
}

func TestParseProfileBooleanFalseSkipsField(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	p := mustParseProfile(t, spec, `
[profile]
description = "Disabled"
bins = ["app"]

[config]
target = "linux"

[feature]
logging = false
`)

	if _, ok := p.Config.Get("feature"); ok {
		t.Fatal("disabled field must not appear in config")
	}
}

func TestParseProfilePropertiesWithDefaults(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	p := mustParseProfile(t, spec, `
[profile]
description = "Properties"
bins = ["app"]

[config]
target = "linux"

[feature.logging]
output = "stderr"
`)

	features, _ := p.Config.Get("feature")
	props, ok := features.Get("logging")
	if !ok {
		t.Fatal("missing logging field")
	}

	output, ok := props.Get("output")
	if !ok || output != schema.NewString("stderr") {
		t.Fatalf("expected explicit output stderr, got %#v", output)
	}
	level, ok := props.Get("level")
	if !ok || level != schema.NewUint(schema.TypeU8, 1) {
		t.Fatalf("expected back-filled default level 1, got %#v", level)
	}
}

func TestParseProfileExplicitOverridesDefault(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	p := mustParseProfile(t, spec, `
[profile]
description = "Override"
bins = ["app"]

[config]
target = "linux"

[feature.logging]
level = 4
`)

	features, _ := p.Config.Get("feature")
	props, _ := features.Get("logging")
	level, _ := props.Get("level")
	if level != schema.NewUint(schema.TypeU8, 4) {
		t.Fatalf("explicit value must win over default, got %#v", level)
	}
}

func TestParseProfileMalformedValueFallsBackToZero(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	p := mustParseProfile(t, spec, `
[profile]
description = "Permissive"
bins = ["app"]

[config]
target = "linux"

[feature.logging]
level = 300
`)

	features, _ := p.Config.Get("feature")
	props, _ := features.Get("logging")
	level, _ := props.Get("level")
	if level != schema.Zero(schema.TypeU8) {
		t.Fatalf("out-of-range profile value must fall back to zero, got %#v", level)
	}
}

func TestParseProfileUnknownProperty(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	_, err := parseProfile(t, spec, `
[profile]
description = "Unknown prop"
bins = ["app"]

[config]
target = "linux"

[feature.logging]
verbosity = 2
`)
	if !errors.Is(err, profile.ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestParseProfileUnsupportedFieldShape(t *testing.T) {
	spec := loadSchema(t, exampleSchema)
	_, err := parseProfile(t, spec, `
[profile]
description = "Bad shape"
bins = ["app"]

[config]
target = "linux"

[feature]
logging = "yes"
`)
	if !errors.Is(err, profile.ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
}

func TestParseProfileDependenciesEnforced(t *testing.T) {
	spec := loadSchema(t, exampleSchema)

	_, err := parseProfile(t, spec, `
[profile]
description = "Missing dependency"
bins = ["app"]

[config]
target = "linux"

[feature]
ipc = true
`)
	var depErr *profile.DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if len(depErr.Violations) != 1 {
		t.Fatalf("expected one violation, got %d", len(depErr.Violations))
	}
	violation := depErr.Violations[0]
	if violation.Type != "feature" || violation.Field != "ipc" {
		t.Fatalf("unexpected violation %#v", violation)
	}
	if !strings.Contains(err.Error(), "feature:logging") {
		t.Fatalf("expected requirement in message, got %q", err.Error())
	}

	p := mustParseProfile(t, spec, `
[profile]
description = "Satisfied dependency"
bins = ["app"]

[config]
target = "linux"

[feature]
logging = true
ipc = true
`)
	features, _ := p.Config.Get("feature")
	if _, ok := features.Get("ipc"); !ok {
		t.Fatal("ipc should be enabled once its dependency is met")
	}
}

func TestParseProfileDependencyViolationNamesUnmetLine(t *testing.T) {
	spec := loadSchema(t, `
[spec]
name = "example"

[spec.types]
feature = "feature"

[feature.logging]
description = "Structured logging"

[feature.cache]
description = "On-disk cache"

[feature.ipc]
description = "IPC support"
dependencies = ["feature:logging", "feature:cache"]
`)

	_, err := parseProfile(t, spec, `
[profile]
description = "Partially met"
bins = ["app"]

[config]

[feature]
logging = true
ipc = true
`)
	var depErr *profile.DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if len(depErr.Violations) != 1 {
		t.Fatalf("expected one violation, got %d", len(depErr.Violations))
	}
	violation := depErr.Violations[0]
	if violation.Requirement != "feature:cache" {
		t.Fatalf("violation must name only the unmet line, got %q", violation.Requirement)
	}
	if strings.Contains(err.Error(), "feature:logging") {
		t.Fatalf("message must not name satisfied lines, got %q", err.Error())
	}
}

func TestParseProfileKeyedByTypeKeyNotIndex(t *testing.T) {
	spec := loadSchema(t, `
[spec]
name = "aliased"

[spec.types]
tgt = { key = "target", single = true }

[tgt.linux]
description = "Linux"
`)

	p := mustParseProfile(t, spec, `
[profile]
description = "Aliased"
bins = ["app"]

[config]

[tgt]
linux = true
`)

	if _, ok := p.Config.Get("tgt"); ok {
		t.Fatal("config must not be keyed by internal index")
	}
	if _, ok := p.Config.Get("target"); !ok {
		t.Fatal("config must be keyed by external type key")
	}
}
