package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const e2eSchema = `
[spec]
name = "example"

[spec.types]
target = { key = "target", single = true }
feature = "feature"

[target.linux]
description = "Linux targets"

[feature.logging]
description = "Structured logging"

[feature.logging.properties.level]
type = "u8"
default = 1
`

const e2eProfile = `
[profile]
description = "Development build"
bins = ["app", "tools/helper"]
features = ["dev"]

[config]
target = "linux"

[feature.logging]
level = 3
`

func newE2EWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "specs", "main.toml"), e2eSchema)
	writeFile(t, filepath.Join(root, "profiles", "dev.toml"), e2eProfile)
	return root
}

func TestFlagsProjectionWorkflow(t *testing.T) {
	if os.Getenv("PBUILD_E2E") == "" {
		t.Skip("skip projection e2e: set PBUILD_E2E=1")
	}

	workspace := newE2EWorkspace(t)

	out, err := pbuildCommand(t, workspace, "flags", "dev").CombinedOutput()
	if err != nil {
		t.Fatalf("flags command failed: %v\n%s", err, out)
	}

	got := strings.TrimSpace(string(out))
	want := `--cfg 'target="linux"' --cfg 'feature_logging' --cfg 'feature_logging_level=3'`
	if got != want {
		t.Fatalf("unexpected projection %q, want %q", got, want)
	}
}

func TestCargoProjectionWorkflow(t *testing.T) {
	if os.Getenv("PBUILD_E2E") == "" {
		t.Skip("skip projection e2e: set PBUILD_E2E=1")
	}

	workspace := newE2EWorkspace(t)

	out, err := pbuildCommand(t, workspace, "cargo", "dev").CombinedOutput()
	if err != nil {
		t.Fatalf("cargo command failed: %v\n%s", err, out)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two argument groups, got %v", lines)
	}
	if lines[0] != `--bin app --features "dev"` {
		t.Fatalf("unexpected first group %q", lines[0])
	}
	if lines[1] != `--package tools --bin helper --features "dev"` {
		t.Fatalf("unexpected second group %q", lines[1])
	}
}

func TestValidateWorkflow(t *testing.T) {
	if os.Getenv("PBUILD_E2E") == "" {
		t.Skip("skip validation e2e: set PBUILD_E2E=1")
	}

	workspace := newE2EWorkspace(t)

	out, err := pbuildCommand(t, workspace, "validate").CombinedOutput()
	if err != nil {
		t.Fatalf("validate command failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), `schema "example" ok`) {
		t.Fatalf("unexpected output %q", out)
	}
}
