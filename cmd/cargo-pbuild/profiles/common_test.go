package profiles_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/bbqsrc/cargo-pbuild/cmd/cargo-pbuild/profiles"
	"github.com/bbqsrc/cargo-pbuild/internal/config"
)

const workspaceSchema = `
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

[feature.ipc]
description = "IPC support"
dependencies = ["feature:logging"]
`

const devProfile = `
[profile]
description = "Development build"
bins = ["app"]
features = ["dev"]

[config]
target = "linux"

[feature]
logging = true
`

const brokenProfile = `
[profile]
description = "Unmet dependency"
bins = ["app"]

[config]
target = "linux"

[feature]
ipc = true
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newWorkspace builds an on-disk workspace with one schema and one profile.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "specs", "main.toml"), workspaceSchema)
	writeFile(t, filepath.Join(root, "profiles", "dev.toml"), devProfile)
	return root
}

// stubDeps wires discovery straight to the given directory.
func stubDeps(root string) profiles.Deps {
	return profiles.Deps{
		Locate: func(string) (config.LocationResult, error) {
			return config.LocationResult{Path: root, Source: config.WorkspaceSourceExplicit}, nil
		},
		Open: config.OpenWorkspace,
	}
}

// newTestCommand builds a bare command with captured output streams.
func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd, stdout, stderr
}
