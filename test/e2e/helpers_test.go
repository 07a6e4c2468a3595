package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func projectRoot(t *testing.T) string {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(cwd, "..", ".."))
}

// pbuildCommand runs the CLI via `go run` with the CARGO guard satisfied.
func pbuildCommand(t *testing.T, workspace string, args ...string) *exec.Cmd {
	t.Helper()
	run := append([]string{"run", "./cmd/cargo-pbuild"}, args...)
	run = append(run, "--workspace", workspace)
	cmd := exec.Command("go", run...)
	cmd.Dir = projectRoot(t)
	cmd.Env = append(os.Environ(), "CARGO=cargo")
	return cmd
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
