package profiles_test

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bbqsrc/cargo-pbuild/cmd/cargo-pbuild/profiles"
)

func TestRunList(t *testing.T) {
	root := newWorkspace(t)
	writeFile(t, filepath.Join(root, "profiles", "release.toml"), devProfile)

	cmd, stdout, _ := newTestCommand()
	err := profiles.RunListForTest(cmd, profiles.ListOptions{}, stubDeps(root))
	if err != nil {
		t.Fatalf("RunListForTest returned error: %v", err)
	}

	names := strings.Fields(stdout.String())
	if !reflect.DeepEqual(names, []string{"dev", "release"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestRunListEmptyWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "profiles", ".keep"), "")

	cmd, stdout, _ := newTestCommand()
	err := profiles.RunListForTest(cmd, profiles.ListOptions{}, stubDeps(root))
	if err != nil {
		t.Fatalf("RunListForTest returned error: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "" {
		t.Fatalf("expected no output, got %q", stdout.String())
	}
}
