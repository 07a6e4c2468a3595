package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Result describes the outcome of the workspace preflight run.
type Result struct {
	Passed bool
	Issues []string
}

// WorkspaceLayout models the workspace paths to validate, allowing tests to
// point at arbitrary directories.
type WorkspaceLayout interface {
	SpecsDir() string
	ProfilesDir() string
	MainSpecPath() (string, error)
}

// ValidateWorkspace checks the two-tier document layout before any parsing:
// the schema directory must exist and hold exactly one base schema document,
// and the profile directory must exist and hold at least one profile.
func ValidateWorkspace(ws WorkspaceLayout) Result {
	issues := []string{}

	specsDir := ws.SpecsDir()
	if !dirExists(specsDir) {
		issues = append(issues, fmt.Sprintf("schema directory missing: %s", specsDir))
	} else {
		switch mains := mainSpecCandidates(ws); len(mains) {
		case 0:
			issues = append(issues, fmt.Sprintf("no base schema document in %s", specsDir))
		case 1:
		default:
			issues = append(issues, fmt.Sprintf("multiple base schema documents: %s", strings.Join(mains, ", ")))
		}
	}

	profilesDir := ws.ProfilesDir()
	if !dirExists(profilesDir) {
		issues = append(issues, fmt.Sprintf("profile directory missing: %s", profilesDir))
	} else if !hasDocuments(profilesDir) {
		issues = append(issues, fmt.Sprintf("no profile documents in %s", profilesDir))
	}

	return Result{Passed: len(issues) == 0, Issues: issues}
}

// mainSpecCandidates finds every file matching the base schema name across
// recognized extensions.
func mainSpecCandidates(ws WorkspaceLayout) []string {
	path, err := ws.MainSpecPath()
	if err != nil {
		return nil
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	var found []string
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		candidate := base + ext
		if fileExists(candidate) {
			found = append(found, filepath.Base(candidate))
		}
	}
	return found
}

func hasDocuments(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".toml", ".yaml", ".yml":
			return true
		}
	}
	return false
}

func dirExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

func fileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}
