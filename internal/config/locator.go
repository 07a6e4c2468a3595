package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorkspaceSource identifies where the workspace directory was discovered.
type WorkspaceSource string

const (
	WorkspaceSourceExplicit   WorkspaceSource = "explicit"
	WorkspaceSourceEnv        WorkspaceSource = "env"
	WorkspaceSourceWorkingDir WorkspaceSource = "working-dir"
	WorkspaceSourceXDG        WorkspaceSource = "xdg"
	WorkspaceSourceHome       WorkspaceSource = "home"
)

// LocationResult describes the discovered workspace directory.
type LocationResult struct {
	Path   string
	Source WorkspaceSource
}

// ErrWorkspaceNotFound is returned when no workspace directory can be located.
var ErrWorkspaceNotFound = errors.New("pbuild workspace not found")

// LocateWorkspace discovers the workspace directory following the precedence
// rules: explicit path → PBUILD_CONFIG → ./pbuild → XDG config → ~/.config/pbuild.
func LocateWorkspace(explicitPath string) (LocationResult, error) {
	if path := strings.TrimSpace(explicitPath); path != "" {
		clean := filepath.Clean(path)
		abs, err := toAbsolute(clean)
		if err != nil {
			return LocationResult{}, err
		}
		if isDir(abs) {
			return LocationResult{Path: abs, Source: WorkspaceSourceExplicit}, nil
		}
		return LocationResult{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, abs)
	}

	if path, ok := os.LookupEnv("PBUILD_CONFIG"); ok && strings.TrimSpace(path) != "" {
		abs, err := toAbsolute(path)
		if err != nil {
			return LocationResult{}, err
		}
		if isDir(abs) {
			return LocationResult{Path: abs, Source: WorkspaceSourceEnv}, nil
		}
		return LocationResult{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, abs)
	}

	if wd, err := os.Getwd(); err == nil {
		path := filepath.Join(wd, "pbuild")
		if isDir(path) {
			return LocationResult{Path: path, Source: WorkspaceSourceWorkingDir}, nil
		}
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		path := filepath.Join(xdg, "pbuild")
		if isDir(path) {
			return LocationResult{Path: path, Source: WorkspaceSourceXDG}, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		path := filepath.Join(home, ".config", "pbuild")
		if isDir(path) {
			return LocationResult{Path: path, Source: WorkspaceSourceHome}, nil
		}
	}

	return LocationResult{}, ErrWorkspaceNotFound
}

func toAbsolute(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}
	return abs, nil
}

func isDir(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return stat.IsDir()
}
