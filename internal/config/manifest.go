package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFileName is the optional workspace manifest adjusting the layout.
const ManifestFileName = "pbuild.toml"

// Manifest configures where schema and profile documents live within the
// workspace. Missing entries keep the conventional layout.
type Manifest struct {
	SpecsDir    string `toml:"specs_dir"`
	ProfilesDir string `toml:"profiles_dir"`
	MainSpec    string `toml:"main_spec"`
}

func defaultManifest() Manifest {
	return Manifest{
		SpecsDir:    "specs",
		ProfilesDir: "profiles",
		MainSpec:    "main",
	}
}

// loadManifest reads the optional pbuild.toml at the workspace root.
func loadManifest(root string) (Manifest, error) {
	manifest := defaultManifest()

	data, err := os.ReadFile(filepath.Join(root, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return manifest, nil
		}
		return Manifest{}, fmt.Errorf("read workspace manifest: %w", err)
	}

	var overrides Manifest
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return Manifest{}, fmt.Errorf("parse workspace manifest: %w", err)
	}

	if overrides.SpecsDir != "" {
		manifest.SpecsDir = overrides.SpecsDir
	}
	if overrides.ProfilesDir != "" {
		manifest.ProfilesDir = overrides.ProfilesDir
	}
	if overrides.MainSpec != "" {
		manifest.MainSpec = overrides.MainSpec
	}

	return manifest, nil
}
