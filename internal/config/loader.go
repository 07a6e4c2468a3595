package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bbqsrc/cargo-pbuild/pkg/document"
	"github.com/bbqsrc/cargo-pbuild/pkg/profile"
	"github.com/bbqsrc/cargo-pbuild/pkg/schema"
)

var (
	// ErrMainSpecNotFound indicates the base schema document is absent.
	ErrMainSpecNotFound = errors.New("main schema document not found")
	// ErrProfileNotFound indicates a named profile document is absent.
	ErrProfileNotFound = errors.New("profile document not found")
)

// documentExtensions lists the recognized file extensions in lookup order.
var documentExtensions = []string{".toml", ".yaml", ".yml"}

// Workspace provides access to the schema and profile documents of one
// discovered workspace directory.
type Workspace struct {
	Root     string
	Manifest Manifest
}

// OpenWorkspace opens a workspace directory and reads its optional manifest.
func OpenWorkspace(root string) (*Workspace, error) {
	if !isDir(root) {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, root)
	}
	manifest, err := loadManifest(root)
	if err != nil {
		return nil, err
	}
	return &Workspace{Root: root, Manifest: manifest}, nil
}

// SpecsDir returns the absolute schema document directory.
func (w *Workspace) SpecsDir() string {
	return filepath.Join(w.Root, w.Manifest.SpecsDir)
}

// ProfilesDir returns the absolute profile document directory.
func (w *Workspace) ProfilesDir() string {
	return filepath.Join(w.Root, w.Manifest.ProfilesDir)
}

// MainSpecPath resolves the base schema document by convention: the manifest's
// main spec name with any recognized extension.
func (w *Workspace) MainSpecPath() (string, error) {
	base := filepath.Join(w.SpecsDir(), w.Manifest.MainSpec)
	for _, ext := range documentExtensions {
		path := base + ext
		if fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s.*", ErrMainSpecNotFound, base)
}

// LoadSpec parses the base schema document.
func (w *Workspace) LoadSpec() (*schema.Spec, error) {
	path, err := w.MainSpecPath()
	if err != nil {
		return nil, err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	spec, err := schema.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", path, err)
	}
	return spec, nil
}

// ProfilePath resolves a named profile document.
func (w *Workspace) ProfilePath(name string) (string, error) {
	base := filepath.Join(w.ProfilesDir(), name)
	for _, ext := range documentExtensions {
		path := base + ext
		if fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// LoadProfile parses a named profile document against the schema.
func (w *Workspace) LoadProfile(spec *schema.Spec, name string) (*profile.Profile, error) {
	path, err := w.ProfilePath(name)
	if err != nil {
		return nil, err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	parsed, err := profile.Parse(spec, doc)
	if err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", path, err)
	}
	return parsed, nil
}

// Profiles lists the available profile names, sorted.
func (w *Workspace) Profiles() ([]string, error) {
	entries, err := os.ReadDir(w.ProfilesDir())
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	seen := map[string]bool{}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !recognizedExtension(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func recognizedExtension(ext string) bool {
	for _, known := range documentExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// loadDocument reads a document file and decodes it by extension.
func loadDocument(path string) (*document.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", path, err)
	}
	format, err := document.FormatForPath(path)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse document %q: %w", path, err)
	}
	return doc, nil
}

func fileExists(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !stat.IsDir()
}
