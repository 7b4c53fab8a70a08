package arbor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jward/arbor/internal/ast"
)

// ProjectManifest describes one project: its member source files and its
// external dependency identifiers. File paths are relative to the manifest's
// directory.
type ProjectManifest struct {
	Name         string   `yaml:"name"`
	Files        []string `yaml:"files"`
	Dependencies []string `yaml:"dependencies"`

	path string
}

// SolutionManifest describes a multi-project solution: the member project
// manifests, relative to the solution manifest's directory.
type SolutionManifest struct {
	Name     string   `yaml:"name"`
	Projects []string `yaml:"projects"`

	path string
}

// LoadProjectManifest reads and parses a project manifest. A missing or
// malformed manifest is a ManifestError, fatal to the project it describes.
func LoadProjectManifest(path string) (*ProjectManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ast.ManifestError{Path: path, Err: err}
	}
	var m ProjectManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ast.ManifestError{Path: path, Err: fmt.Errorf("malformed yaml: %w", err)}
	}
	m.path = path
	if m.Name == "" {
		m.Name = manifestStem(path)
	}
	return &m, nil
}

// LoadSolutionManifest reads and parses a solution manifest.
func LoadSolutionManifest(path string) (*SolutionManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ast.ManifestError{Path: path, Err: err}
	}
	var m SolutionManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ast.ManifestError{Path: path, Err: fmt.Errorf("malformed yaml: %w", err)}
	}
	m.path = path
	if m.Name == "" {
		m.Name = manifestStem(path)
	}
	return &m, nil
}

// Path returns the manifest's own location on disk.
func (m *ProjectManifest) Path() string { return m.path }

// FilePaths returns the member file paths resolved against the manifest's
// directory, in manifest order.
func (m *ProjectManifest) FilePaths() []string {
	return resolveAll(filepath.Dir(m.path), m.Files)
}

// Path returns the manifest's own location on disk.
func (m *SolutionManifest) Path() string { return m.path }

// ProjectPaths returns the member project manifest paths resolved against
// the solution manifest's directory, in manifest order.
func (m *SolutionManifest) ProjectPaths() []string {
	return resolveAll(filepath.Dir(m.path), m.Projects)
}

func resolveAll(dir string, rels []string) []string {
	paths := make([]string, 0, len(rels))
	for _, rel := range rels {
		if filepath.IsAbs(rel) {
			paths = append(paths, rel)
			continue
		}
		paths = append(paths, filepath.Join(dir, rel))
	}
	return paths
}

// manifestStem derives a default name from the manifest filename.
func manifestStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
