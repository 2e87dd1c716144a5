package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file that marks a directory as a workspace
// package.
const ManifestName = "purse.yaml"

// Manifest mirrors the on-disk package manifest.
type Manifest struct {
	Package struct {
		Name         string   `yaml:"name"`
		Dependencies []string `yaml:"dependencies"`
		Test         struct {
			Dependencies []string `yaml:"dependencies"`
		} `yaml:"test"`
	} `yaml:"package"`
}

// LoadManifest parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: manifest has no package name", path)
	}
	return &m, nil
}

// LoadPackage reads the manifest in dir and scans its sources, yielding
// a graph-ready package. Test dependencies count as dependencies: the
// workspace graph does not distinguish build phases.
func LoadPackage(dir string) (*Package, error) {
	m, err := LoadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}

	deps := append([]string(nil), m.Package.Dependencies...)
	deps = append(deps, m.Package.Test.Dependencies...)

	// Sources live under src/ and test/; other subdirectories may hold
	// nested packages and are not this package's code.
	info := &SourceInfo{
		Modules: make(map[string]struct{}),
		Imports: make(map[string]struct{}),
	}
	for _, sub := range []string{"src", "test"} {
		part, err := ScanSources(filepath.Join(dir, sub))
		if err != nil {
			return nil, err
		}
		for mod := range part.Modules {
			info.Modules[mod] = struct{}{}
		}
		for mod := range part.Imports {
			info.Imports[mod] = struct{}{}
		}
	}

	return &Package{
		Name:         m.Package.Name,
		Dependencies: deps,
		Modules:      info.Modules,
		Imports:      info.Imports,
		Dir:          dir,
	}, nil
}

// Discover walks root for manifest files and loads every package found.
// Nested packages are allowed; the walk does not descend into hidden
// directories. Results are ordered by directory path so repeated runs
// agree.
func Discover(root string) ([]*Package, error) {
	var pkgs []*Package
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && len(name) > 0 && name[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != ManifestName {
			return nil
		}
		pkg, err := LoadPackage(filepath.Dir(path))
		if err != nil {
			return err
		}
		pkgs = append(pkgs, pkg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}
