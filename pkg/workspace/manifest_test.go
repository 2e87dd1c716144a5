package workspace

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

const appManifest = `package:
  name: app
  dependencies:
    - prelude
    - effect
  test:
    dependencies:
      - spec
`

func TestLoadPackage(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, appManifest)
	writeSource(t, dir, filepath.Join("src", "Main.purs"), "module App.Main where\n\nimport Prelude\n")
	writeSource(t, dir, filepath.Join("test", "Main.purs"), "module Test.Main where\n\nimport Test.Spec\n")

	p, err := LoadPackage(dir)
	if err != nil {
		t.Fatalf("LoadPackage error: %v", err)
	}

	if p.Name != "app" {
		t.Errorf("Name = %q", p.Name)
	}
	if !slices.Equal(p.Dependencies, []string{"prelude", "effect", "spec"}) {
		t.Errorf("Dependencies = %v", p.Dependencies)
	}
	if _, ok := p.Modules["Test.Main"]; !ok {
		t.Errorf("test modules should be scanned, got %v", p.Modules)
	}
	if _, ok := p.Imports["Test.Spec"]; !ok {
		t.Errorf("Imports = %v", p.Imports)
	}
}

func TestLoadManifestRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "package:\n  dependencies:\n    - prelude\n")

	if _, err := LoadManifest(filepath.Join(dir, ManifestName)); err == nil {
		t.Fatal("expected an error for a nameless manifest")
	}
}

func TestDiscoverFindsNestedPackages(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "app"), "package:\n  name: app\n  dependencies:\n    - core\n")
	writeManifest(t, filepath.Join(root, "lib", "core"), "package:\n  name: core\n")
	writeManifest(t, filepath.Join(root, ".hidden", "ignored"), "package:\n  name: ignored\n")

	pkgs, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	if !slices.Equal(names, []string{"app", "core"}) {
		t.Errorf("Discover = %v, want [app core]", names)
	}
}

func TestDiscoverEmptyRoot(t *testing.T) {
	pkgs, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("expected no packages, got %d", len(pkgs))
	}
}
