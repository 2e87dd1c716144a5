package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanSources(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "Main.purs", `module App.Main where

import Prelude
import Data.Maybe (Maybe(..), fromMaybe)
import Effect.Console as Console
import Data.Map hiding (lookup)

main :: Effect Unit
main = pure unit
`)

	info, err := ScanSources(dir)
	if err != nil {
		t.Fatalf("ScanSources error: %v", err)
	}

	if _, ok := info.Modules["App.Main"]; !ok || len(info.Modules) != 1 {
		t.Errorf("Modules = %v, want {App.Main}", info.Modules)
	}
	for _, want := range []string{"Prelude", "Data.Maybe", "Effect.Console", "Data.Map"} {
		if _, ok := info.Imports[want]; !ok {
			t.Errorf("missing import %q in %v", want, info.Imports)
		}
	}
	if len(info.Imports) != 4 {
		t.Errorf("Imports = %v", info.Imports)
	}
}

func TestScanSourcesSkipsComments(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "A.purs", `module A where

-- import Commented.Out
{- import Also.Commented -}
{-
import Block.Commented
-}
import Real.Import
`)

	info, err := ScanSources(dir)
	if err != nil {
		t.Fatalf("ScanSources error: %v", err)
	}

	if len(info.Imports) != 1 {
		t.Fatalf("Imports = %v, want only Real.Import", info.Imports)
	}
	if _, ok := info.Imports["Real.Import"]; !ok {
		t.Errorf("Imports = %v", info.Imports)
	}
}

func TestScanSourcesIgnoresIndentedAndNonSource(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "A.purs", `module A where

  import Indented.NotAnImport
`)
	writeSource(t, dir, "notes.txt", "import Not.Purescript\n")

	info, err := ScanSources(dir)
	if err != nil {
		t.Fatalf("ScanSources error: %v", err)
	}
	if len(info.Imports) != 0 {
		t.Errorf("Imports = %v, want none", info.Imports)
	}
}

func TestScanSourcesMissingDir(t *testing.T) {
	info, err := ScanSources(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing directory should scan as empty, got %v", err)
	}
	if len(info.Modules) != 0 || len(info.Imports) != 0 {
		t.Errorf("expected empty info, got %+v", info)
	}
}

func TestScanSourcesWalksNestedDirs(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, filepath.Join("Data", "Thing.purs"), "module Data.Thing where\n\nimport Prelude\n")

	info, err := ScanSources(dir)
	if err != nil {
		t.Fatalf("ScanSources error: %v", err)
	}
	if _, ok := info.Modules["Data.Thing"]; !ok {
		t.Errorf("Modules = %v", info.Modules)
	}
	if _, ok := info.Imports["Prelude"]; !ok {
		t.Errorf("Imports = %v", info.Imports)
	}
}
