package workspace

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const sourceExt = ".purs"

// SourceInfo is what source scanning learns about one package directory:
// the modules its files declare and the modules they import.
type SourceInfo struct {
	Modules map[string]struct{}
	Imports map[string]struct{}
}

// ScanSources walks dir for source files and collects module
// declarations and imports. Missing directories scan as empty: a
// manifest-only package is legal.
func ScanSources(dir string) (*SourceInfo, error) {
	info := &SourceInfo{
		Modules: make(map[string]struct{}),
		Imports: make(map[string]struct{}),
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != sourceExt {
			return nil
		}
		if err := scanFile(path, info); err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// scanFile reads one source file line by line, picking out the module
// header and import statements. Line comments, block comments, and
// indented continuation lines are skipped; both declarations start in
// column zero.
func scanFile(path string, info *SourceInfo) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	inBlockComment := false
	for scanner.Scan() {
		line := scanner.Text()

		if inBlockComment {
			if idx := strings.Index(line, "-}"); idx >= 0 {
				inBlockComment = false
				line = line[idx+2:]
			} else {
				continue
			}
		}
		if idx := strings.Index(line, "{-"); idx >= 0 {
			// Single-line block comments close on the same line.
			if end := strings.Index(line[idx:], "-}"); end >= 0 {
				line = line[:idx] + line[idx+end+2:]
			} else {
				inBlockComment = true
				line = line[:idx]
			}
		}
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}

		switch {
		case strings.HasPrefix(line, "module "):
			if name := moduleName(strings.TrimPrefix(line, "module ")); name != "" {
				info.Modules[name] = struct{}{}
			}
		case strings.HasPrefix(line, "import "):
			if name := moduleName(strings.TrimPrefix(line, "import ")); name != "" {
				info.Imports[name] = struct{}{}
			}
		}
	}
	return scanner.Err()
}

// moduleName extracts the dotted module name from the remainder of a
// module or import line, stopping at the exports list, a hiding
// clause, an alias, or the where keyword.
func moduleName(rest string) string {
	rest = strings.TrimSpace(rest)
	end := len(rest)
	for i, r := range rest {
		if r == ' ' || r == '\t' || r == '(' {
			end = i
			break
		}
	}
	name := rest[:end]
	if name == "" || !validModuleName(name) {
		return ""
	}
	return name
}

// validModuleName accepts dotted segments of letters and digits, each
// starting with a letter, e.g. Data.Maybe or Effect.
func validModuleName(name string) bool {
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return false
		}
		for i, r := range seg {
			letter := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
			digit := r >= '0' && r <= '9'
			if i == 0 && !letter {
				return false
			}
			if !letter && !digit {
				return false
			}
		}
	}
	return true
}
