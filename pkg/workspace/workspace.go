// Package workspace analyzes a local multi-package workspace: it builds a
// dependency graph from parsed manifests and source imports, and diagnoses
// circular and broken dependencies over it.
//
// The workspace graph is distinct from the registry graph: nodes are local
// packages under development, edges come from manifest declarations, and
// source-level imports corroborate (or contradict) those declarations.
// Everything here is ephemeral, rebuilt per invocation.
package workspace

import "fmt"

// ErrDuplicatePackage is returned by BuildGraph when two workspace packages
// share a name. Workspace names must be unique; this is fatal for all
// workspace-graph operations.
type ErrDuplicatePackage struct {
	Name string
}

func (e *ErrDuplicatePackage) Error() string {
	return fmt.Sprintf("duplicate workspace package %q", e.Name)
}

// Package is one local package: its manifest-declared dependencies plus
// what its sources actually define and import.
type Package struct {
	// Name from the manifest.
	Name string

	// Dependencies as declared in the manifest, in declaration order.
	Dependencies []string

	// Modules defined by this package's sources. Used to attribute
	// imports in other packages back to this one.
	Modules map[string]struct{}

	// Imports referenced by this package's sources (module names).
	Imports map[string]struct{}

	// Dir is where the package was discovered, for messages.
	Dir string
}
