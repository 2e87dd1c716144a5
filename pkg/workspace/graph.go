package workspace

import (
	"sort"
)

// Edge is one declared dependency from a workspace package to a target,
// which may or may not itself be in the workspace.
type Edge struct {
	From string
	To   string

	// Internal is true when To is also a workspace package.
	Internal bool

	// Used is true when From's sources import a module defined by To.
	// Only meaningful for internal edges: usage of external targets
	// cannot be established without their sources.
	Used bool
}

// Graph is the workspace dependency graph. Nodes are local packages,
// edges are manifest declarations annotated with source-level evidence.
type Graph struct {
	nodes map[string]*Package
	names []string

	// edges per package, in declaration order with duplicates removed.
	edges map[string][]Edge

	// undeclared maps a package to workspace packages it imports modules
	// from without declaring them as dependencies. Sorted.
	undeclared map[string][]string

	// unresolved maps a package to imported module names that no
	// workspace package defines. Sorted. These are either registry
	// dependencies or genuinely missing modules; the graph cannot tell
	// without registry sources, so they are surfaced as-is.
	unresolved map[string][]string
}

// BuildGraph assembles the workspace graph from discovered packages.
// Package names must be unique; a duplicate yields ErrDuplicatePackage.
//
// Edges follow manifest declarations in declaration order, deduplicated.
// Imports are attributed back to workspace packages through the module
// table the packages themselves define: an internal edge is marked Used
// when a corroborating import exists, and imports of workspace packages
// that were never declared are recorded separately.
func BuildGraph(pkgs []*Package) (*Graph, error) {
	g := &Graph{
		nodes:      make(map[string]*Package, len(pkgs)),
		edges:      make(map[string][]Edge, len(pkgs)),
		undeclared: make(map[string][]string),
		unresolved: make(map[string][]string),
	}

	for _, pkg := range pkgs {
		if _, exists := g.nodes[pkg.Name]; exists {
			return nil, &ErrDuplicatePackage{Name: pkg.Name}
		}
		g.nodes[pkg.Name] = pkg
		g.names = append(g.names, pkg.Name)
	}
	sort.Strings(g.names)

	// Module table: which workspace package defines which module.
	modules := make(map[string]string)
	for _, pkg := range pkgs {
		for mod := range pkg.Modules {
			modules[mod] = pkg.Name
		}
	}

	for _, pkg := range pkgs {
		// Resolve this package's imports to workspace packages.
		imported := make(map[string]struct{})
		var unresolved []string
		for mod := range pkg.Imports {
			owner, ok := modules[mod]
			if !ok {
				unresolved = append(unresolved, mod)
				continue
			}
			if owner != pkg.Name {
				imported[owner] = struct{}{}
			}
		}
		sort.Strings(unresolved)
		if len(unresolved) > 0 {
			g.unresolved[pkg.Name] = unresolved
		}

		declared := make(map[string]struct{}, len(pkg.Dependencies))
		for _, dep := range pkg.Dependencies {
			if _, dup := declared[dep]; dup {
				continue
			}
			declared[dep] = struct{}{}

			_, internal := g.nodes[dep]
			_, used := imported[dep]
			g.edges[pkg.Name] = append(g.edges[pkg.Name], Edge{
				From:     pkg.Name,
				To:       dep,
				Internal: internal,
				Used:     internal && used,
			})
		}

		var undeclared []string
		for target := range imported {
			if _, ok := declared[target]; !ok {
				undeclared = append(undeclared, target)
			}
		}
		sort.Strings(undeclared)
		if len(undeclared) > 0 {
			g.undeclared[pkg.Name] = undeclared
		}
	}

	return g, nil
}

// Names returns workspace package names in lexicographic order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.names...)
}

// Node returns the package registered under name.
func (g *Graph) Node(name string) (*Package, bool) {
	pkg, ok := g.nodes[name]
	return pkg, ok
}

// Len returns the number of workspace packages.
func (g *Graph) Len() int { return len(g.nodes) }

// Edges returns name's declared dependencies in declaration order.
func (g *Graph) Edges(name string) []Edge {
	return append([]Edge(nil), g.edges[name]...)
}

// internalChildren returns the workspace targets of name's declared
// edges, in declaration order. External targets cannot participate in
// workspace cycles and are skipped.
func (g *Graph) internalChildren(name string) []string {
	var children []string
	for _, e := range g.edges[name] {
		if e.Internal {
			children = append(children, e.To)
		}
	}
	return children
}

// UsedButUndeclared returns the workspace packages whose modules name
// imports without declaring a dependency on them.
func (g *Graph) UsedButUndeclared(name string) []string {
	return append([]string(nil), g.undeclared[name]...)
}

// DeclaredButUnused returns name's internal dependencies that no source
// import corroborates.
func (g *Graph) DeclaredButUnused(name string) []string {
	var unused []string
	for _, e := range g.edges[name] {
		if e.Internal && !e.Used {
			unused = append(unused, e.To)
		}
	}
	sort.Strings(unused)
	return unused
}

// UnresolvedImports returns imported module names that no workspace
// package defines.
func (g *Graph) UnresolvedImports(name string) []string {
	return append([]string(nil), g.unresolved[name]...)
}
