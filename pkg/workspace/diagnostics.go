package workspace

import (
	"sort"

	"github.com/purse-pm/purse/pkg/index"
)

// FindCycles reports every dependency cycle among workspace packages.
// Each cycle is a closed path starting and ending at the same package,
// e.g. [a b c a]. Detection is a depth-first search with tricolor
// marking: a gray node reached again while still on the recursion stack
// closes a cycle.
//
// Roots are visited in sorted order and children in declaration order,
// so output is deterministic. Each back edge reports one cycle; nodes
// already finished are not revisited, so a cycle shared between roots
// is reported once.
func FindCycles(g *Graph) [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.Len())
	var stack []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		stack = append(stack, node)

		for _, child := range g.internalChildren(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				// Close the path from the first occurrence of child.
				start := 0
				for i, n := range stack {
					if n == child {
						start = i
						break
					}
				}
				cycle := append([]string(nil), stack[start:]...)
				cycle = append(cycle, child)
				cycles = append(cycles, cycle)
			}
		}

		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, name := range g.names {
		if color[name] == white {
			dfs(name)
		}
	}
	return cycles
}

// BrokenDependency is a declared dependency that resolves to nothing:
// the target is neither a workspace package nor present in the registry
// index.
type BrokenDependency struct {
	Package string
	Missing string

	// Suggestion is a close-enough known name, or empty when nothing
	// plausible exists.
	Suggestion string
}

// FindBrokenDependencies checks every declared edge against the union
// of workspace names and the registry index. idx may be nil, in which
// case only the workspace resolves names. Each (package, missing)
// pair is reported once, packages in sorted order, dependencies in
// declaration order.
func FindBrokenDependencies(g *Graph, idx *index.Index) []BrokenDependency {
	candidates := g.Names()
	if idx != nil {
		candidates = append(candidates, idx.Names()...)
	}
	sort.Strings(candidates)

	var broken []BrokenDependency
	for _, name := range g.names {
		for _, e := range g.edges[name] {
			if e.Internal {
				continue
			}
			if idx != nil && idx.Has(e.To) {
				continue
			}
			broken = append(broken, BrokenDependency{
				Package:    name,
				Missing:    e.To,
				Suggestion: suggest(e.To, candidates),
			})
		}
	}
	return broken
}
