package index

import (
	"fmt"
	"sort"
)

// ErrUnknownPackage is returned by resolver queries for names absent from
// the index.
type ErrUnknownPackage struct {
	Name string
}

func (e *ErrUnknownPackage) Error() string {
	return fmt.Sprintf("package %q not found in package set", e.Name)
}

// Resolver answers dependency queries over a built index. All methods are
// read-only and safe for concurrent use.
type Resolver struct {
	idx *Index
}

// NewResolver creates a resolver over idx.
func NewResolver(idx *Index) *Resolver {
	return &Resolver{idx: idx}
}

// Direct returns name's declared dependencies in declaration order, with
// duplicates removed.
func (r *Resolver) Direct(name string) ([]string, error) {
	rec, ok := r.idx.Get(name)
	if !ok {
		return nil, &ErrUnknownPackage{Name: name}
	}

	seen := make(map[string]struct{}, len(rec.Dependencies))
	deps := make([]string, 0, len(rec.Dependencies))
	for _, dep := range rec.Dependencies {
		if _, dup := seen[dep]; dup {
			continue
		}
		seen[dep] = struct{}{}
		deps = append(deps, dep)
	}
	return deps, nil
}

// Transitive returns every package reachable from name by following
// declared-dependency edges, excluding name itself. The traversal is
// breadth-first with a visited set, so diamonds are visited once and
// cycles in the underlying data terminate. Dangling dependency names are
// included in the result; they simply have no further edges to follow.
// The result is sorted for deterministic output.
func (r *Resolver) Transitive(name string) ([]string, error) {
	if !r.idx.Has(name) {
		return nil, &ErrUnknownPackage{Name: name}
	}

	visited := map[string]struct{}{name: {}}
	queue := []string{name}
	var closure []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		rec, ok := r.idx.Get(current)
		if !ok {
			continue
		}
		for _, dep := range rec.Dependencies {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			closure = append(closure, dep)
			queue = append(queue, dep)
		}
	}

	sort.Strings(closure)
	return closure, nil
}

// Reverse returns the packages that directly declare name as a dependency,
// sorted. It is a lookup into the precomputed reverse-adjacency table, not
// a transitive closure.
func (r *Resolver) Reverse(name string) ([]string, error) {
	if !r.idx.Has(name) {
		return nil, &ErrUnknownPackage{Name: name}
	}

	dependants := r.idx.reverse[name]
	result := make([]string, 0, len(dependants))
	for dep := range dependants {
		result = append(result, dep)
	}
	sort.Strings(result)
	return result, nil
}
