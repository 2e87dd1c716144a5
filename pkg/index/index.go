// Package index builds fast query structures over one resolved package set.
//
// An Index is built in a single pass and is immutable afterwards, so it can
// be shared freely across concurrent lookups, searches, and dependency
// traversals. It is rebuilt from scratch whenever a package set is loaded;
// nothing here is persisted.
package index

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/purse-pm/purse/pkg/packset"
)

// Index provides O(1) lookup and reverse-dependency queries over a
// package set.
type Index struct {
	set packset.PackageSet

	// reverse maps a dependency name to the set of packages that declare
	// it directly. Keys may name packages absent from the set: dangling
	// dependency references still get reverse edges, which is what makes
	// them diagnosable.
	reverse map[string]map[string]struct{}

	statsOnce sync.Once
	stats     Stats
}

// Build constructs an index over set in one linear pass.
func Build(set packset.PackageSet) *Index {
	idx := &Index{
		set:     set,
		reverse: make(map[string]map[string]struct{}, len(set)),
	}
	for name, rec := range set {
		for _, dep := range rec.Dependencies {
			dependants, ok := idx.reverse[dep]
			if !ok {
				dependants = make(map[string]struct{})
				idx.reverse[dep] = dependants
			}
			dependants[name] = struct{}{}
		}
	}
	return idx
}

// Len returns the number of packages in the index.
func (idx *Index) Len() int { return len(idx.set) }

// Get looks up a package by exact name.
func (idx *Index) Get(name string) (packset.PackageRecord, bool) {
	rec, ok := idx.set[name]
	return rec, ok
}

// Has reports whether name exists in the indexed set.
func (idx *Index) Has(name string) bool {
	_, ok := idx.set[name]
	return ok
}

// GetMany looks up several packages, preserving argument order. Absent
// names yield ok=false at the corresponding position.
func (idx *Index) GetMany(names []string) []Lookup {
	results := make([]Lookup, len(names))
	for i, name := range names {
		rec, ok := idx.set[name]
		results[i] = Lookup{Name: name, Record: rec, Found: ok}
	}
	return results
}

// Lookup is one GetMany result.
type Lookup struct {
	Name   string
	Record packset.PackageRecord
	Found  bool
}

// Search returns packages whose name contains query, case-insensitively,
// ordered lexicographically by name.
func (idx *Index) Search(query string) []packset.PackageRecord {
	query = strings.ToLower(query)
	var matches []packset.PackageRecord
	for name, rec := range idx.set {
		if strings.Contains(strings.ToLower(name), query) {
			matches = append(matches, rec)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches
}

// Names returns all indexed package names in lexicographic order.
func (idx *Index) Names() []string {
	return idx.set.Names()
}

// Stats summarizes the dependency structure of the indexed set.
type Stats struct {
	TotalPackages int
	TotalEdges    int
	AvgDeps       float64
	MinDeps       int
	MaxDeps       int
	ZeroDepCount  int
}

// Stats returns summary statistics, computed once and memoized.
func (idx *Index) Stats() Stats {
	idx.statsOnce.Do(func() {
		s := Stats{TotalPackages: len(idx.set)}
		first := true
		for _, rec := range idx.set {
			n := len(rec.Dependencies)
			s.TotalEdges += n
			if first || n < s.MinDeps {
				s.MinDeps = n
			}
			if n > s.MaxDeps {
				s.MaxDeps = n
			}
			if n == 0 {
				s.ZeroDepCount++
			}
			first = false
		}
		if s.TotalPackages > 0 {
			s.AvgDeps = float64(s.TotalEdges) / float64(s.TotalPackages)
		}
		idx.stats = s
	})
	return idx.stats
}

// TopByDependencyCount returns the n packages with the most direct
// dependencies, ties broken by name so output is deterministic.
func (idx *Index) TopByDependencyCount(n int) []packset.PackageRecord {
	records := make([]packset.PackageRecord, 0, len(idx.set))
	for _, rec := range idx.set {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if len(records[i].Dependencies) != len(records[j].Dependencies) {
			return len(records[i].Dependencies) > len(records[j].Dependencies)
		}
		return records[i].Name < records[j].Name
	})
	if n < len(records) {
		records = records[:n]
	}
	return slices.Clip(records)
}
