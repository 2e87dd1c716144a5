// Package packset defines the package-set data model shared by the cache
// store, the registry fetcher, and the query index.
//
// A package set is an immutable snapshot of the registry: a mapping from
// package name to its pinned version and declared dependencies, published
// under a tag. Tags are opaque identifiers ordered by recency (e.g.
// "psc-0.15.15-20251004"); a given tag always names the same set.
package packset

import (
	"slices"
	"time"
)

// PackageRecord describes one package inside a package set.
type PackageRecord struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Repo         string   `json:"repo,omitempty"`
	Dependencies []string `json:"dependencies"`
}

// Equal reports whether two records carry identical data.
func (r PackageRecord) Equal(other PackageRecord) bool {
	return r.Name == other.Name &&
		r.Version == other.Version &&
		r.Repo == other.Repo &&
		slices.Equal(r.Dependencies, other.Dependencies)
}

// PackageSet maps package names to their records. A set is immutable once
// constructed; dependency names usually resolve to other keys of the same
// set, but dangling references are tolerated (they are a diagnosable
// condition, not a structural error).
type PackageSet map[string]PackageRecord

// Equal reports whether two sets contain the same records.
func (s PackageSet) Equal(other PackageSet) bool {
	if len(s) != len(other) {
		return false
	}
	for name, rec := range s {
		o, ok := other[name]
		if !ok || !rec.Equal(o) {
			return false
		}
	}
	return true
}

// Names returns the package names in lexicographic order.
func (s PackageSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TagList is the ordered sequence of known package-set tags, most recent
// first, together with the time it was fetched from the registry. The first
// element defines the default tag when a command does not name one.
type TagList struct {
	Tags      []string  `json:"tags"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Latest returns the most recent tag, or "" for an empty list.
func (l *TagList) Latest() string {
	if l == nil || len(l.Tags) == 0 {
		return ""
	}
	return l.Tags[0]
}

// Age returns how long ago the list was fetched.
func (l *TagList) Age(now time.Time) time.Duration {
	return now.Sub(l.FetchedAt)
}
