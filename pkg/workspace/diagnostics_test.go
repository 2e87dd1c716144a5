package workspace

import (
	"slices"
	"testing"

	"github.com/purse-pm/purse/pkg/index"
	"github.com/purse-pm/purse/pkg/packset"
)

func TestFindCyclesReportsClosedPath(t *testing.T) {
	g, err := BuildGraph([]*Package{
		pkg("a", []string{"b"}, nil, nil),
		pkg("b", []string{"c"}, nil, nil),
		pkg("c", []string{"a"}, nil, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}

	cycles := FindCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one cycle, got %d: %v", len(cycles), cycles)
	}
	if !slices.Equal(cycles[0], []string{"a", "b", "c", "a"}) {
		t.Errorf("cycle = %v, want [a b c a]", cycles[0])
	}
}

func TestFindCyclesAcyclic(t *testing.T) {
	g, err := BuildGraph([]*Package{
		pkg("a", []string{"b", "c"}, nil, nil),
		pkg("b", []string{"c"}, nil, nil),
		pkg("c", nil, nil, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}

	if cycles := FindCycles(g); len(cycles) != 0 {
		t.Errorf("acyclic graph reported cycles: %v", cycles)
	}
}

func TestFindCyclesSelfLoop(t *testing.T) {
	g, err := BuildGraph([]*Package{
		pkg("a", []string{"a"}, nil, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}

	cycles := FindCycles(g)
	if len(cycles) != 1 || !slices.Equal(cycles[0], []string{"a", "a"}) {
		t.Errorf("self loop should report [a a], got %v", cycles)
	}
}

func TestFindCyclesIgnoresExternalEdges(t *testing.T) {
	// prelude is not a workspace package, so a -> prelude cannot close
	// a cycle even though prelude's registry record might point back.
	g, err := BuildGraph([]*Package{
		pkg("a", []string{"prelude"}, nil, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}

	if cycles := FindCycles(g); len(cycles) != 0 {
		t.Errorf("external edges should not form cycles: %v", cycles)
	}
}

func TestFindBrokenDependencies(t *testing.T) {
	g, err := BuildGraph([]*Package{
		pkg("app", []string{"core", "prelud", "effect"}, nil, nil),
		pkg("core", nil, nil, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}
	idx := index.Build(packset.PackageSet{
		"prelude": {Name: "prelude"},
		"effect":  {Name: "effect"},
	})

	broken := FindBrokenDependencies(g, idx)
	if len(broken) != 1 {
		t.Fatalf("expected one broken dependency, got %v", broken)
	}
	b := broken[0]
	if b.Package != "app" || b.Missing != "prelud" {
		t.Errorf("unexpected report: %+v", b)
	}
	if b.Suggestion != "prelude" {
		t.Errorf("Suggestion = %q, want prelude", b.Suggestion)
	}
}

func TestFindBrokenDependenciesWithoutIndex(t *testing.T) {
	g, err := BuildGraph([]*Package{
		pkg("app", []string{"core", "prelude"}, nil, nil),
		pkg("core", nil, nil, nil),
	})
	if err != nil {
		t.Fatalf("BuildGraph error: %v", err)
	}

	// Without a registry index only workspace names resolve.
	broken := FindBrokenDependencies(g, nil)
	if len(broken) != 1 || broken[0].Missing != "prelude" {
		t.Errorf("unexpected reports: %v", broken)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"console", "effect", "prelude", "strings"}

	tests := []struct {
		missing string
		want    string
	}{
		{"prelud", "prelude"},
		{"efect", "effect"},
		{"consoles", "console"},
		{"string", "strings"},
		{"completely-different", ""},
	}
	for _, tt := range tests {
		if got := suggest(tt.missing, candidates); got != tt.want {
			t.Errorf("suggest(%q) = %q, want %q", tt.missing, got, tt.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"prelud", "prelude", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
