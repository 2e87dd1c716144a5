package packset

import (
	"errors"
	"testing"
)

func testSet() PackageSet {
	return PackageSet{
		"prelude": {
			Name:    "prelude",
			Version: "v6.0.1",
			Repo:    "https://github.com/purescript/purescript-prelude.git",
		},
		"effect": {
			Name:         "effect",
			Version:      "v4.0.0",
			Repo:         "https://github.com/purescript/purescript-effect.git",
			Dependencies: []string{"prelude"},
		},
		"console": {
			Name:         "console",
			Version:      "v6.1.0",
			Repo:         "https://github.com/purescript/purescript-console.git",
			Dependencies: []string{"effect", "prelude"},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	set := testSet()

	decoded, err := Decode(Encode(set))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !decoded.Equal(set) {
		t.Errorf("round trip mismatch: got %v, want %v", decoded, set)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	set := testSet()
	a := Encode(set)
	b := Encode(set)
	if string(a) != string(b) {
		t.Error("Encode should be deterministic for the same set")
	}
}

func TestEncodeEmptySet(t *testing.T) {
	decoded, err := Decode(Encode(PackageSet{}))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("expected empty set, got %d records", len(decoded))
	}
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	valid := Encode(testSet())

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("NOPE\x01\x00")},
		{"truncated header", []byte("PS")},
		{"truncated body", valid[:len(valid)-5]},
		{"trailing garbage", append(append([]byte{}, valid...), 0xff)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrBadPayload) {
				t.Errorf("expected ErrBadPayload, got %v", err)
			}
		})
	}
}

func TestTagListLatest(t *testing.T) {
	list := &TagList{Tags: []string{"psc-0.15.15-20251004", "psc-0.15.15-20250930"}}
	if got := list.Latest(); got != "psc-0.15.15-20251004" {
		t.Errorf("Latest = %q, want first element", got)
	}

	empty := &TagList{}
	if got := empty.Latest(); got != "" {
		t.Errorf("Latest on empty list = %q, want empty", got)
	}
}
