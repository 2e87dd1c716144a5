// Package cache implements the on-disk store for registry data.
//
// The store has two tiers with deliberately different policies:
//
//   - Package sets are immutable once published under a tag, so entries are
//     content-addressed by the SHA-256 digest of the tag string and never
//     expire. Existence alone means valid.
//   - The tag list is a living sequence, so it lives at a fixed location
//     with a time-to-live; a present-but-stale list is reported distinctly
//     so callers can refetch while keeping the stale copy as a fallback.
//
// Every read failure (missing file, corrupt blob, permission error)
// degrades to a miss. The cache is an optimization, never a dependency for
// correctness: callers must always be able to proceed by refetching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/purse-pm/purse/pkg/observability"
	"github.com/purse-pm/purse/pkg/packset"
)

// DefaultTagTTL is how long a cached tag list is considered fresh.
const DefaultTagTTL = 24 * time.Hour

const (
	setsDir     = "package-sets"
	metadataDir = "metadata"
	tagsFile    = "tags.json"

	kindPackageSet = "package-set"
	kindTags       = "tags"
)

// Store is the two-tier cache rooted at an injectable directory.
// A Store tolerates concurrent readers; writes are atomic
// (write-then-rename), so a reader never observes a half-written entry.
type Store struct {
	root   string
	tagTTL time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTagTTL overrides the tag-list freshness window.
func WithTagTTL(ttl time.Duration) Option {
	return func(s *Store) { s.tagTTL = ttl }
}

// NewStore creates a store rooted at dir, creating the layout if needed.
func NewStore(dir string, opts ...Option) (*Store, error) {
	s := &Store{root: dir, tagTTL: DefaultTagTTL}
	for _, opt := range opts {
		opt(s)
	}
	for _, sub := range []string{setsDir, metadataDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// entryPath returns the content-addressed location for a tag's package set.
func (s *Store) entryPath(tag string) string {
	h := sha256.Sum256([]byte(tag))
	return filepath.Join(s.root, setsDir, hex.EncodeToString(h[:])+".bin")
}

// Load reads the cached package set for tag. Any failure is a miss.
func (s *Store) Load(ctx context.Context, tag string) (packset.PackageSet, bool) {
	data, err := os.ReadFile(s.entryPath(tag))
	if err != nil {
		observability.Cache().OnMiss(ctx, kindPackageSet)
		return nil, false
	}
	set, err := packset.Decode(data)
	if err != nil {
		// Corrupt entry: discard so the next fetch replaces it.
		_ = os.Remove(s.entryPath(tag))
		observability.Cache().OnMiss(ctx, kindPackageSet)
		return nil, false
	}
	observability.Cache().OnHit(ctx, kindPackageSet)
	return set, true
}

// Save writes the package set for tag, replacing any previous entry.
func (s *Store) Save(ctx context.Context, tag string, set packset.PackageSet) error {
	data := packset.Encode(set)
	if err := atomicWrite(s.entryPath(tag), data); err != nil {
		return err
	}
	observability.Cache().OnSet(ctx, kindPackageSet, len(data))
	return nil
}

// LoadTags reads the cached tag list. It returns the list, whether a usable
// entry exists, and whether that entry is older than the configured TTL.
// Callers treat present-but-stale the same as absent except for messaging
// (and as a fallback when the refetch fails).
func (s *Store) LoadTags(ctx context.Context) (*packset.TagList, bool, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, metadataDir, tagsFile))
	if err != nil {
		observability.Cache().OnMiss(ctx, kindTags)
		return nil, false, false
	}
	var list packset.TagList
	if err := json.Unmarshal(data, &list); err != nil {
		observability.Cache().OnMiss(ctx, kindTags)
		return nil, false, false
	}
	stale := list.Age(time.Now()) > s.tagTTL
	if stale {
		observability.Cache().OnMiss(ctx, kindTags)
	} else {
		observability.Cache().OnHit(ctx, kindTags)
	}
	return &list, true, stale
}

// SaveTags writes the tag list to its fixed location.
func (s *Store) SaveTags(ctx context.Context, list *packset.TagList) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := atomicWrite(filepath.Join(s.root, metadataDir, tagsFile), data); err != nil {
		return err
	}
	observability.Cache().OnSet(ctx, kindTags, len(data))
	return nil
}

// Remove deletes the entry for tag. Removing an absent tag is a no-op.
func (s *Store) Remove(tag string) error {
	err := os.Remove(s.entryPath(tag))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear deletes every package-set entry and the cached tag list.
func (s *Store) Clear() error {
	if err := os.RemoveAll(filepath.Join(s.root, setsDir)); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.root, metadataDir)); err != nil {
		return err
	}
	for _, sub := range []string{setsDir, metadataDir} {
		if err := os.MkdirAll(filepath.Join(s.root, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Info summarizes the package-set tier.
type Info struct {
	EntryCount int
	TotalBytes int64
}

// Info reports how many package-set entries exist and their combined size.
func (s *Store) Info() Info {
	var info Info
	entries, err := os.ReadDir(filepath.Join(s.root, setsDir))
	if err != nil {
		return info
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		info.EntryCount++
		info.TotalBytes += fi.Size()
	}
	return info
}

// atomicWrite writes data to a temp file in the target directory and
// renames it into place, so concurrent readers never see a torn entry.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
