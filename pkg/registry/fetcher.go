// Package registry retrieves package-set data from a remote source,
// layering cache policy over a pluggable transport.
//
// Package sets never change under a fixed tag, so any cached copy is
// usable regardless of age; only the tag list goes stale. The fetcher
// therefore treats a transport failure as fatal only when no cached copy
// exists at all.
package registry

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/purse-pm/purse/pkg/cache"
	"github.com/purse-pm/purse/pkg/packset"
)

// prefetchWorkers caps concurrent package-set downloads during Prefetch.
const prefetchWorkers = 4

// Fetcher answers tag and package-set queries cache-first. Each call is a
// pure function of (arguments, cache state); a Fetcher holds no mutable
// state of its own and is safe for concurrent use.
type Fetcher struct {
	transport Transport
	store     *cache.Store
	logger    *log.Logger
}

// NewFetcher creates a fetcher over the given transport and cache store.
// A nil logger disables fetch progress messages.
func NewFetcher(transport Transport, store *cache.Store, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{transport: transport, store: store, logger: logger}
}

// ListTags returns the known tags, newest first.
//
// With forceRefresh false, a fresh cached list is returned without any
// network traffic. A stale or absent list triggers a refetch; if the
// refetch fails and a stale list exists, the stale list is returned with a
// warning, since an outdated tag list is still a usable view of an
// append-only sequence. With no cache at all the failure propagates.
func (f *Fetcher) ListTags(ctx context.Context, forceRefresh bool) (*packset.TagList, error) {
	cached, ok, stale := f.store.LoadTags(ctx)
	if ok && !stale && !forceRefresh {
		f.logger.Debug("tag list served from cache", "tags", len(cached.Tags))
		return cached, nil
	}

	f.logger.Debug("fetching tag list from registry")
	tags, err := f.transport.FetchTags(ctx)
	if err != nil {
		if ok {
			f.logger.Warn("tag refresh failed, using cached list", "age", cached.Age(time.Now()).Round(time.Minute), "err", err)
			return cached, nil
		}
		return nil, fmt.Errorf("list tags: %w", err)
	}

	list := &packset.TagList{Tags: tags, FetchedAt: time.Now()}
	if err := f.store.SaveTags(ctx, list); err != nil {
		f.logger.Warn("could not cache tag list", "err", err)
	}
	return list, nil
}

// LatestTag returns the most recent tag known to the registry.
func (f *Fetcher) LatestTag(ctx context.Context, forceRefresh bool) (string, error) {
	list, err := f.ListTags(ctx, forceRefresh)
	if err != nil {
		return "", err
	}
	if list.Latest() == "" {
		return "", fmt.Errorf("registry returned no tags")
	}
	return list.Latest(), nil
}

// PackageSet returns the package set published under tag.
//
// With forceRefresh false, any cached entry wins: package sets are
// immutable per tag, so there is no notion of a stale set. On a cache miss
// the set is fetched, cached, and returned; a successful fetch always
// overwrites the cache entry. A transport failure falls back to the cached
// copy when one exists and propagates otherwise.
func (f *Fetcher) PackageSet(ctx context.Context, tag string, forceRefresh bool) (packset.PackageSet, error) {
	cached, ok := f.store.Load(ctx, tag)
	if ok && !forceRefresh {
		f.logger.Debug("package set served from cache", "tag", tag, "packages", len(cached))
		return cached, nil
	}

	f.logger.Debug("fetching package set", "tag", tag)
	set, err := f.transport.FetchPackageSet(ctx, tag)
	if err != nil {
		if ok {
			f.logger.Warn("refresh failed, using cached package set", "tag", tag, "err", err)
			return cached, nil
		}
		return nil, fmt.Errorf("get package set %q: %w", tag, err)
	}

	if err := f.store.Save(ctx, tag, set); err != nil {
		f.logger.Warn("could not cache package set", "tag", tag, "err", err)
	}
	f.logger.Debug("package set fetched", "tag", tag, "packages", len(set))
	return set, nil
}

// Prefetch warms the cache for several tags concurrently. Tags already
// cached are skipped. The first failure cancels outstanding fetches.
func (f *Fetcher) Prefetch(ctx context.Context, tags []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchWorkers)

	for _, tag := range tags {
		tag := tag
		g.Go(func() error {
			_, err := f.PackageSet(ctx, tag, false)
			return err
		})
	}
	return g.Wait()
}
