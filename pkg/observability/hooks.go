// Package observability provides hooks for metrics and logging backends.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability frameworks. Consumers register
// hooks at startup to receive events about cache operations and registry
// requests.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cache().OnHit(ctx, "package-set")
package observability

import (
	"context"
	"sync"
	"time"
)

// CacheHooks receives events from cache store operations.
type CacheHooks interface {
	// OnHit records a cache hit for the given entry kind
	// ("package-set" or "tags").
	OnHit(ctx context.Context, kind string)

	// OnMiss records a cache miss.
	OnMiss(ctx context.Context, kind string)

	// OnSet records a cache write with the encoded entry size in bytes.
	OnSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from registry transport operations.
type HTTPHooks interface {
	// OnRequest records an outgoing request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records a response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	mu         sync.RWMutex
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
)

// SetCacheHooks registers the cache hooks implementation.
// Pass nil to restore the no-op default.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// SetHTTPHooks registers the HTTP hooks implementation.
// Pass nil to restore the no-op default.
func SetHTTPHooks(h HTTPHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopHTTPHooks{}
	}
	httpHooks = h
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return httpHooks
}
